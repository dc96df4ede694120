package scoring

// DefaultWeights returns the canonical category weighting.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"founder":  0.25,
		"market":   0.25,
		"traction": 0.20,
		"finance":  0.15,
		"risk":     0.15,
	}
}

// CompositeResult is the immutable output of one composite computation. It
// is never mutated in place; recompute if the inputs change.
type CompositeResult struct {
	Score       float64            `json:"composite_score"`
	Confidence  float64            `json:"confidence"`
	Coverage    float64            `json:"coverage"`
	WeightsUsed map[string]float64 `json:"weights_used"`
	Outliers    map[string]bool    `json:"outliers"`
}

// Scorer aggregates category scores into one weighted composite with a
// confidence and coverage figure. Partial category maps are expected; missing
// categories penalize confidence instead of failing.
type Scorer struct {
	outlierThreshold float64
}

// NewScorer builds a Scorer with the given outlier z-score threshold (2.0 is
// the conventional setting).
func NewScorer(outlierThreshold float64) *Scorer {
	if outlierThreshold <= 0 {
		outlierThreshold = 2.0
	}
	return &Scorer{outlierThreshold: outlierThreshold}
}

// Composite computes the weighted composite over the categories present in
// scores. Weights are renormalized to sum to 1 before use, then renormalized
// again over only the categories present. With zero present categories the
// result is the uninformative default (50.0 / 0.1 / 0.0), never an error.
func (s *Scorer) Composite(scores map[string]float64, weights map[string]float64) CompositeResult {
	if len(weights) == 0 {
		weights = DefaultWeights()
	}
	weights = renormalize(weights)

	weightedSum := 0.0
	coverage := 0.0
	used := make(map[string]float64)
	for _, category := range sortedKeys(scores) {
		w, ok := weights[category]
		if !ok {
			continue
		}
		weightedSum += scores[category] * w
		coverage += w
		used[category] = w
	}

	if coverage == 0 {
		return CompositeResult{
			Score:       50.0,
			Confidence:  0.1,
			Coverage:    0.0,
			WeightsUsed: map[string]float64{},
			Outliers:    map[string]bool{},
		}
	}

	composite := weightedSum / coverage
	confidence := s.confidence(scores, coverage)

	return CompositeResult{
		Score:       roundTo(clip(composite, 0, 100), 1),
		Confidence:  roundTo(clip(confidence, 0, 1), 2),
		Coverage:    roundTo(coverage, 2),
		WeightsUsed: used,
		Outliers:    s.DetectOutliers(scores),
	}
}

// confidence blends score consistency with canonical weight coverage:
// 0.4*consistency + 0.6*coverage.
func (s *Scorer) confidence(scores map[string]float64, coverage float64) float64 {
	present := make([]float64, 0, len(scores))
	for _, k := range sortedKeys(scores) {
		present = append(present, scores[k])
	}
	consistency := clip(1-stdev(present)/40, 0, 1)
	return 0.4*consistency + 0.6*coverage
}

// DetectOutliers flags categories whose score deviates from the mean by more
// than the configured number of standard deviations. Requires at least three
// present scores.
func (s *Scorer) DetectOutliers(scores map[string]float64) map[string]bool {
	outliers := make(map[string]bool, len(scores))
	values := make([]float64, 0, len(scores))
	for _, k := range sortedKeys(scores) {
		outliers[k] = false
		values = append(values, scores[k])
	}
	if len(values) < 3 {
		return outliers
	}

	m := mean(values)
	sd := stdev(values)
	if sd == 0 {
		return outliers
	}
	for category, score := range scores {
		z := score - m
		if z < 0 {
			z = -z
		}
		outliers[category] = z/sd > s.outlierThreshold
	}
	return outliers
}

// renormalize scales weights so they sum to exactly 1.
func renormalize(weights map[string]float64) map[string]float64 {
	total := 0.0
	for _, k := range sortedKeys(weights) {
		total += weights[k]
	}
	if total == 0 {
		return weights
	}
	out := make(map[string]float64, len(weights))
	for k, v := range weights {
		out[k] = v / total
	}
	return out
}
