package scoring

import "fmt"

// ExplainComposite renders a human-readable breakdown of how the composite
// score was produced: overall figure, per-category contributions, outlier
// flags and a confidence narrative.
func ExplainComposite(scores map[string]float64, result CompositeResult) []string {
	lines := []string{
		fmt.Sprintf("Overall score of %.1f calculated as weighted average over %d categories", result.Score, len(result.WeightsUsed)),
	}

	for _, category := range sortedKeys(scores) {
		weight, ok := result.WeightsUsed[category]
		if !ok {
			continue
		}
		// effective weight after coverage renormalization, so the listed
		// contributions sum back to the composite
		if result.Coverage > 0 {
			weight /= result.Coverage
		}
		score := scores[category]
		lines = append(lines, fmt.Sprintf("%s: %.1f (weight %.0f%%) contributes %.1f points",
			category, score, weight*100, score*weight))
	}

	outliers := make([]string, 0)
	for _, category := range sortedKeys(scores) {
		if result.Outliers[category] {
			outliers = append(outliers, category)
		}
	}
	if len(outliers) > 0 {
		lines = append(lines, fmt.Sprintf("Outlier scores detected in: %v", outliers))
	}

	level := "low"
	switch {
	case result.Confidence >= 0.7:
		level = "high"
	case result.Confidence >= 0.4:
		level = "medium"
	}
	lines = append(lines, fmt.Sprintf("Analysis confidence: %s (%.2f), coverage %.0f%%",
		level, result.Confidence, result.Coverage*100))

	return lines
}
