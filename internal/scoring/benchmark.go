package scoring

// CohortStats describes the score distribution of a (vertical, stage) peer
// group for one category.
type CohortStats struct {
	Mean        float64 `yaml:"mean"`
	Median      float64 `yaml:"median"`
	Std         float64 `yaml:"std"`
	P25         float64 `yaml:"p25"`
	P75         float64 `yaml:"p75"`
	P90         float64 `yaml:"p90"`
	SampleCount int     `yaml:"sample_count"`
}

// CohortStore is the read-only collaborator supplying cohort statistics.
// Missing keys are tolerated and reported via the bool return.
type CohortStore interface {
	Lookup(vertical, stage, category string) (CohortStats, bool)
}

// StaticCohortStore serves cohort stats from an in-memory table keyed by
// "<vertical>_<stage>".
type StaticCohortStore map[string]map[string]CohortStats

func (s StaticCohortStore) Lookup(vertical, stage, category string) (CohortStats, bool) {
	byCategory, ok := s[vertical+"_"+stage]
	if !ok {
		return CohortStats{}, false
	}
	stats, ok := byCategory[category]
	return stats, ok
}

// CategoryBenchmark is the percentile standing of one category score against
// its cohort. Degraded marks entries produced from static score bands because
// no cohort data was available.
type CategoryBenchmark struct {
	Score        float64 `json:"score"`
	Percentile   float64 `json:"percentile"`
	Performance  string  `json:"performance"`
	CohortMedian float64 `json:"cohort_median"`
	CohortMean   float64 `json:"cohort_mean"`
	SampleSize   int     `json:"sample_size"`
	Degraded     bool    `json:"degraded"`
}

// BenchmarkReport maps categories to their cohort standing.
type BenchmarkReport struct {
	Vertical   string                       `json:"vertical"`
	Stage      string                       `json:"stage"`
	Categories map[string]CategoryBenchmark `json:"categories"`
}

// BenchmarkEngine maps scores to percentile/performance labels against
// cohort statistics, degrading to static score bands when the cohort is
// unknown.
type BenchmarkEngine struct {
	store CohortStore
	norm  *Normalizer
}

// NewBenchmarkEngine builds a BenchmarkEngine over the given store. A nil
// store always degrades to static bands.
func NewBenchmarkEngine(store CohortStore, be Backend) *BenchmarkEngine {
	return &BenchmarkEngine{
		store: store,
		norm:  NewNormalizer(MethodZScore, nil, be),
	}
}

// Compare benchmarks each score against the (vertical, stage) cohort.
func (b *BenchmarkEngine) Compare(scores map[string]float64, vertical, stage string) BenchmarkReport {
	report := BenchmarkReport{
		Vertical:   vertical,
		Stage:      stage,
		Categories: make(map[string]CategoryBenchmark, len(scores)),
	}
	for _, category := range sortedKeys(scores) {
		score := scores[category]
		if b.store != nil {
			if stats, ok := b.store.Lookup(vertical, stage, category); ok {
				report.Categories[category] = b.cohortBenchmark(score, stats)
				continue
			}
		}
		report.Categories[category] = staticBenchmark(score)
	}
	return report
}

func (b *BenchmarkEngine) cohortBenchmark(score float64, stats CohortStats) CategoryBenchmark {
	percentile := 50.0
	if stats.Std > 0 {
		z := (score - stats.Mean) / stats.Std
		percentile = clip(b.norm.zToPercentile(z)*100, 0, 100)
	}
	return CategoryBenchmark{
		Score:        score,
		Percentile:   roundTo(percentile, 1),
		Performance:  performanceLabel(percentile),
		CohortMedian: stats.Median,
		CohortMean:   stats.Mean,
		SampleSize:   stats.SampleCount,
	}
}

func performanceLabel(percentile float64) string {
	switch {
	case percentile >= 90:
		return "Exceptional"
	case percentile >= 75:
		return "Above Average"
	case percentile >= 50:
		return "Average"
	case percentile >= 25:
		return "Below Average"
	default:
		return "Poor"
	}
}

// staticBenchmark is the lower-fidelity path used when no cohort data
// exists: static score bands with the clamped raw score standing in for the
// percentile.
func staticBenchmark(score float64) CategoryBenchmark {
	performance := "Below Average"
	switch {
	case score >= 80:
		performance = "Above Average"
	case score >= 60:
		performance = "Average"
	}
	return CategoryBenchmark{
		Score:        score,
		Percentile:   clip(score, 0, 100),
		Performance:  performance,
		CohortMedian: 50,
		CohortMean:   50,
		Degraded:     true,
	}
}
