package scoring

// Quartiles holds the p25/p50/p75/p90 marks for one raw business metric
// within an (industry, stage) cohort.
type Quartiles struct {
	P25 float64 `yaml:"p25"`
	P50 float64 `yaml:"p50"`
	P75 float64 `yaml:"p75"`
	P90 float64 `yaml:"p90"`
}

// MetricBenchmarks compares raw business metrics (ARR, growth rate, LTV/CAC)
// against industry quartile tables, industry -> stage -> metric.
type MetricBenchmarks struct {
	tables map[string]map[string]map[string]Quartiles
}

// MetricComparison is the standing of one raw metric against its quartile
// table.
type MetricComparison struct {
	Value           float64 `json:"value"`
	Percentile      float64 `json:"percentile"`
	Performance     string  `json:"performance"`
	BenchmarkMedian float64 `json:"benchmark_median"`
	BenchmarkP75    float64 `json:"benchmark_p75"`
	BenchmarkP90    float64 `json:"benchmark_p90"`
}

// MetricReport summarizes a metric-level benchmark run. When the industry or
// stage is unknown Available is false and Comparisons is empty; that is a
// degraded result, not an error.
type MetricReport struct {
	Industry    string                      `json:"industry"`
	Stage       string                      `json:"stage"`
	Available   bool                        `json:"available"`
	Comparisons map[string]MetricComparison `json:"comparisons"`
	Overall     string                      `json:"overall_performance"`
}

// DefaultMetricBenchmarks returns the built-in quartile tables. Values are
// in the same units the extractor produces ($M for ARR, percent for growth).
func DefaultMetricBenchmarks() *MetricBenchmarks {
	return &MetricBenchmarks{tables: map[string]map[string]map[string]Quartiles{
		"saas": {
			"seed": {
				"arr":         {P25: 0.05, P50: 0.1, P75: 0.5, P90: 1.0},
				"growth_rate": {P25: 50, P50: 100, P75: 200, P90: 400},
				"ltv_cac":     {P25: 2, P50: 3, P75: 5, P90: 8},
			},
			"series_a": {
				"arr":         {P25: 1, P50: 2, P75: 5, P90: 10},
				"growth_rate": {P25: 100, P50: 150, P75: 250, P90: 400},
				"ltv_cac":     {P25: 3, P50: 4, P75: 6, P90: 10},
			},
		},
		"fintech": {
			"seed": {
				"arr":         {P25: 0.1, P50: 0.3, P75: 1.0, P90: 3.0},
				"growth_rate": {P25: 30, P50: 80, P75: 150, P90: 300},
			},
		},
	}}
}

// NewMetricBenchmarks builds MetricBenchmarks from an explicit table set,
// typically loaded from configuration.
func NewMetricBenchmarks(tables map[string]map[string]map[string]Quartiles) *MetricBenchmarks {
	if tables == nil {
		return DefaultMetricBenchmarks()
	}
	return &MetricBenchmarks{tables: tables}
}

// Compare benchmarks each known metric against the (industry, stage) tables.
func (m *MetricBenchmarks) Compare(metrics map[string]float64, industry, stage string) MetricReport {
	report := MetricReport{
		Industry:    industry,
		Stage:       stage,
		Comparisons: map[string]MetricComparison{},
		Overall:     "Insufficient data",
	}
	byStage, ok := m.tables[industry]
	if !ok {
		return report
	}
	table, ok := byStage[stage]
	if !ok {
		return report
	}
	report.Available = true

	percentiles := make([]float64, 0, len(metrics))
	for _, metric := range sortedKeys(metrics) {
		q, ok := table[metric]
		if !ok {
			continue
		}
		value := metrics[metric]
		percentile := interpolatePercentile(value, q)
		report.Comparisons[metric] = MetricComparison{
			Value:           value,
			Percentile:      roundTo(percentile, 1),
			Performance:     quartileLabel(percentile),
			BenchmarkMedian: q.P50,
			BenchmarkP75:    q.P75,
			BenchmarkP90:    q.P90,
		}
		percentiles = append(percentiles, percentile)
	}
	if len(percentiles) > 0 {
		report.Overall = overallLabel(mean(percentiles))
	}
	return report
}

// interpolatePercentile places value on a piecewise-linear percentile curve
// through the quartile marks, extrapolating beyond p90 and below p25.
func interpolatePercentile(value float64, q Quartiles) float64 {
	switch {
	case value >= q.P90:
		if q.P90 == 0 {
			return 90
		}
		return clip(90+(value-q.P90)/(q.P90*0.1)*10, 0, 100)
	case value >= q.P75:
		return 75 + (value-q.P75)/(q.P90-q.P75)*15
	case value >= q.P50:
		return 50 + (value-q.P50)/(q.P75-q.P50)*25
	case value >= q.P25:
		return 25 + (value-q.P25)/(q.P50-q.P25)*25
	default:
		if q.P25 == 0 {
			return 0
		}
		return clip(25*value/q.P25, 0, 25)
	}
}

func quartileLabel(percentile float64) string {
	switch {
	case percentile >= 90:
		return "Top 10%"
	case percentile >= 75:
		return "Top 25%"
	case percentile >= 50:
		return "Above Median"
	case percentile >= 25:
		return "Below Median"
	default:
		return "Bottom 25%"
	}
}

func overallLabel(avgPercentile float64) string {
	switch {
	case avgPercentile >= 75:
		return "Exceptional"
	case avgPercentile >= 60:
		return "Above Average"
	case avgPercentile >= 40:
		return "Average"
	case avgPercentile >= 25:
		return "Below Average"
	default:
		return "Poor"
	}
}
