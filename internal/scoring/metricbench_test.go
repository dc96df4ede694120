package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricBenchmarks_Compare(t *testing.T) {
	mb := DefaultMetricBenchmarks()

	t.Run("unknown industry degrades", func(t *testing.T) {
		report := mb.Compare(map[string]float64{"arr": 2}, "biotech", "seed")
		assert.False(t, report.Available)
		assert.Empty(t, report.Comparisons)
		assert.Equal(t, "Insufficient data", report.Overall)
	})

	t.Run("unknown stage degrades", func(t *testing.T) {
		report := mb.Compare(map[string]float64{"arr": 2}, "saas", "series_c")
		assert.False(t, report.Available)
	})

	t.Run("median value lands at fiftieth percentile", func(t *testing.T) {
		report := mb.Compare(map[string]float64{"arr": 2}, "saas", "series_a")
		assert.True(t, report.Available)
		assert.Equal(t, 50.0, report.Comparisons["arr"].Percentile)
		assert.Equal(t, "Above Median", report.Comparisons["arr"].Performance)
	})

	t.Run("unknown metrics are skipped", func(t *testing.T) {
		report := mb.Compare(map[string]float64{"arr": 2, "nps": 60}, "saas", "series_a")
		assert.True(t, report.Available)
		assert.Contains(t, report.Comparisons, "arr")
		assert.NotContains(t, report.Comparisons, "nps")
	})

	t.Run("top decile value", func(t *testing.T) {
		report := mb.Compare(map[string]float64{"arr": 10}, "saas", "series_a")
		cmp := report.Comparisons["arr"]
		assert.GreaterOrEqual(t, cmp.Percentile, 90.0)
		assert.Equal(t, "Top 10%", cmp.Performance)
	})

	t.Run("bottom value stays within range", func(t *testing.T) {
		report := mb.Compare(map[string]float64{"arr": 0.1}, "saas", "series_a")
		cmp := report.Comparisons["arr"]
		assert.GreaterOrEqual(t, cmp.Percentile, 0.0)
		assert.Less(t, cmp.Percentile, 25.0)
		assert.Equal(t, "Bottom 25%", cmp.Performance)
	})
}

func TestInterpolatePercentile(t *testing.T) {
	q := Quartiles{P25: 1, P50: 2, P75: 5, P90: 10}

	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{name: "at p25", value: 1, expected: 25},
		{name: "at p50", value: 2, expected: 50},
		{name: "at p75", value: 5, expected: 75},
		{name: "at p90", value: 10, expected: 90},
		{name: "between p50 and p75", value: 3.5, expected: 62.5},
		{name: "half of p25", value: 0.5, expected: 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, interpolatePercentile(tt.value, q), 1e-9)
		})
	}
}

func TestInterpolatePercentile_DegenerateMarks(t *testing.T) {
	tables := []Quartiles{
		{P25: 5, P50: 5, P75: 5, P90: 5},
		{P25: 2, P50: 2, P75: 8, P90: 8},
		{P25: 0, P50: 0, P75: 0, P90: 0},
	}
	for _, q := range tables {
		for _, v := range []float64{0, 2, 4, 5, 6, 8, 50} {
			p := interpolatePercentile(v, q)
			assert.False(t, math.IsNaN(p) || math.IsInf(p, 0), "q=%+v value=%v", q, v)
			assert.GreaterOrEqual(t, p, 0.0, "q=%+v value=%v", q, v)
			assert.LessOrEqual(t, p, 100.0, "q=%+v value=%v", q, v)
		}
	}
}

func TestOverallLabel(t *testing.T) {
	tests := []struct {
		avg   float64
		label string
	}{
		{80, "Exceptional"},
		{75, "Exceptional"},
		{60, "Above Average"},
		{40, "Average"},
		{25, "Below Average"},
		{10, "Poor"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.label, overallLabel(tt.avg), "avg=%v", tt.avg)
	}
}
