package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venturelens/pitchmeter/internal/config"
	"github.com/venturelens/pitchmeter/internal/llm"
)

const tractionDoc = "We reached an ARR of $2 million this year, growing 150% annually, with a customer base of 500 across two segments."

func TestTractionAgentAnalyze(t *testing.T) {
	params := config.DefaultScoringParams()

	t.Run("blends model judgment with weighted sub-scores", func(t *testing.T) {
		agent := NewTractionAgent(&llm.MockClient{Content: "Strong traction trajectory. Score: 80"}, params)

		result, err := agent.Analyze(context.Background(), tractionDoc, nil)
		assert.NoError(t, err)

		assert.InDelta(t, 2.0, result.RawMetrics["arr"], 1e-9)
		assert.InDelta(t, 150.0, result.RawMetrics["growth_rate"], 1e-9)
		assert.InDelta(t, 500.0, result.RawMetrics["customers"], 1e-9)

		assert.InDelta(t, 85.0, result.NormalizedMetrics["revenue_metrics"], 1e-9)
		assert.InDelta(t, 85.0, result.NormalizedMetrics["growth_rate"], 1e-9)
		assert.InDelta(t, 80.0, result.NormalizedMetrics["customer_metrics"], 1e-9)
		assert.InDelta(t, 60.0, result.NormalizedMetrics["retention_metrics"], 1e-9)

		assert.InDelta(t, 80.0, result.Details.LLMScore, 1e-9)
		assert.InDelta(t, 80.0, result.Details.CalculatedScore, 1e-9)
		assert.InDelta(t, 80.0, result.Score, 1e-9)
		assert.True(t, result.Mock)
		assert.False(t, result.Fallback)
	})

	t.Run("model judgment shifts the final score", func(t *testing.T) {
		agent := NewTractionAgent(&llm.MockClient{Content: "Exceptional momentum. Score: 90"}, params)

		result, err := agent.Analyze(context.Background(), tractionDoc, nil)
		assert.NoError(t, err)

		// 0.6*90 + 0.4*80
		assert.InDelta(t, 86.0, result.Score, 1e-9)
	})

	t.Run("confidence follows sub-score agreement", func(t *testing.T) {
		agent := NewTractionAgent(&llm.MockClient{Content: "Score: 80"}, params)

		result, err := agent.Analyze(context.Background(), tractionDoc, nil)
		assert.NoError(t, err)
		assert.InDelta(t, 0.762, result.Confidence, 0.001)
	})

	t.Run("derives unit economics from extracted metrics", func(t *testing.T) {
		agent := NewTractionAgent(&llm.MockClient{Content: "Score: 70"}, params)

		result, err := agent.Analyze(context.Background(), tractionDoc, nil)
		assert.NoError(t, err)
		if assert.NotNil(t, result.Details.UnitEconomics) {
			assert.InDelta(t, 2.0, result.Details.UnitEconomics.ARR, 1e-9)
			assert.InDelta(t, 2.0/12, result.Details.UnitEconomics.MRR, 1e-9)
		}
	})
}

func TestRevenueScore(t *testing.T) {
	tests := []struct {
		name    string
		metrics map[string]float64
		want    float64
	}{
		{"ten million ARR", map[string]float64{"arr": 10}, 95},
		{"one million ARR", map[string]float64{"arr": 1}, 85},
		{"MRR annualizes", map[string]float64{"mrr": 0.1}, 85},
		{"strongest figure wins", map[string]float64{"arr": 0.5, "revenue": 12}, 95},
		{"hundred thousand", map[string]float64{"revenue": 0.1}, 70},
		{"pre-revenue", map[string]float64{}, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, revenueScore(tt.metrics))
		})
	}
}

func TestTractionGrowthScore(t *testing.T) {
	tests := []struct {
		growth float64
		want   float64
	}{
		{200, 95}, {150, 85}, {50, 85}, {20, 70}, {10, 55}, {5, 40}, {0, 40},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tractionGrowthScore(map[string]float64{"growth_rate": tt.growth}), "growth %.0f", tt.growth)
	}
}

func TestCustomerScore(t *testing.T) {
	tests := []struct {
		customers float64
		want      float64
	}{
		{10000, 90}, {500, 80}, {100, 65}, {10, 50}, {3, 35},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, customerScore(map[string]float64{"customers": tt.customers}), "customers %.0f", tt.customers)
	}
}

func TestRetentionScore(t *testing.T) {
	t.Run("explicit retention wins over churn", func(t *testing.T) {
		got := retentionScore(map[string]float64{"retention": 95, "churn": 20})
		assert.Equal(t, 95.0, got)
	})

	t.Run("low churn implies strong retention", func(t *testing.T) {
		assert.Equal(t, 95.0, retentionScore(map[string]float64{"churn": 2}))
		assert.Equal(t, 40.0, retentionScore(map[string]float64{"churn": 15}))
	})

	t.Run("neither stays neutral", func(t *testing.T) {
		assert.Equal(t, 60.0, retentionScore(map[string]float64{}))
	})
}
