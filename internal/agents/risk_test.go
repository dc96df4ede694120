package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venturelens/pitchmeter/internal/config"
	"github.com/venturelens/pitchmeter/internal/llm"
)

func TestRiskAgentAnalyze(t *testing.T) {
	params := config.DefaultScoringParams()

	t.Run("never returns an error on model failure", func(t *testing.T) {
		agent := NewRiskAgent(&llm.MockClient{Err: errors.New("connection refused")}, params)

		result, err := agent.Analyze(context.Background(), "a clean-running startup", nil)
		assert.NoError(t, err)
		assert.Equal(t, riskFallbackNarrative, result.DetailedAnalysis)
		assert.InDelta(t, 65.0, result.Details.LLMScore, 1e-9)
		assert.Greater(t, result.Score, 0.0)
	})

	t.Run("reads the finance score from context", func(t *testing.T) {
		agent := NewRiskAgent(&llm.MockClient{Content: "Manageable exposure. Score: 70"}, params)
		agentCtx := &Context{Results: map[Category]AgentResult{
			CategoryFinance: {Category: CategoryFinance, Score: 30},
		}}

		result, err := agent.Analyze(context.Background(), "doc", agentCtx)
		assert.NoError(t, err)
		assert.InDelta(t, 30.0, result.NormalizedMetrics["financial_risk"], 1e-9)
	})

	t.Run("missing context defaults the financial component", func(t *testing.T) {
		agent := NewRiskAgent(&llm.MockClient{Content: "Score: 70"}, params)

		result, err := agent.Analyze(context.Background(), "doc", nil)
		assert.NoError(t, err)
		assert.InDelta(t, 60.0, result.NormalizedMetrics["financial_risk"], 1e-9)
	})

	t.Run("risk indicators in the document lower component scores", func(t *testing.T) {
		agent := NewRiskAgent(&llm.MockClient{Content: "Score: 70"}, params)
		doc := "An unproven market with real adoption risk and uncertain market timing."

		result, err := agent.Analyze(context.Background(), doc, nil)
		assert.NoError(t, err)
		// 80 - 3 indicators * 15
		assert.InDelta(t, 35.0, result.NormalizedMetrics["market_risk"], 1e-9)
	})
}

func TestPenaltyScore(t *testing.T) {
	indicators := []string{"regulatory", "compliance", "legal", "patent"}

	t.Run("no hits stays at base", func(t *testing.T) {
		assert.Equal(t, 85.0, penaltyScore("all clear", indicators, 85, 10, 40))
	})

	t.Run("each hit subtracts the penalty", func(t *testing.T) {
		assert.Equal(t, 65.0, penaltyScore("regulatory and compliance burden", indicators, 85, 10, 40))
	})

	t.Run("floor holds", func(t *testing.T) {
		text := "regulatory compliance legal patent"
		assert.Equal(t, 45.0, penaltyScore(text, indicators, 85, 10, 40))
		assert.Equal(t, 40.0, penaltyScore(text, indicators, 85, 20, 40))
	})
}

func TestCategorizeRisk(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"weak market demand", "market_risk"},
		{"team execution concerns", "execution_risk"},
		{"funding gap and burn", "financial_risk"},
		{"fierce competition ahead", "competitive_risk"},
		{"regulatory compliance hurdles", "regulatory_risk"},
		{"something else entirely", "general_risk"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, categorizeRisk(tt.text), tt.text)
	}
}

func TestAssessMitigation(t *testing.T) {
	t.Run("no mitigation language", func(t *testing.T) {
		m := assessMitigation("we move fast and break things")
		assert.False(t, m.Mentioned)
		assert.Zero(t, m.Score)
		assert.False(t, m.HasContingencyPlans)
	})

	t.Run("mitigation keywords raise the score", func(t *testing.T) {
		m := assessMitigation("our mitigation plan will address churn")
		assert.True(t, m.Mentioned)
		assert.InDelta(t, 60.0, m.Score, 1e-9)
	})

	t.Run("contingency plans are detected", func(t *testing.T) {
		m := assessMitigation("a contingency budget covers the downside")
		assert.True(t, m.HasContingencyPlans)
	})
}

func TestIdentifyRisks(t *testing.T) {
	doc := "The main risk is intense market competition. A further challenge around scaling remains."
	risks := identifyRisks("", doc)

	assert.NotEmpty(t, risks)
	for _, r := range risks {
		assert.Equal(t, "medium", r.Severity)
		assert.NotEmpty(t, r.Category)
	}
}
