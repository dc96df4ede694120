package agents

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venturelens/pitchmeter/internal/config"
	"github.com/venturelens/pitchmeter/internal/llm"
	"github.com/venturelens/pitchmeter/internal/scoring"
)

func testOrchestrator(agentList []Agent) *Orchestrator {
	return NewOrchestrator(
		agentList,
		scoring.NewScorer(2.0),
		scoring.NewProbabilityModel(scoring.DefaultProbabilityParams(), scoring.StdBackend{}),
		nil,
		scoring.NewNormalizer(scoring.MethodMinMax, nil, scoring.StdBackend{}),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

// panicAgent stands in for an agent with an internal defect.
type panicAgent struct{ category Category }

func (p panicAgent) Category() Category { return p.category }
func (p panicAgent) Analyze(ctx context.Context, documentText string, agentCtx *Context) (AgentResult, error) {
	panic("nil map write")
}

func TestOrchestratorAnalyze(t *testing.T) {
	params := config.DefaultScoringParams()

	t.Run("produces a complete report", func(t *testing.T) {
		good := &llm.MockClient{Content: "Well rounded opportunity. Score: 72"}
		o := testOrchestrator(NewAgents([]llm.Client{good}, params))

		report := o.Analyze(context.Background(), AnalyzeRequest{DocumentText: tractionDoc, Sector: "saas"})

		assert.NotEmpty(t, report.RunID)
		assert.Len(t, report.Categories, 5)
		for _, c := range AllCategories() {
			assert.Contains(t, report.Categories, c)
		}
		assert.Empty(t, report.DegradedCategories)
		assert.GreaterOrEqual(t, report.OverallScore, 0.0)
		assert.LessOrEqual(t, report.OverallScore, 100.0)
		assert.NotEmpty(t, report.Recommendation)
		assert.NotEmpty(t, report.KeyInsights)
		assert.NotEmpty(t, report.NextSteps)
		assert.NotEmpty(t, report.Explanation)
		assert.False(t, report.GeneratedAt.IsZero())
		assert.Greater(t, report.SuccessProbability.Probability, 0.0)
	})

	t.Run("failing agent degrades its category only", func(t *testing.T) {
		good := &llm.MockClient{Content: "Score: 72"}
		bad := &llm.MockClient{Err: errors.New("model unavailable")}
		agentList := []Agent{
			NewFounderAgent(good, params),
			NewMarketAgent(good, params),
			NewTractionAgent(good, params),
			NewFinanceAgent(bad, params),
			NewRiskAgent(good, params),
		}
		o := testOrchestrator(agentList)

		report := o.Analyze(context.Background(), AnalyzeRequest{DocumentText: tractionDoc})

		assert.Equal(t, []string{"finance"}, report.DegradedCategories)
		finance := report.Categories[CategoryFinance]
		assert.True(t, finance.Fallback)
		assert.InDelta(t, fallbackScore, finance.Score, 1e-9)
		assert.InDelta(t, fallbackConfidence, finance.Confidence, 1e-9)
		assert.Len(t, report.Categories, 5)
	})

	t.Run("panicking agent degrades instead of crashing", func(t *testing.T) {
		good := &llm.MockClient{Content: "Score: 72"}
		agentList := []Agent{
			NewFounderAgent(good, params),
			panicAgent{category: CategoryMarket},
			NewTractionAgent(good, params),
			NewFinanceAgent(good, params),
			NewRiskAgent(good, params),
		}
		o := testOrchestrator(agentList)

		report := o.Analyze(context.Background(), AnalyzeRequest{DocumentText: tractionDoc})

		assert.Equal(t, []string{"market"}, report.DegradedCategories)
		assert.True(t, report.Categories[CategoryMarket].Fallback)
	})

	t.Run("all agents failing still yields a report", func(t *testing.T) {
		bad := &llm.MockClient{Err: errors.New("model unavailable")}
		agentList := []Agent{
			NewFounderAgent(bad, params),
			NewMarketAgent(bad, params),
			NewTractionAgent(bad, params),
			NewFinanceAgent(bad, params),
			NewRiskAgent(bad, params),
		}
		o := testOrchestrator(agentList)

		report := o.Analyze(context.Background(), AnalyzeRequest{DocumentText: "doc"})

		assert.Len(t, report.Categories, 5)
		// risk alone absorbs its model failure internally
		assert.Len(t, report.DegradedCategories, 4)
		assert.NotEmpty(t, report.Recommendation)
	})

	t.Run("exhausted ensemble surfaces the low-confidence consensus fallback", func(t *testing.T) {
		members := []llm.Client{
			&llm.MockClient{SamplerName: "t02", Err: errors.New("model unavailable")},
			&llm.MockClient{SamplerName: "t08", Err: errors.New("model unavailable")},
		}
		o := testOrchestrator(NewAgents(members, params))

		report := o.Analyze(context.Background(), AnalyzeRequest{DocumentText: "doc"})

		founder := report.Categories[CategoryFounder]
		assert.True(t, founder.Fallback)
		assert.InDelta(t, consensusFallbackScore, founder.Score, 1e-9)
		assert.InDelta(t, consensusFallbackConfidence, founder.Confidence, 1e-9)
		assert.Equal(t, consensusFallbacks[CategoryFounder], founder.Summary)
		assert.Contains(t, report.DegradedCategories, "founder")
	})

	t.Run("extracted metrics carry a reference-normalized view", func(t *testing.T) {
		good := &llm.MockClient{Content: "Score: 72"}
		o := testOrchestrator(NewAgents([]llm.Client{good}, params))

		report := o.Analyze(context.Background(), AnalyzeRequest{DocumentText: tractionDoc})

		normalized := report.Categories[CategoryTraction].Details.ReferenceNormalized
		if assert.NotNil(t, normalized) {
			assert.InDelta(t, 75.0, normalized["growth_rate"], 1e-9)
			assert.InDelta(t, 2.0, normalized["arr"], 1e-9)
		}
	})

	t.Run("cancelled run still yields a usable report", func(t *testing.T) {
		good := &llm.MockClient{Content: "Score: 72"}
		o := testOrchestrator(NewAgents([]llm.Client{good}, params))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		report := o.Analyze(ctx, AnalyzeRequest{DocumentText: tractionDoc})

		assert.Len(t, report.Categories, 5)
		assert.GreaterOrEqual(t, report.OverallScore, 0.0)
		assert.LessOrEqual(t, report.OverallScore, 100.0)
		assert.NotEmpty(t, report.Recommendation)
	})
}

func TestOrchestratorAnalyzeCategory(t *testing.T) {
	params := config.DefaultScoringParams()
	good := &llm.MockClient{Content: "Score: 70"}
	o := testOrchestrator(NewAgents([]llm.Client{good}, params))

	t.Run("runs a single category", func(t *testing.T) {
		result, err := o.AnalyzeCategory(context.Background(), CategoryTraction, tractionDoc, "saas")
		assert.NoError(t, err)
		assert.Equal(t, CategoryTraction, result.Category)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := o.AnalyzeCategory(context.Background(), Category("vibes"), "doc", "")
		assert.Error(t, err)
	})
}

func TestRecommendation(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		prefs Preferences
		want  string
	}{
		{"strong buy at 80", 80, Preferences{}, "Strong Buy"},
		{"buy at 72", 72, Preferences{}, "Buy"},
		{"consider at 65", 65, Preferences{}, "Consider"},
		{"caution at 55", 55, Preferences{}, "Caution"},
		{"pass below 50", 42, Preferences{}, "Pass"},
		{"investor floor forces pass", 75, Preferences{MinOverallScore: 80}, "Pass"},
		{"floor met keeps the band", 85, Preferences{MinOverallScore: 80}, "Strong Buy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recommendation(tt.score, tt.prefs))
		})
	}
}

func TestKeyInsights(t *testing.T) {
	t.Run("names strongest and weakest areas", func(t *testing.T) {
		categories := map[Category]AgentResult{
			CategoryFounder:  {Score: 85, Confidence: 0.9},
			CategoryMarket:   {Score: 40, Confidence: 0.4},
			CategoryTraction: {Score: 70, Confidence: 0.5},
		}
		insights := keyInsights(categories)

		assert.Contains(t, insights[0], "founder")
		assert.Contains(t, insights[1], "market")
	})

	t.Run("fallback results never count as high confidence", func(t *testing.T) {
		categories := map[Category]AgentResult{
			CategoryFounder: {Score: 65, Confidence: 0.9, Fallback: true},
			CategoryMarket:  {Score: 60, Confidence: 0.3},
		}
		for _, insight := range keyInsights(categories) {
			assert.NotContains(t, insight, "High confidence")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, []string{"Insufficient data for analysis."}, keyInsights(nil))
	})
}

func TestNextSteps(t *testing.T) {
	t.Run("weak categories drive diligence items", func(t *testing.T) {
		categories := map[Category]AgentResult{
			CategoryFounder: {Score: 45},
			CategoryMarket:  {Score: 70},
		}
		steps := nextSteps(55, categories)

		assert.Contains(t, steps, categorySuggestions[CategoryFounder])
		assert.NotContains(t, steps, categorySuggestions[CategoryMarket])
	})

	t.Run("capped at five steps", func(t *testing.T) {
		categories := map[Category]AgentResult{}
		for _, c := range AllCategories() {
			categories[c] = AgentResult{Score: 20}
		}
		steps := nextSteps(30, categories)
		assert.Len(t, steps, 5)
	})
}
