package agents

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/venturelens/pitchmeter/internal/config"
	"github.com/venturelens/pitchmeter/internal/finance"
	"github.com/venturelens/pitchmeter/internal/llm"
)

// TractionAgent rates business momentum: revenue, growth, customers and
// retention.
type TractionAgent struct {
	base
	weights map[string]float64
}

func NewTractionAgent(client llm.Client, params config.ScoringParams) *TractionAgent {
	return &TractionAgent{
		base: newBase(client, params),
		weights: map[string]float64{
			"revenue_metrics":   0.35,
			"growth_rate":       0.25,
			"customer_metrics":  0.25,
			"retention_metrics": 0.15,
		},
	}
}

func (a *TractionAgent) Category() Category { return CategoryTraction }

var tractionPatterns = []MetricPattern{
	{"arr", regexp.MustCompile(`(?i)ARR[^\d$]*\$?(\d+(?:\.\d+)?)\s*(?:million|thousand|M|K)?`)},
	{"mrr", regexp.MustCompile(`(?i)MRR[^\d$]*\$?(\d+(?:\.\d+)?)\s*(?:million|thousand|M|K)?`)},
	{"revenue", regexp.MustCompile(`(?i)revenue[^\d$%]*\$?(\d+(?:\.\d+)?)\s*(?:million|thousand|M|K)?`)},
	{"growth_rate", regexp.MustCompile(`(?i)(?:growth|growing)[^\d%]*(\d+(?:\.\d+)?)%`)},
	{"customers", regexp.MustCompile(`(?i)(?:customers?|users?)[^\d]*(\d+(?:,\d+)*)`)},
	{"retention", regexp.MustCompile(`(?i)retention[^\d%]*(\d+(?:\.\d+)?)%`)},
	{"churn", regexp.MustCompile(`(?i)churn[^\d%]*(\d+(?:\.\d+)?)%`)},
}

var tractionEvidencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$\d+(?:\.\d+)?\s*(?:million|thousand|M|K)?\s*(?:ARR|MRR|revenue)`),
	regexp.MustCompile(`(?i)growing[^.\n]{0,30}\d+%`),
	regexp.MustCompile(`(?i)\d+(?:,\d+)*\s*(?:customers?|users?)`),
}

const tractionPrompt = `Analyze the traction and business metrics from this startup document. Focus on:
1. Revenue metrics (ARR, MRR, growth)
2. Customer acquisition and growth
3. Retention and churn rates
4. Unit economics indicators
5. Market validation signals

Document: %s

Provide detailed traction analysis and end with "Score: X" (0-100).`

func (a *TractionAgent) Analyze(ctx context.Context, documentText string, agentCtx *Context) (AgentResult, error) {
	start := time.Now()

	raw := ExtractMetrics(documentText, tractionPatterns)

	parsed, full, err := a.judge(ctx, CategoryTraction, fmt.Sprintf(tractionPrompt, promptExcerpt(documentText)))
	if err != nil {
		return AgentResult{}, err
	}

	components := map[string]float64{
		"revenue_metrics":   revenueScore(raw),
		"growth_rate":       tractionGrowthScore(raw),
		"customer_metrics":  customerScore(raw),
		"retention_metrics": retentionScore(raw),
	}
	calculated := weightedMean(components, a.weights)
	final := a.blend(parsed.Score, calculated)

	unitEcon := finance.CalculateUnitEconomics(finance.Metrics{
		ARR:       raw["arr"],
		MRR:       raw["mrr"],
		Customers: raw["customers"],
		ChurnRate: raw["churn"],
	})

	return AgentResult{
		Category:          CategoryTraction,
		Score:             final,
		Summary:           parsed.Summary,
		DetailedAnalysis:  full,
		Evidence:          collectExcerpts(documentText, tractionEvidencePatterns, "traction_metric", 3),
		Confidence:        a.componentConfidence(components),
		RawMetrics:        raw,
		NormalizedMetrics: components,
		Details: CalculationDetails{
			WeightFactors:   a.weights,
			ComponentScores: components,
			LLMScore:        parsed.Score,
			CalculatedScore: calculated,
			FinalScore:      final,
			UnitEconomics:   &unitEcon,
		},
		ProcessingTime: time.Since(start),
		Mock:           a.isMock(),
	}, nil
}

// revenueScore bands the strongest available annualized revenue figure in
// $M: max(ARR, MRR*12, revenue).
func revenueScore(metrics map[string]float64) float64 {
	best := metrics["arr"]
	if mrr := metrics["mrr"]; mrr*12 > best {
		best = mrr * 12
	}
	if rev := metrics["revenue"]; rev > best {
		best = rev
	}
	switch {
	case best >= 10:
		return 95
	case best >= 1:
		return 85
	case best >= 0.1:
		return 70
	case best >= 0.01:
		return 50
	default:
		return 30
	}
}

func tractionGrowthScore(metrics map[string]float64) float64 {
	growth := metrics["growth_rate"]
	switch {
	case growth >= 200:
		return 95
	case growth >= 50:
		return 85
	case growth >= 20:
		return 70
	case growth >= 10:
		return 55
	default:
		return 40
	}
}

func customerScore(metrics map[string]float64) float64 {
	customers := metrics["customers"]
	switch {
	case customers >= 10000:
		return 90
	case customers >= 500:
		return 80
	case customers >= 100:
		return 65
	case customers >= 10:
		return 50
	default:
		return 35
	}
}

// retentionScore prefers an explicit retention figure over one inferred from
// churn; with neither the score stays neutral.
func retentionScore(metrics map[string]float64) float64 {
	if retention := metrics["retention"]; retention > 0 {
		switch {
		case retention >= 95:
			return 95
		case retention >= 90:
			return 85
		case retention >= 80:
			return 70
		default:
			return 50
		}
	}
	if churn := metrics["churn"]; churn > 0 {
		switch {
		case churn <= 2:
			return 95
		case churn <= 5:
			return 80
		case churn <= 10:
			return 65
		default:
			return 40
		}
	}
	return 60
}
