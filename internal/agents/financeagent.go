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

// FinanceAgent rates financial health: unit economics, burn and runway,
// funding efficiency and projection credibility.
type FinanceAgent struct {
	base
	weights map[string]float64
}

func NewFinanceAgent(client llm.Client, params config.ScoringParams) *FinanceAgent {
	return &FinanceAgent{
		base: newBase(client, params),
		weights: map[string]float64{
			"unit_economics":        0.3,
			"burn_runway":           0.25,
			"funding_efficiency":    0.25,
			"financial_projections": 0.2,
		},
	}
}

func (a *FinanceAgent) Category() Category { return CategoryFinance }

var financePatterns = []MetricPattern{
	{"burn_rate", regexp.MustCompile(`(?i)burn[^\d$]*\$?(\d+(?:\.\d+)?)\s*(?:million|thousand|M|K)?`)},
	{"runway", regexp.MustCompile(`(?i)runway[^\d]*(\d+(?:\.\d+)?)\s*(?:months?|years?)`)},
	{"cac", regexp.MustCompile(`(?i)CAC[^\d$]*\$?(\d+(?:\.\d+)?)`)},
	{"ltv", regexp.MustCompile(`(?i)LTV[^\d$/]*\$?(\d+(?:\.\d+)?)`)},
	{"gross_margin", regexp.MustCompile(`(?i)(?:gross\s*)?margin[^\d%]*(\d+(?:\.\d+)?)%`)},
	{"funding_raised", regexp.MustCompile(`(?i)raised[^\d$]*\$?(\d+(?:\.\d+)?)\s*(?:million|thousand|M|K)?`)},
	{"cash", regexp.MustCompile(`(?i)cash[^\d$]*\$?(\d+(?:\.\d+)?)\s*(?:million|thousand|M|K)?`)},
}

var financeEvidencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$\d+(?:\.\d+)?\s*(?:million|thousand|M|K)?\s*(?:burn|runway|CAC|LTV)`),
	regexp.MustCompile(`(?i)LTV/CAC[^.\n]{0,20}\d+(?:\.\d+)?`),
	regexp.MustCompile(`(?i)\d+(?:\.\d+)?%\s*(?:margin|growth)`),
}

const financePrompt = `Analyze the financial metrics and unit economics from this startup document. Focus on:
1. Unit economics (CAC, LTV, payback period)
2. Burn rate and runway
3. Funding efficiency and capital requirements
4. Financial projections credibility
5. Path to profitability

Document: %s

Provide detailed financial analysis and end with "Score: X" (0-100).`

func (a *FinanceAgent) Analyze(ctx context.Context, documentText string, agentCtx *Context) (AgentResult, error) {
	start := time.Now()

	raw := ExtractMetrics(documentText, financePatterns)

	parsed, full, err := a.judge(ctx, CategoryFinance, fmt.Sprintf(financePrompt, promptExcerpt(documentText)))
	if err != nil {
		return AgentResult{}, err
	}

	components := map[string]float64{
		"unit_economics":        unitEconomicsScore(raw),
		"burn_runway":           burnRunwayScore(raw),
		"funding_efficiency":    fundingEfficiencyScore(raw),
		"financial_projections": projectionScore(documentText),
	}
	calculated := weightedMean(components, a.weights)
	final := a.blend(parsed.Score, calculated)

	unitEcon := finance.CalculateUnitEconomics(finance.Metrics{
		CAC:         raw["cac"],
		LTV:         raw["ltv"],
		GrossMargin: raw["gross_margin"],
	})

	return AgentResult{
		Category:          CategoryFinance,
		Score:             final,
		Summary:           parsed.Summary,
		DetailedAnalysis:  full,
		Evidence:          collectExcerpts(documentText, financeEvidencePatterns, "financial_metric", 3),
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
			BurnRunway:      burnDerivation(raw),
			FinancialRatios: financialRatios(raw),
		},
		ProcessingTime: time.Since(start),
		Mock:           a.isMock(),
	}, nil
}

// unitEconomicsScore builds up from a neutral base with LTV/CAC and margin
// bonuses, floored at 20.
func unitEconomicsScore(metrics map[string]float64) float64 {
	cac := metrics["cac"]
	ltv := metrics["ltv"]
	margin := metrics["gross_margin"]

	score := 50.0
	if cac > 0 && ltv > 0 {
		switch ratio := ltv / cac; {
		case ratio >= 5:
			score += 25
		case ratio >= 3:
			score += 20
		case ratio >= 2:
			score += 10
		default:
			score -= 10
		}
	}
	switch {
	case margin >= 80:
		score += 15
	case margin >= 60:
		score += 10
	case margin >= 40:
		score += 5
	}
	if score > 100 {
		score = 100
	}
	if score < 20 {
		score = 20
	}
	return score
}

func burnRunwayScore(metrics map[string]float64) float64 {
	runway := metrics["runway"]
	switch {
	case runway >= 24:
		return 90
	case runway >= 18:
		return 80
	case runway >= 12:
		return 70
	case runway >= 6:
		return 50
	default:
		return 30
	}
}

// fundingEfficiencyScore bands raised-capital over monthly burn, i.e. how
// many months the raise funds.
func fundingEfficiencyScore(metrics map[string]float64) float64 {
	raised := metrics["funding_raised"]
	burn := metrics["burn_rate"]
	if raised <= 0 || burn <= 0 {
		return 60
	}
	switch ratio := raised / burn; {
	case ratio >= 30:
		return 85
	case ratio >= 20:
		return 75
	case ratio >= 12:
		return 65
	default:
		return 45
	}
}

var projectionPositive = []string{"conservative", "realistic", "based on", "historical", "validated"}
var projectionNegative = []string{"aggressive", "optimistic", "hockey stick", "exponential"}

// projectionScore rewards conservative projection language and penalizes
// hockey-stick language.
func projectionScore(text string) float64 {
	score := 60.0
	score += float64(countKeywords(text, projectionPositive)) * 10
	score -= float64(countKeywords(text, projectionNegative)) * 5
	if score > 90 {
		score = 90
	}
	if score < 30 {
		score = 30
	}
	return score
}

// burnDerivation runs the burn/runway calculator when both inputs were
// extracted; with either missing there is nothing to derive.
func burnDerivation(metrics map[string]float64) *finance.BurnRunway {
	burn := metrics["burn_rate"]
	cash := metrics["cash"]
	if burn <= 0 || cash <= 0 {
		return nil
	}
	b := finance.CalculateBurnRunway(burn, cash, 0)
	return &b
}

func financialRatios(metrics map[string]float64) map[string]float64 {
	ratios := map[string]float64{}
	cac := metrics["cac"]
	ltv := metrics["ltv"]
	if cac > 0 && ltv > 0 {
		ratios["ltv_cac_ratio"] = ltv / cac
		ratios["cac_payback_months"] = cac / (ltv / 12)
	}
	if burn := metrics["burn_rate"]; burn > 0 {
		ratios["monthly_burn_rate"] = burn
		ratios["runway_months"] = metrics["runway"]
	}
	return ratios
}
