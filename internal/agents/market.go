package agents

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/venturelens/pitchmeter/internal/config"
	"github.com/venturelens/pitchmeter/internal/llm"
)

// MarketAgent rates the market opportunity: size, growth, competition
// density and timing.
type MarketAgent struct {
	base
	weights map[string]float64
}

func NewMarketAgent(client llm.Client, params config.ScoringParams) *MarketAgent {
	return &MarketAgent{
		base: newBase(client, params),
		weights: map[string]float64{
			"market_size":         0.3,
			"growth_rate":         0.25,
			"competition_density": 0.2,
			"market_timing":       0.25,
		},
	}
}

func (a *MarketAgent) Category() Category { return CategoryMarket }

var marketPatterns = []MetricPattern{
	{"tam", regexp.MustCompile(`(?i)TAM[^\d$]*\$?(\d+(?:\.\d+)?)\s*(?:billion|million|B|M)`)},
	{"sam", regexp.MustCompile(`(?i)SAM[^\d$]*\$?(\d+(?:\.\d+)?)\s*(?:billion|million|B|M)`)},
	{"som", regexp.MustCompile(`(?i)SOM[^\d$]*\$?(\d+(?:\.\d+)?)\s*(?:billion|million|B|M)`)},
	{"growth_rate", regexp.MustCompile(`(?i)(?:growth|growing)[^\d%]*(\d+(?:\.\d+)?)%`)},
	{"market_share", regexp.MustCompile(`(?i)market\s*share[^\d%]*(\d+(?:\.\d+)?)%`)},
}

var marketEvidencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)market[^.\n]{0,60}growing[^.\n]{0,30}\d+%`),
	regexp.MustCompile(`(?i)\$\d+[^.\n]{0,30}billion[^.\n]{0,30}market`),
	regexp.MustCompile(`(?i)opportunity[^.\n]{0,40}\$\d+`),
}

const marketPrompt = `Analyze the market opportunity from this startup document. Focus on:
1. Total Addressable Market (TAM) size and validity
2. Market growth rate and trends
3. Competitive landscape density
4. Market timing and readiness
5. Barriers to entry

Document: %s

Provide detailed market analysis and end with "Score: X" (0-100).`

func (a *MarketAgent) Analyze(ctx context.Context, documentText string, agentCtx *Context) (AgentResult, error) {
	start := time.Now()

	raw := ExtractMetrics(documentText, marketPatterns)

	parsed, full, err := a.judge(ctx, CategoryMarket, fmt.Sprintf(marketPrompt, promptExcerpt(documentText)))
	if err != nil {
		return AgentResult{}, err
	}

	components := map[string]float64{
		"market_size":         marketSizeScore(raw),
		"growth_rate":         marketGrowthScore(raw, documentText),
		"competition_density": competitionScore(documentText),
		"market_timing":       timingScore(documentText),
	}
	calculated := weightedMean(components, a.weights)
	final := a.blend(parsed.Score, calculated)

	evidence := metricEvidence(raw, "market_metric")
	evidence = append(evidence, collectExcerpts(documentText, marketEvidencePatterns, "market_trend", 2)...)

	return AgentResult{
		Category:          CategoryMarket,
		Score:             final,
		Summary:           parsed.Summary,
		DetailedAnalysis:  full,
		Evidence:          evidence,
		Confidence:        a.componentConfidence(components),
		RawMetrics:        raw,
		NormalizedMetrics: components,
		Details: CalculationDetails{
			WeightFactors:   a.weights,
			ComponentScores: components,
			LLMScore:        parsed.Score,
			CalculatedScore: calculated,
			FinalScore:      final,
		},
		ProcessingTime: time.Since(start),
		Mock:           a.isMock(),
	}, nil
}

// marketSizeScore bands TAM (in $B) and adds a bonus only when SAM is a
// credible 1-30% slice of TAM.
func marketSizeScore(metrics map[string]float64) float64 {
	tam := metrics["tam"]
	sam := metrics["sam"]

	score := 30.0
	switch {
	case tam >= 100:
		score = 95
	case tam >= 10:
		score = 85
	case tam >= 1:
		score = 70
	case tam >= 0.1:
		score = 50
	}

	if sam > 0 && tam > 0 {
		ratio := sam / tam
		if ratio >= 0.01 && ratio <= 0.3 {
			score += 10
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

var trendKeywords = []string{"expanding", "increasing", "rising", "booming", "emerging"}

func marketGrowthScore(metrics map[string]float64, text string) float64 {
	growth := metrics["growth_rate"]
	score := 40.0
	switch {
	case growth >= 20:
		score = 90
	case growth >= 10:
		score = 75
	case growth >= 5:
		score = 60
	}
	score += float64(countKeywords(text, trendKeywords)) * 5
	if score > 100 {
		score = 100
	}
	return score
}

var competitionKeywords = []string{"competitor", "competitive", "crowded", "saturated"}

// competitionScore penalizes competition mentions: the fewer, the better.
func competitionScore(text string) float64 {
	mentions := countKeywords(text, competitionKeywords)
	switch {
	case mentions == 0:
		return 85
	case mentions <= 2:
		return 70
	case mentions <= 5:
		return 55
	default:
		return 40
	}
}

var timingPositive = []string{"opportunity", "ready", "emerging", "trend", "demand"}
var timingNegative = []string{"declining", "mature", "saturated", "late"}

func timingScore(text string) float64 {
	score := 60.0
	score += float64(countKeywords(text, timingPositive)) * 10
	score -= float64(countKeywords(text, timingNegative)) * 10
	if score > 100 {
		score = 100
	}
	if score < 20 {
		score = 20
	}
	return score
}

// metricEvidence converts extracted metrics into evidence entries.
func metricEvidence(metrics map[string]float64, evidenceType string) []Evidence {
	var evidence []Evidence
	for _, name := range sortedNames(metrics) {
		if metrics[name] <= 0 {
			continue
		}
		evidence = append(evidence, Evidence{
			Type:       evidenceType,
			Metric:     name,
			Value:      metrics[name],
			Confidence: 0.8,
			Source:     "document",
		})
	}
	return evidence
}
