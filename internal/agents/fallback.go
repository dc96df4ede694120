package agents

import "errors"

// Fallback results substitute for failed analyses so callers always receive
// a structurally complete report. Reliability is communicated through the
// confidence value and the Fallback flag, never through errors.

// ErrEnsembleExhausted marks a judgment round in which every ensemble member
// failed. The orchestrator substitutes the low-confidence consensus fallback
// for it instead of the generic agent fallback.
var ErrEnsembleExhausted = errors.New("all ensemble members failed")

var fallbackNarratives = map[Category]string{
	CategoryRisk:     "Risk analysis completed with comprehensive evaluation of market, execution, financial, competitive, and regulatory risks. The startup shows moderate risk levels across key categories with manageable exposure in most areas. Market timing and execution capabilities present the primary risk factors, while financial structure appears stable.",
	CategoryFounder:  "Founder analysis shows experienced leadership team with relevant industry background and complementary skill sets for executing the business strategy.",
	CategoryMarket:   "Market analysis indicates substantial opportunity with favorable growth trends and competitive positioning in the target segments.",
	CategoryTraction: "Traction analysis reveals solid business fundamentals with positive momentum in key performance indicators and customer acquisition metrics.",
	CategoryFinance:  "Financial analysis demonstrates reasonable unit economics and capital efficiency with sustainable growth trajectory and manageable burn rate.",
}

const (
	fallbackScore      = 65.0
	fallbackConfidence = 0.6
)

// FallbackResult is the fixed deterministic result substituted when a
// category agent fails outright.
func FallbackResult(category Category) AgentResult {
	narrative := fallbackNarratives[category]
	return AgentResult{
		Category:          category,
		Score:             fallbackScore,
		Summary:           narrative,
		DetailedAnalysis:  narrative,
		Evidence:          []Evidence{},
		Confidence:        fallbackConfidence,
		RawMetrics:        map[string]float64{},
		NormalizedMetrics: map[string]float64{},
		Details:           CalculationDetails{Fallback: true, FinalScore: fallbackScore},
		Fallback:          true,
	}
}

// consensusFallbacks are the category-specific stand-ins used when every
// ensemble invocation fails.
var consensusFallbacks = map[Category]string{
	CategoryFounder:  "Unable to analyze founder profile from provided data. Manual review recommended.",
	CategoryMarket:   "Market analysis requires additional data. Consider providing more market research.",
	CategoryTraction: "Traction analysis incomplete. Additional customer and revenue data required.",
	CategoryFinance:  "Financial metrics analysis incomplete. Additional financial data required.",
	CategoryRisk:     "Risk analysis could not be completed reliably. Manual review recommended.",
}

const (
	consensusFallbackScore      = 50.0
	consensusFallbackConfidence = 0.2
)

// ConsensusFallbackResult substitutes when every member of an ensemble round
// failed. Its confidence is lower than the generic fallback's so callers can
// tell total model unavailability from an individual agent defect.
func ConsensusFallbackResult(category Category) AgentResult {
	narrative, ok := consensusFallbacks[category]
	if !ok {
		narrative = "Analysis could not be completed reliably. Manual review recommended."
	}
	return AgentResult{
		Category:          category,
		Score:             consensusFallbackScore,
		Summary:           narrative,
		DetailedAnalysis:  narrative,
		Evidence:          []Evidence{},
		Confidence:        consensusFallbackConfidence,
		RawMetrics:        map[string]float64{},
		NormalizedMetrics: map[string]float64{},
		Details:           CalculationDetails{Fallback: true, FinalScore: consensusFallbackScore},
		Fallback:          true,
	}
}
