// Package agents implements the category analysis pipeline: metric
// extraction, the five category agents, ensemble consensus over repeated
// model calls, and the orchestrator that aggregates everything into one
// investment report.
package agents

import (
	"time"

	"github.com/venturelens/pitchmeter/internal/finance"
)

// Category is the closed set of investment dimensions.
type Category string

const (
	CategoryFounder  Category = "founder"
	CategoryMarket   Category = "market"
	CategoryTraction Category = "traction"
	CategoryFinance  Category = "finance"
	CategoryRisk     Category = "risk"
)

// AllCategories lists the categories in canonical run order. Risk is last
// because it consumes the other results as read-only context.
func AllCategories() []Category {
	return []Category{CategoryFounder, CategoryMarket, CategoryTraction, CategoryFinance, CategoryRisk}
}

// Evidence is one supporting excerpt or metric tied to an analysis.
type Evidence struct {
	Type       string  `json:"type"`
	Text       string  `json:"text,omitempty"`
	Metric     string  `json:"metric,omitempty"`
	Value      float64 `json:"value,omitempty"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// IdentifiedRisk is one concrete risk surfaced by the risk agent.
type IdentifiedRisk struct {
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
}

// RiskMitigation summarizes mitigation language found in the document.
type RiskMitigation struct {
	Mentioned           bool    `json:"mitigation_mentioned"`
	Score               float64 `json:"mitigation_score"`
	HasContingencyPlans bool    `json:"has_contingency_plans"`
}

// CalculationDetails records how a category score was assembled, for
// explainability.
type CalculationDetails struct {
	WeightFactors   map[string]float64 `json:"weight_factors,omitempty"`
	ComponentScores map[string]float64 `json:"component_scores,omitempty"`
	LLMScore        float64            `json:"llm_score"`
	CalculatedScore float64            `json:"calculated_score"`
	FinalScore      float64            `json:"final_score"`

	UnitEconomics   *finance.UnitEconomics `json:"unit_economics,omitempty"`
	BurnRunway      *finance.BurnRunway    `json:"burn_runway,omitempty"`
	FinancialRatios map[string]float64     `json:"financial_ratios,omitempty"`
	RiskMitigation  *RiskMitigation        `json:"risk_mitigation,omitempty"`

	// ReferenceNormalized holds the extracted metrics rescaled against the
	// configured distribution references, filled in by the orchestrator.
	ReferenceNormalized map[string]float64 `json:"reference_normalized,omitempty"`

	Fallback bool `json:"fallback,omitempty"`
}

// AgentResult is the immutable output of one category agent invocation.
type AgentResult struct {
	Category          Category           `json:"category"`
	Score             float64            `json:"score"`
	Summary           string             `json:"summary"`
	DetailedAnalysis  string             `json:"detailed_analysis"`
	Evidence          []Evidence         `json:"evidence"`
	Confidence        float64            `json:"confidence"`
	RawMetrics        map[string]float64 `json:"raw_metrics"`
	NormalizedMetrics map[string]float64 `json:"normalized_metrics"`
	Details           CalculationDetails `json:"calculation_details"`
	IdentifiedRisks   []IdentifiedRisk   `json:"identified_risks,omitempty"`
	ProcessingTime    time.Duration      `json:"processing_time_ns"`
	Fallback          bool               `json:"is_fallback"`
	Mock              bool               `json:"is_mock,omitempty"`
}

// OutcomeStatus is the tri-state result of one agent call.
type OutcomeStatus int

const (
	StatusOK OutcomeStatus = iota
	StatusDegraded
	StatusFatal
)

func (s OutcomeStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegraded:
		return "degraded"
	default:
		return "fatal"
	}
}

// Outcome wraps an agent call result so the orchestrator can pattern-match
// on degradation instead of catching generic errors. Degraded and Fatal
// outcomes still carry a usable (fallback) result.
type Outcome struct {
	Status OutcomeStatus
	Result AgentResult
	Reason string
}

// Context carries read-only results of previously completed agents. Only the
// risk agent reads it.
type Context struct {
	// Sector hints the document's vertical for domain-relevance scoring.
	Sector  string
	Results map[Category]AgentResult
}

// FinanceScore returns the already-computed finance score if present.
func (c *Context) FinanceScore() (float64, bool) {
	if c == nil {
		return 0, false
	}
	r, ok := c.Results[CategoryFinance]
	if !ok {
		return 0, false
	}
	return r.Score, true
}
