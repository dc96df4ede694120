package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/venturelens/pitchmeter/internal/scoring"
)

// Preferences tunes one analysis run to an investor's mandate.
type Preferences struct {
	// Weights override the canonical category weighting. Empty means default.
	Weights map[string]float64 `json:"weights,omitempty"`
	// MinOverallScore forces a Pass recommendation below this composite.
	MinOverallScore float64 `json:"min_overall_score,omitempty"`
	RiskTolerance   string  `json:"risk_tolerance,omitempty"`
}

// Report is the full output of one orchestrated analysis run.
type Report struct {
	RunID              string                     `json:"run_id"`
	OverallScore       float64                    `json:"overall_score"`
	Confidence         float64                    `json:"confidence"`
	SuccessProbability scoring.SuccessProbability `json:"success_probability"`
	Recommendation     string                     `json:"recommendation"`
	Categories         map[Category]AgentResult   `json:"categories"`
	Composite          scoring.CompositeResult    `json:"composite"`
	Benchmarks         *scoring.BenchmarkReport   `json:"benchmarks,omitempty"`
	KeyInsights        []string                   `json:"key_insights"`
	NextSteps          []string                   `json:"next_steps"`
	Explanation        []string                   `json:"explanation"`
	DegradedCategories []string                   `json:"degraded_categories,omitempty"`
	ProcessingTime     time.Duration              `json:"processing_time_ns"`
	GeneratedAt        time.Time                  `json:"generated_at"`
}

// AnalyzeRequest describes one document to analyze.
type AnalyzeRequest struct {
	DocumentText string      `json:"document_text"`
	Sector       string      `json:"sector,omitempty"`
	Stage        string      `json:"stage,omitempty"`
	Preferences  Preferences `json:"preferences"`
}

// runPhase tracks where a single run is in its lifecycle. Each run owns its
// own phase value; the orchestrator itself holds no per-run state.
type runPhase int

const (
	phaseNotStarted runPhase = iota
	phaseAgentsRunning
	phaseAggregating
	phaseDone
)

func (p runPhase) String() string {
	switch p {
	case phaseNotStarted:
		return "not_started"
	case phaseAgentsRunning:
		return "agents_running"
	case phaseAggregating:
		return "aggregating"
	default:
		return "done"
	}
}

// Orchestrator runs the five category agents and aggregates their results
// into one investment report. Agent failures degrade the affected category;
// the report itself is always produced.
type Orchestrator struct {
	agents     map[Category]Agent
	scorer     *scoring.Scorer
	model      *scoring.ProbabilityModel
	bench      *scoring.BenchmarkEngine
	normalizer *scoring.Normalizer
	logger     *slog.Logger
}

// NewOrchestrator wires the orchestrator. bench may be nil to skip cohort
// benchmarking in the report; normalizer may be nil to skip the reference
// rescaling of extracted metrics.
func NewOrchestrator(agentList []Agent, scorer *scoring.Scorer, model *scoring.ProbabilityModel, bench *scoring.BenchmarkEngine, normalizer *scoring.Normalizer, logger *slog.Logger) *Orchestrator {
	byCategory := make(map[Category]Agent, len(agentList))
	for _, a := range agentList {
		byCategory[a.Category()] = a
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		agents:     byCategory,
		scorer:     scorer,
		model:      model,
		bench:      bench,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Analyze runs the full pipeline for one document. Founder, market, traction
// and finance agents run concurrently; the risk agent runs last with the
// completed results as read-only context. A failed or panicking agent yields
// its deterministic fallback result instead of failing the run.
func (o *Orchestrator) Analyze(ctx context.Context, req AnalyzeRequest) Report {
	start := time.Now()
	runID := uuid.NewString()
	phase := phaseNotStarted

	log := o.logger.With("run_id", runID)
	log.Info("analysis started", "sector", req.Sector, "stage", req.Stage, "phase", phase.String())

	phase = phaseAgentsRunning
	outcomes := make(map[Category]Outcome, len(o.agents))

	var mu sync.Mutex
	g := new(errgroup.Group)
	for _, category := range AllCategories() {
		if category == CategoryRisk {
			continue
		}
		agent, ok := o.agents[category]
		if !ok {
			continue
		}
		category := category
		g.Go(func() error {
			outcome := o.runAgent(ctx, agent, req.DocumentText, nil)
			mu.Lock()
			outcomes[category] = outcome
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	if riskAgent, ok := o.agents[CategoryRisk]; ok {
		agentCtx := &Context{Sector: req.Sector, Results: resultsOf(outcomes)}
		outcomes[CategoryRisk] = o.runAgent(ctx, riskAgent, req.DocumentText, agentCtx)
	}

	phase = phaseAggregating
	log.Info("aggregating", "phase", phase.String(), "completed", len(outcomes))

	categories := make(map[Category]AgentResult, len(outcomes))
	scores := make(map[string]float64, len(outcomes))
	degraded := []string{}
	for _, category := range AllCategories() {
		outcome, ok := outcomes[category]
		if !ok {
			continue
		}
		result := outcome.Result
		if o.normalizer != nil {
			result.Details.ReferenceNormalized = o.normalizer.NormalizeAll(result.RawMetrics, string(category))
		}
		categories[category] = result
		scores[string(category)] = result.Score
		if outcome.Status != StatusOK {
			degraded = append(degraded, string(category))
			log.Warn("category degraded", "category", category, "reason", outcome.Reason)
		}
	}

	composite := o.scorer.Composite(scores, req.Preferences.Weights)
	probability := o.model.Assess(composite)

	report := Report{
		RunID:              runID,
		OverallScore:       composite.Score,
		Confidence:         composite.Confidence,
		SuccessProbability: probability,
		Recommendation:     recommendation(composite.Score, req.Preferences),
		Categories:         categories,
		Composite:          composite,
		KeyInsights:        keyInsights(categories),
		NextSteps:          nextSteps(composite.Score, categories),
		Explanation:        scoring.ExplainComposite(scores, composite),
		DegradedCategories: degraded,
		ProcessingTime:     time.Since(start),
		GeneratedAt:        time.Now().UTC(),
	}
	if o.bench != nil {
		bench := o.bench.Compare(scores, req.Sector, req.Stage)
		report.Benchmarks = &bench
	}

	phase = phaseDone
	log.Info("analysis complete",
		"phase", phase.String(),
		"overall_score", report.OverallScore,
		"recommendation", report.Recommendation,
		"degraded", len(degraded),
		"duration", report.ProcessingTime)
	return report
}

// AnalyzeCategory runs a single category agent. The risk agent receives an
// empty context, so its financial risk component falls back to its default.
func (o *Orchestrator) AnalyzeCategory(ctx context.Context, category Category, documentText, sector string) (AgentResult, error) {
	agent, ok := o.agents[category]
	if !ok {
		return AgentResult{}, fmt.Errorf("unknown category %q", category)
	}
	outcome := o.runAgent(ctx, agent, documentText, &Context{Sector: sector})
	if outcome.Status == StatusFatal {
		return outcome.Result, fmt.Errorf("category %s: %s", category, outcome.Reason)
	}
	if o.normalizer != nil {
		outcome.Result.Details.ReferenceNormalized = o.normalizer.NormalizeAll(outcome.Result.RawMetrics, string(category))
	}
	return outcome.Result, nil
}

// runAgent shields the run from individual agent failure: errors and panics
// both degrade to the category's deterministic fallback.
func (o *Orchestrator) runAgent(ctx context.Context, agent Agent, documentText string, agentCtx *Context) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{
				Status: StatusDegraded,
				Result: FallbackResult(agent.Category()),
				Reason: fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	started := time.Now()
	result, err := agent.Analyze(ctx, documentText, agentCtx)
	if err != nil {
		if errors.Is(err, ErrEnsembleExhausted) {
			return Outcome{
				Status: StatusDegraded,
				Result: ConsensusFallbackResult(agent.Category()),
				Reason: err.Error(),
			}
		}
		return Outcome{
			Status: StatusDegraded,
			Result: FallbackResult(agent.Category()),
			Reason: err.Error(),
		}
	}
	if result.ProcessingTime == 0 {
		result.ProcessingTime = time.Since(started)
	}
	status := StatusOK
	reason := ""
	if result.Fallback {
		status = StatusDegraded
		reason = "fallback result"
	}
	return Outcome{Status: status, Result: result, Reason: reason}
}

func resultsOf(outcomes map[Category]Outcome) map[Category]AgentResult {
	results := make(map[Category]AgentResult, len(outcomes))
	for category, outcome := range outcomes {
		results[category] = outcome.Result
	}
	return results
}

// recommendation maps the composite score to an investment stance. A floor
// set by the investor forces Pass regardless of the band.
func recommendation(score float64, prefs Preferences) string {
	if prefs.MinOverallScore > 0 && score < prefs.MinOverallScore {
		return "Pass"
	}
	switch {
	case score >= 80:
		return "Strong Buy"
	case score >= 70:
		return "Buy"
	case score >= 60:
		return "Consider"
	case score >= 50:
		return "Caution"
	default:
		return "Pass"
	}
}

// keyInsights surfaces the strongest and weakest categories plus any
// high-confidence findings.
func keyInsights(categories map[Category]AgentResult) []string {
	if len(categories) == 0 {
		return []string{"Insufficient data for analysis."}
	}

	ordered := orderedCategories(categories)
	strongest, weakest := ordered[0], ordered[0]
	for _, c := range ordered[1:] {
		if categories[c].Score > categories[strongest].Score {
			strongest = c
		}
		if categories[c].Score < categories[weakest].Score {
			weakest = c
		}
	}

	insights := []string{
		fmt.Sprintf("Strongest area: %s (%.1f/100)", strongest, categories[strongest].Score),
		fmt.Sprintf("Weakest area: %s (%.1f/100)", weakest, categories[weakest].Score),
	}
	for _, c := range ordered {
		r := categories[c]
		if r.Confidence >= 0.7 && !r.Fallback {
			insights = append(insights, fmt.Sprintf("High confidence in %s assessment (%.0f%%)", c, r.Confidence*100))
		}
	}
	return insights
}

var categorySuggestions = map[Category]string{
	CategoryFounder:  "Request detailed founder backgrounds and reference checks",
	CategoryMarket:   "Commission independent market sizing and competitive analysis",
	CategoryTraction: "Validate revenue figures and customer retention with data room access",
	CategoryFinance:  "Review detailed financial model and unit economics assumptions",
	CategoryRisk:     "Develop a risk mitigation plan covering the identified exposure areas",
}

// nextSteps lists up to five concrete diligence actions, driven by the
// overall score and by individual weak categories.
func nextSteps(overall float64, categories map[Category]AgentResult) []string {
	steps := []string{}
	switch {
	case overall >= 70:
		steps = append(steps, "Proceed to partner meeting and term sheet discussion")
	case overall >= 50:
		steps = append(steps, "Schedule follow-up diligence before committing")
	default:
		steps = append(steps, "Material concerns identified; recommend passing unless addressed")
	}

	for _, c := range orderedCategories(categories) {
		if len(steps) >= 5 {
			break
		}
		if categories[c].Score < 50 {
			steps = append(steps, categorySuggestions[c])
		}
	}
	return steps
}

func orderedCategories(categories map[Category]AgentResult) []Category {
	ordered := make([]Category, 0, len(categories))
	for _, c := range AllCategories() {
		if _, ok := categories[c]; ok {
			ordered = append(ordered, c)
		}
	}
	// tolerate categories outside the canonical set
	if len(ordered) != len(categories) {
		extra := make([]string, 0)
		for c := range categories {
			known := false
			for _, k := range ordered {
				if k == c {
					known = true
					break
				}
			}
			if !known {
				extra = append(extra, string(c))
			}
		}
		sort.Strings(extra)
		for _, e := range extra {
			ordered = append(ordered, Category(e))
		}
	}
	return ordered
}
