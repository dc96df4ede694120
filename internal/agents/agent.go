package agents

import (
	"context"
	"fmt"
	"sort"

	"github.com/venturelens/pitchmeter/internal/config"
	"github.com/venturelens/pitchmeter/internal/llm"
	"github.com/venturelens/pitchmeter/internal/scoring"
)

// Agent analyzes one investment dimension of a pitch document.
type Agent interface {
	Category() Category
	// Analyze produces one AgentResult. agentCtx may be nil; only the risk
	// agent reads previous results from it.
	Analyze(ctx context.Context, documentText string, agentCtx *Context) (AgentResult, error)
}

// promptLimit bounds how much document text is sent to the model.
const promptLimit = 2000

func promptExcerpt(text string) string {
	if len(text) <= promptLimit {
		return text
	}
	return text[:promptLimit]
}

// base carries the collaborators shared by all category agents. When an
// ensemble is configured, judgments come from the consensus of all members
// instead of the single primary client.
type base struct {
	client   llm.Client
	ensemble *ConsensusCalculator
	params   config.ScoringParams
	policy   HeuristicScorePolicy
}

func newBase(client llm.Client, params config.ScoringParams) base {
	return base{client: client, params: params, policy: DefaultHeuristicPolicy()}
}

// judge obtains the model judgment for a category prompt and parses the
// trailing score through the fallback chain. The error is surfaced so
// callers decide between degrading and substituting category narrative.
func (b base) judge(ctx context.Context, category Category, prompt string) (ParsedScore, string, error) {
	if b.ensemble != nil {
		cs := b.ensemble.Run(ctx, category, prompt)
		if cs.Fallback {
			return ParsedScore{}, "", fmt.Errorf("%s: %w", category, ErrEnsembleExhausted)
		}
		parsed := ParseScore(cs.Text, b.policy)
		parsed.Score = cs.Score
		parsed.Matched = true
		return parsed, cs.Text, nil
	}
	resp, err := b.client.Invoke(ctx, prompt)
	if err != nil {
		return ParsedScore{}, "", err
	}
	return ParseScore(resp.Content, b.policy), resp.Content, nil
}

// blend combines the model judgment with the weighted heuristic sub-scores.
// The model score captures contextual nuance the patterns cannot; the
// heuristics ground it in extractable evidence.
func (b base) blend(llmScore, calculated float64) float64 {
	return scoring.Clip(b.params.LLMBlend*llmScore+b.params.HeuristicBlend*calculated, 0, 100)
}

// componentConfidence maps sub-score agreement to a confidence value:
// max(0.1, 1 - stdev/denom). Tight agreement signals a well-evidenced
// category.
func (b base) componentConfidence(components map[string]float64) float64 {
	values := make([]float64, 0, len(components))
	for _, name := range sortedNames(components) {
		values = append(values, components[name])
	}
	if len(values) < 2 {
		return 0.5
	}
	conf := 1 - scoring.Stdev(values)/b.params.AgentSigmaDenom
	if conf < 0.1 {
		conf = 0.1
	}
	return scoring.Clip(conf, 0.1, 1)
}

// weightedMean folds component scores with their weight factors. Weights are
// assumed to cover exactly the component keys.
func weightedMean(components, weights map[string]float64) float64 {
	sum := 0.0
	total := 0.0
	for _, name := range sortedNames(weights) {
		sum += components[name] * weights[name]
		total += weights[name]
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// isMock reports whether the agent runs against the canned offline client.
func (b base) isMock() bool {
	_, ok := b.client.(*llm.MockClient)
	return ok
}

// NewAgents builds the full category agent set. With more than one client a
// consensus ensemble backs every judgment; with exactly one, judgments are
// single calls to that client.
func NewAgents(clients []llm.Client, params config.ScoringParams) []Agent {
	if len(clients) == 0 {
		clients = []llm.Client{&llm.MockClient{SamplerName: "mock"}}
	}
	var ensemble *ConsensusCalculator
	if len(clients) > 1 {
		ensemble = NewConsensusCalculator(clients, params)
	}

	primary := clients[0]
	founder := NewFounderAgent(primary, params)
	market := NewMarketAgent(primary, params)
	traction := NewTractionAgent(primary, params)
	finance := NewFinanceAgent(primary, params)
	risk := NewRiskAgent(primary, params)

	founder.ensemble = ensemble
	market.ensemble = ensemble
	traction.ensemble = ensemble
	finance.ensemble = ensemble
	risk.ensemble = ensemble

	return []Agent{founder, market, traction, finance, risk}
}
