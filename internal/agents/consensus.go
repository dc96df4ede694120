package agents

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/venturelens/pitchmeter/internal/config"
	"github.com/venturelens/pitchmeter/internal/llm"
	"github.com/venturelens/pitchmeter/internal/scoring"
)

// Prediction is one ensemble member's answer for a category prompt.
type Prediction struct {
	Sampler string  `json:"sampler"`
	Score   float64 `json:"score"`
	Text    string  `json:"text"`
	Err     string  `json:"error,omitempty"`
}

// Consensus is the merged outcome of an ensemble round.
type Consensus struct {
	Score       float64      `json:"score"`
	Text        string       `json:"text"`
	Confidence  float64      `json:"confidence"`
	Predictions []Prediction `json:"predictions"`
	ValidCount  int          `json:"valid_count"`
	Fallback    bool         `json:"is_fallback"`
}

// ConsensusCalculator queries every ensemble member concurrently and merges
// the answers into a single score. Individual member failures degrade the
// result instead of aborting the round.
type ConsensusCalculator struct {
	clients []llm.Client
	params  config.ScoringParams
	policy  HeuristicScorePolicy
}

func NewConsensusCalculator(clients []llm.Client, params config.ScoringParams) *ConsensusCalculator {
	return &ConsensusCalculator{
		clients: clients,
		params:  params,
		policy:  DefaultHeuristicPolicy(),
	}
}

// Run fans the prompt out to all members and waits for every answer. A member
// that errors contributes an invalid prediction (score 0) rather than
// cancelling its siblings.
func (c *ConsensusCalculator) Run(ctx context.Context, category Category, prompt string) Consensus {
	predictions := make([]Prediction, len(c.clients))

	var wg sync.WaitGroup
	for i, client := range c.clients {
		wg.Add(1)
		go func(i int, client llm.Client) {
			defer wg.Done()
			predictions[i] = c.invoke(ctx, client, prompt)
		}(i, client)
	}
	wg.Wait()

	return c.merge(category, predictions)
}

func (c *ConsensusCalculator) invoke(ctx context.Context, client llm.Client, prompt string) Prediction {
	resp, err := client.Invoke(ctx, prompt)
	if err != nil {
		return Prediction{Sampler: client.Name(), Err: err.Error()}
	}
	parsed := ParseScore(resp.Content, c.policy)
	return Prediction{Sampler: client.Name(), Score: parsed.Score, Text: resp.Content}
}

// merge reduces a prediction batch to its consensus. Valid predictions are
// those with a positive score; the consensus score is their median and the
// representative text is the first prediction whose score sits closest to it.
func (c *ConsensusCalculator) merge(category Category, predictions []Prediction) Consensus {
	valid := make([]Prediction, 0, len(predictions))
	for _, p := range predictions {
		if p.Err == "" && p.Score > 0 {
			valid = append(valid, p)
		}
	}

	if len(valid) == 0 {
		return c.fallback(category, predictions)
	}

	scores := make([]float64, len(valid))
	for i, p := range valid {
		scores[i] = p.Score
	}
	med := scoring.Median(scores)

	best := valid[0]
	bestDist := abs(best.Score - med)
	for _, p := range valid[1:] {
		if d := abs(p.Score - med); d < bestDist {
			best, bestDist = p, d
		}
	}

	return Consensus{
		Score:       scoring.RoundTo(med, 1),
		Text:        best.Text,
		Confidence:  scoring.RoundTo(c.confidence(scores), 2),
		Predictions: predictions,
		ValidCount:  len(valid),
	}
}

// confidence maps ensemble agreement to [0.1, 1.0]. With a single valid
// answer there is no spread to measure, so the value is fixed.
func (c *ConsensusCalculator) confidence(scores []float64) float64 {
	switch len(scores) {
	case 0:
		return 0.3
	case 1:
		return 0.5
	}
	sigmaMax := c.params.ConsensusSigmaMax
	if sigmaMax <= 0 {
		sigmaMax = 30
	}
	return scoring.Clip(1-scoring.Stdev(scores)/sigmaMax, 0.1, 1.0)
}

func (c *ConsensusCalculator) fallback(category Category, predictions []Prediction) Consensus {
	text, ok := consensusFallbacks[category]
	if !ok {
		text = "Analysis could not be completed reliably. Manual review recommended."
	}
	return Consensus{
		Score:       50,
		Text:        text,
		Confidence:  0.2,
		Predictions: predictions,
		Fallback:    true,
	}
}

// Errors returns the distinct member error strings of a round, sorted for
// stable reporting.
func (cs Consensus) Errors() []string {
	seen := map[string]struct{}{}
	for _, p := range cs.Predictions {
		if p.Err != "" {
			seen[p.Err] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Samplers describes the ensemble membership, e.g. for logging.
func (c *ConsensusCalculator) Samplers() string {
	names := make([]string, len(c.clients))
	for i, cl := range c.clients {
		names[i] = cl.Name()
	}
	return strings.Join(names, ",")
}
