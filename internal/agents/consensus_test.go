package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venturelens/pitchmeter/internal/config"
	"github.com/venturelens/pitchmeter/internal/llm"
)

func ensembleOf(clients ...llm.Client) *ConsensusCalculator {
	return NewConsensusCalculator(clients, config.DefaultScoringParams())
}

func TestConsensusRun(t *testing.T) {
	ctx := context.Background()

	t.Run("consensus is the median, not the mean", func(t *testing.T) {
		cs := ensembleOf(
			&llm.MockClient{SamplerName: "t02", Content: "Cautious view. Score: 70"},
			&llm.MockClient{SamplerName: "t05", Content: "Balanced view. Score: 72"},
			&llm.MockClient{SamplerName: "t08", Content: "Euphoric view. Score: 95"},
		).Run(ctx, CategoryMarket, "prompt")

		assert.InDelta(t, 72.0, cs.Score, 1e-9)
		assert.Equal(t, 3, cs.ValidCount)
		assert.False(t, cs.Fallback)
	})

	t.Run("representative text sits closest to the median", func(t *testing.T) {
		cs := ensembleOf(
			&llm.MockClient{SamplerName: "a", Content: "Low take. Score: 40"},
			&llm.MockClient{SamplerName: "b", Content: "Middle take. Score: 60"},
			&llm.MockClient{SamplerName: "c", Content: "High take. Score: 90"},
		).Run(ctx, CategoryMarket, "prompt")

		assert.Contains(t, cs.Text, "Middle take")
	})

	t.Run("perfect agreement has full confidence", func(t *testing.T) {
		cs := ensembleOf(
			&llm.MockClient{SamplerName: "a", Content: "Score: 70"},
			&llm.MockClient{SamplerName: "b", Content: "Score: 70"},
			&llm.MockClient{SamplerName: "c", Content: "Score: 70"},
		).Run(ctx, CategoryFounder, "prompt")

		assert.InDelta(t, 1.0, cs.Confidence, 1e-9)
	})

	t.Run("confidence shrinks with disagreement", func(t *testing.T) {
		tight := ensembleOf(
			&llm.MockClient{SamplerName: "a", Content: "Score: 70"},
			&llm.MockClient{SamplerName: "b", Content: "Score: 71"},
			&llm.MockClient{SamplerName: "c", Content: "Score: 72"},
		).Run(ctx, CategoryFounder, "prompt")

		wide := ensembleOf(
			&llm.MockClient{SamplerName: "a", Content: "Score: 70"},
			&llm.MockClient{SamplerName: "b", Content: "Score: 72"},
			&llm.MockClient{SamplerName: "c", Content: "Score: 95"},
		).Run(ctx, CategoryFounder, "prompt")

		assert.Greater(t, tight.Confidence, wide.Confidence)
		assert.InDelta(t, 0.54, wide.Confidence, 1e-9)
	})

	t.Run("single valid answer has fixed confidence", func(t *testing.T) {
		cs := ensembleOf(
			&llm.MockClient{SamplerName: "a", Content: "Score: 80"},
			&llm.MockClient{SamplerName: "b", Err: errors.New("rate limited")},
			&llm.MockClient{SamplerName: "c", Err: errors.New("rate limited")},
		).Run(ctx, CategoryTraction, "prompt")

		assert.InDelta(t, 80.0, cs.Score, 1e-9)
		assert.InDelta(t, 0.5, cs.Confidence, 1e-9)
		assert.Equal(t, 1, cs.ValidCount)
		assert.False(t, cs.Fallback)
	})

	t.Run("member failure never aborts the round", func(t *testing.T) {
		cs := ensembleOf(
			&llm.MockClient{SamplerName: "a", Content: "Score: 60"},
			&llm.MockClient{SamplerName: "b", Err: errors.New("connection refused")},
			&llm.MockClient{SamplerName: "c", Content: "Score: 64"},
		).Run(ctx, CategoryFinance, "prompt")

		assert.Equal(t, 2, cs.ValidCount)
		assert.Len(t, cs.Predictions, 3)
		assert.InDelta(t, 62.0, cs.Score, 1e-9)
	})

	t.Run("all members failing degrades to the category fallback", func(t *testing.T) {
		cs := ensembleOf(
			&llm.MockClient{SamplerName: "a", Err: errors.New("timeout")},
			&llm.MockClient{SamplerName: "b", Err: errors.New("timeout")},
		).Run(ctx, CategoryFounder, "prompt")

		assert.True(t, cs.Fallback)
		assert.InDelta(t, 50.0, cs.Score, 1e-9)
		assert.InDelta(t, 0.2, cs.Confidence, 1e-9)
		assert.Equal(t, consensusFallbacks[CategoryFounder], cs.Text)
		assert.Zero(t, cs.ValidCount)
	})
}

func TestConsensusErrors(t *testing.T) {
	cs := ensembleOf(
		&llm.MockClient{SamplerName: "a", Err: errors.New("timeout")},
		&llm.MockClient{SamplerName: "b", Err: errors.New("connection refused")},
		&llm.MockClient{SamplerName: "c", Err: errors.New("timeout")},
	).Run(context.Background(), CategoryRisk, "prompt")

	assert.Equal(t, []string{"connection refused", "timeout"}, cs.Errors())
}

func TestConsensusSamplers(t *testing.T) {
	c := ensembleOf(
		&llm.MockClient{SamplerName: "t02"},
		&llm.MockClient{SamplerName: "t05"},
	)
	assert.Equal(t, "t02,t05", c.Samplers())
}
