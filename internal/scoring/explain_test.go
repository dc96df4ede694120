package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExplainComposite(t *testing.T) {
	scorer := NewScorer(2.0)

	t.Run("contributions sum to the composite under partial coverage", func(t *testing.T) {
		scores := map[string]float64{"founder": 80, "market": 60}
		result := scorer.Composite(scores, nil)
		assert.InDelta(t, 70.0, result.Score, 1e-9)

		lines := ExplainComposite(scores, result)
		assert.Contains(t, lines, "founder: 80.0 (weight 50%) contributes 40.0 points")
		assert.Contains(t, lines, "market: 60.0 (weight 50%) contributes 30.0 points")
	})

	t.Run("single category contributes its full score", func(t *testing.T) {
		scores := map[string]float64{"traction": 66}
		result := scorer.Composite(scores, nil)

		lines := ExplainComposite(scores, result)
		assert.Contains(t, lines, "traction: 66.0 (weight 100%) contributes 66.0 points")
	})

	t.Run("confidence narrative reflects the level bands", func(t *testing.T) {
		tests := []struct {
			confidence float64
			level      string
		}{
			{0.8, "high"},
			{0.5, "medium"},
			{0.2, "low"},
		}
		for _, tt := range tests {
			lines := ExplainComposite(nil, CompositeResult{Confidence: tt.confidence})
			last := lines[len(lines)-1]
			assert.Contains(t, last, fmt.Sprintf("Analysis confidence: %s", tt.level), "confidence %v", tt.confidence)
		}
	})
}
