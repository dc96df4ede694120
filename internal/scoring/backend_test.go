package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolyBackend_MatchesStdlib(t *testing.T) {
	std := StdBackend{}
	poly := PolyBackend{}

	t.Run("exp", func(t *testing.T) {
		for _, x := range []float64{-6, -3, -1, -0.5, 0, 0.5, 1, 3, 6} {
			assert.InDelta(t, std.Exp(x), poly.Exp(x), math.Abs(std.Exp(x))*1e-6+1e-9, "exp(%v)", x)
		}
	})

	t.Run("tanh", func(t *testing.T) {
		for _, x := range []float64{-3, -1, -0.25, 0, 0.25, 1, 3} {
			assert.InDelta(t, std.Tanh(x), poly.Tanh(x), 1e-6, "tanh(%v)", x)
		}
	})

	t.Run("log", func(t *testing.T) {
		for _, x := range []float64{0.1, 0.5, 1, 2, 10, 1000} {
			assert.InDelta(t, std.Log(x), poly.Log(x), math.Abs(std.Log(x))*1e-6+1e-9, "log(%v)", x)
		}
	})

	t.Run("sqrt", func(t *testing.T) {
		for _, x := range []float64{0, 0.01, 1, 2, 100, 1e6} {
			assert.InDelta(t, std.Sqrt(x), poly.Sqrt(x), std.Sqrt(x)*1e-9+1e-12, "sqrt(%v)", x)
		}
	})
}

func TestBackends_Interchangeable(t *testing.T) {
	// the normalization pipeline must produce near-identical results with
	// either backend
	nStd := NewNormalizer(MethodZScore, nil, StdBackend{})
	nPoly := NewNormalizer(MethodZScore, nil, PolyBackend{})

	for _, v := range []float64{0, 10, 15, 25, 50} {
		assert.InDelta(t,
			nStd.Normalize(v, "market", "growth_rate"),
			nPoly.Normalize(v, "market", "growth_rate"),
			1e-4, "value %v", v)
	}
}

func TestStats(t *testing.T) {
	t.Run("median odd", func(t *testing.T) {
		assert.Equal(t, 72.0, Median([]float64{70, 72, 95}))
	})
	t.Run("median even", func(t *testing.T) {
		assert.Equal(t, 71.0, Median([]float64{70, 72}))
	})
	t.Run("median empty", func(t *testing.T) {
		assert.Equal(t, 0.0, Median(nil))
	})
	t.Run("stdev single value is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Stdev([]float64{42}))
	})
	t.Run("stdev sample formula", func(t *testing.T) {
		// sample stdev of {2,4,4,4,5,5,7,9} with n-1 denominator
		assert.InDelta(t, 2.138, Stdev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.001)
	})
	t.Run("clip", func(t *testing.T) {
		assert.Equal(t, 0.0, Clip(-5, 0, 100))
		assert.Equal(t, 100.0, Clip(105, 0, 100))
		assert.Equal(t, 42.0, Clip(42, 0, 100))
	})
}
