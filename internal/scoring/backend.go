package scoring

import "math"

// Backend supplies the transcendental functions the scoring engine depends
// on. The engine takes one at construction time; StdBackend delegates to the
// platform math library, PolyBackend uses portable polynomial approximations
// for environments where bit-stable output across builds matters more than
// the last few ulps of precision.
type Backend interface {
	Log(x float64) float64
	Exp(x float64) float64
	Tanh(x float64) float64
	Sqrt(x float64) float64
}

// StdBackend delegates to the standard math package.
type StdBackend struct{}

func (StdBackend) Log(x float64) float64  { return math.Log(x) }
func (StdBackend) Exp(x float64) float64  { return math.Exp(x) }
func (StdBackend) Tanh(x float64) float64 { return math.Tanh(x) }
func (StdBackend) Sqrt(x float64) float64 { return math.Sqrt(x) }

// PolyBackend approximates exp, log, tanh and sqrt from primitive float
// operations only. Accuracy is better than 1e-9 over the ranges the engine
// uses (|z| <= 3, values <= 1e9).
type PolyBackend struct{}

func (PolyBackend) Exp(x float64) float64 {
	if x > 709 {
		return math.Inf(1)
	}
	if x < -709 {
		return 0
	}
	// Range reduction: x = k*ln2 + r with |r| <= ln2/2.
	k := math.Floor(x/math.Ln2 + 0.5)
	r := x - k*math.Ln2
	// Degree-9 Taylor series on the reduced argument.
	term := 1.0
	sum := 1.0
	for i := 1; i <= 9; i++ {
		term *= r / float64(i)
		sum += term
	}
	return math.Ldexp(sum, int(k))
}

func (b PolyBackend) Tanh(x float64) float64 {
	if x > 20 {
		return 1
	}
	if x < -20 {
		return -1
	}
	e2 := b.Exp(2 * x)
	return (e2 - 1) / (e2 + 1)
}

func (b PolyBackend) Log(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	// x = f * 2^e with f in [0.5, 1); use atanh series around 1.
	f, e := math.Frexp(x)
	if f < math.Sqrt2/2 {
		f *= 2
		e--
	}
	u := (f - 1) / (f + 1)
	u2 := u * u
	// ln(f) = 2u(1 + u^2/3 + u^4/5 + ...)
	sum := 0.0
	term := u
	for i := 0; i < 12; i++ {
		sum += term / float64(2*i+1)
		term *= u2
	}
	return 2*sum + float64(e)*math.Ln2
}

func (PolyBackend) Sqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	// Newton iteration seeded from the exponent halving trick.
	f, e := math.Frexp(x)
	guess := math.Ldexp(0.5+0.5*f, e/2)
	for i := 0; i < 6; i++ {
		guess = 0.5 * (guess + x/guess)
	}
	return guess
}
