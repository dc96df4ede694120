package scoring

import (
	"math"
	"sort"
)

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range xs {
		s += v
	}
	return s / float64(len(xs))
}

// stdev is the sample standard deviation. Returns 0 for fewer than two values.
func stdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	ss := 0.0
	for _, v := range xs {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return 0.5 * (cp[mid-1] + cp[mid])
}

func roundTo(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// sortedKeys returns map keys in lexical order so that float accumulation
// is reproducible across calls.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clip bounds x to [lo, hi].
func Clip(x, lo, hi float64) float64 { return clip(x, lo, hi) }

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) float64 { return mean(xs) }

// Stdev returns the sample standard deviation of xs.
func Stdev(xs []float64) float64 { return stdev(xs) }

// Median returns the median of xs.
func Median(xs []float64) float64 { return median(xs) }

// RoundTo rounds x to the given number of decimal places.
func RoundTo(x float64, places int) float64 { return roundTo(x, places) }
