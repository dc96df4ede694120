package scoring

import "math"

// Method selects how a raw metric is rescaled to the 0-100 band.
type Method string

const (
	MethodMinMax   Method = "min_max"
	MethodZScore   Method = "z_score"
	MethodLogScale Method = "log_scale"
)

// Reference holds the distribution reference for one (category, metric) pair.
type Reference struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Mean float64 `yaml:"mean"`
	Std  float64 `yaml:"std"`
}

// ReferenceTable maps category -> metric -> Reference.
type ReferenceTable map[string]map[string]Reference

// DefaultReferences returns the built-in distribution references used when no
// table is supplied from configuration.
func DefaultReferences() ReferenceTable {
	return ReferenceTable{
		"founder": {
			"years_experience": {Min: 0, Max: 20, Mean: 8, Std: 5},
			"previous_exits":   {Min: 0, Max: 3, Mean: 0.5, Std: 0.8},
			"team_size":        {Min: 1, Max: 10, Mean: 3, Std: 2},
		},
		"market": {
			"tam":          {Min: 0.1, Max: 1000, Mean: 50, Std: 100},
			"growth_rate":  {Min: 0, Max: 50, Mean: 15, Std: 10},
			"market_share": {Min: 0, Max: 100, Mean: 5, Std: 10},
		},
		"traction": {
			"arr":         {Min: 0, Max: 100, Mean: 2, Std: 5},
			"growth_rate": {Min: 0, Max: 200, Mean: 50, Std: 40},
			"customers":   {Min: 0, Max: 100000, Mean: 1000, Std: 5000},
		},
		"finance": {
			"burn_rate":    {Min: 0, Max: 10, Mean: 0.8, Std: 1.2},
			"runway":       {Min: 0, Max: 60, Mean: 18, Std: 12},
			"gross_margin": {Min: 0, Max: 100, Mean: 70, Std: 20},
		},
	}
}

// Normalizer rescales raw metric values onto a 0-100 scale using one of
// three interchangeable methods. Pairs without a reference entry fall back
// to a direct clip of the raw value.
type Normalizer struct {
	method Method
	refs   ReferenceTable
	be     Backend
}

// NewNormalizer builds a Normalizer. A nil refs table uses the defaults.
func NewNormalizer(method Method, refs ReferenceTable, be Backend) *Normalizer {
	if refs == nil {
		refs = DefaultReferences()
	}
	if be == nil {
		be = StdBackend{}
	}
	return &Normalizer{method: method, refs: refs, be: be}
}

// Normalize rescales value for the given (category, metric) pair using the
// engine's configured method.
func (n *Normalizer) Normalize(value float64, category, metric string) float64 {
	return n.NormalizeWith(value, category, metric, n.method)
}

// NormalizeAll rescales every raw metric that has a reference entry for the
// category. Metrics without a reference are omitted rather than passed
// through unscaled; nil means nothing was comparable.
func (n *Normalizer) NormalizeAll(raw map[string]float64, category string) map[string]float64 {
	byMetric, ok := n.refs[category]
	if !ok || len(raw) == 0 {
		return nil
	}
	out := make(map[string]float64)
	for metric, value := range raw {
		if _, ok := byMetric[metric]; ok {
			out[metric] = n.Normalize(value, category, metric)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// NormalizeWith rescales value using an explicit method, overriding the
// engine default.
func (n *Normalizer) NormalizeWith(value float64, category, metric string, method Method) float64 {
	byMetric, ok := n.refs[category]
	if !ok {
		return clip(value, 0, 100)
	}
	ref, ok := byMetric[metric]
	if !ok {
		return clip(value, 0, 100)
	}

	switch method {
	case MethodZScore:
		return n.zScore(value, ref.Mean, ref.Std)
	case MethodLogScale:
		return n.logScale(value, ref.Max)
	default:
		return n.minMax(value, ref.Min, ref.Max)
	}
}

func (n *Normalizer) minMax(value, min, max float64) float64 {
	if max == min {
		return 50.0
	}
	return clip(((value-min)/(max-min))*100, 0, 100)
}

func (n *Normalizer) zScore(value, mean, std float64) float64 {
	if std == 0 {
		return 50.0
	}
	z := (value - mean) / std
	return clip(n.zToPercentile(z)*100, 0, 100)
}

// logScale handles right-skewed metrics such as funding and revenue.
func (n *Normalizer) logScale(value, maxRef float64) float64 {
	if value <= 0 {
		return 0
	}
	logMax := n.be.Log(1 + maxRef)
	if logMax == 0 {
		return 50.0
	}
	return clip((n.be.Log(1+value)/logMax)*100, 0, 100)
}

// zToPercentile converts a z-score to a percentile fraction using a
// symmetric tanh approximation of the normal CDF. The z-score is clamped to
// [-3, 3] before conversion.
func (n *Normalizer) zToPercentile(z float64) float64 {
	z = clip(z, -3, 3)
	return 0.5 * (1 + n.be.Tanh(z*n.be.Sqrt(2/math.Pi)))
}
