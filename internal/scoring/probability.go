package scoring

// ProbabilityParams are the logistic calibration constants. They are
// hand-tuned starting points, kept configurable pending empirical
// validation.
type ProbabilityParams struct {
	Steepness float64 `yaml:"steepness"` // logit slope per score point
	Threshold float64 `yaml:"threshold"` // score at which p_raw = 0.5
	Floor     float64 `yaml:"floor"`     // uninformative prior blended in at low confidence
}

// DefaultProbabilityParams returns the conventional calibration
// (k=0.1, threshold=60, floor=0.1).
func DefaultProbabilityParams() ProbabilityParams {
	return ProbabilityParams{Steepness: 0.1, Threshold: 60, Floor: 0.1}
}

// SuccessProbability is a calibrated probability with a qualitative band.
type SuccessProbability struct {
	Probability float64 `json:"success_probability"`
	Category    string  `json:"success_category"`
	Confidence  float64 `json:"confidence"`
}

// ProbabilityModel converts a composite score into a calibrated success
// probability. Low-confidence composites are pulled toward the
// uninformative floor rather than trusted at face value.
type ProbabilityModel struct {
	params ProbabilityParams
	be     Backend
}

// NewProbabilityModel builds a ProbabilityModel.
func NewProbabilityModel(params ProbabilityParams, be Backend) *ProbabilityModel {
	if params == (ProbabilityParams{}) {
		params = DefaultProbabilityParams()
	}
	if be == nil {
		be = StdBackend{}
	}
	return &ProbabilityModel{params: params, be: be}
}

// Assess converts the composite result into a success probability.
func (m *ProbabilityModel) Assess(composite CompositeResult) SuccessProbability {
	logit := m.params.Steepness * (composite.Score - m.params.Threshold)
	raw := 1 / (1 + m.be.Exp(-logit))

	conf := clip(composite.Confidence, 0, 1)
	adjusted := raw*conf + m.params.Floor*(1-conf)

	return SuccessProbability{
		Probability: roundTo(clip(adjusted, 0, 1), 3),
		Category:    probabilityBand(adjusted),
		Confidence:  conf,
	}
}

func probabilityBand(p float64) string {
	switch {
	case p >= 0.8:
		return "Very High"
	case p >= 0.6:
		return "High"
	case p >= 0.4:
		return "Moderate"
	case p >= 0.2:
		return "Low"
	default:
		return "Very Low"
	}
}
