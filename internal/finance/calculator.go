// Package finance derives unit-economics and burn/runway figures from the
// raw metrics the extractor pulls out of a pitch document. All arithmetic is
// deterministic; missing inputs leave the derived field unset rather than
// defaulting to zero.
package finance

// UnitEconomics holds derived revenue-per-customer figures. Monetary inputs
// are in $M, outputs in actual dollars.
type UnitEconomics struct {
	ARR           float64 `json:"arr,omitempty"`
	MRR           float64 `json:"mrr,omitempty"`
	ARPUAnnual    float64 `json:"arpu_annual,omitempty"`
	ARPUMonthly   float64 `json:"arpu_monthly,omitempty"`
	CalculatedLTV float64 `json:"calculated_ltv,omitempty"`
	LTVCACRatio   float64 `json:"ltv_cac_ratio,omitempty"`
	PaybackMonths float64 `json:"payback_months,omitempty"`
	Health        Health  `json:"health"`
}

// Health is a coarse assessment of the derived unit economics.
type Health struct {
	Score      float64  `json:"health_score"`
	Strengths  []string `json:"strengths"`
	Issues     []string `json:"issues"`
	Assessment string   `json:"overall_assessment"`
}

// Metrics is the subset of extracted metrics the calculator reads. Zero
// means absent.
type Metrics struct {
	ARR         float64
	MRR         float64
	Customers   float64
	CAC         float64
	LTV         float64
	ChurnRate   float64 // percent per month
	GrossMargin float64 // percent
}

// CalculateUnitEconomics derives ARPU, LTV and payback from whatever inputs
// are available.
func CalculateUnitEconomics(m Metrics) UnitEconomics {
	out := UnitEconomics{ARR: m.ARR, MRR: m.MRR}

	if m.MRR > 0 && m.ARR == 0 {
		out.ARR = m.MRR * 12
	}
	if m.ARR > 0 && m.MRR == 0 {
		out.MRR = m.ARR / 12
	}

	annualRevenue := out.ARR
	if annualRevenue > 0 && m.Customers > 0 {
		out.ARPUAnnual = annualRevenue * 1e6 / m.Customers
		out.ARPUMonthly = out.ARPUAnnual / 12
	}

	ltv := m.LTV
	if ltv == 0 && out.ARPUMonthly > 0 && m.ChurnRate > 0 {
		monthlyChurn := m.ChurnRate / 100
		if monthlyChurn < 1 {
			out.CalculatedLTV = (out.ARPUMonthly * m.GrossMargin / 100) / monthlyChurn
			ltv = out.CalculatedLTV
		}
	}

	if ltv > 0 && m.CAC > 0 {
		out.LTVCACRatio = ltv / m.CAC
	}

	if m.CAC > 0 && out.ARPUMonthly > 0 && m.GrossMargin > 0 {
		monthlyGross := out.ARPUMonthly * m.GrossMargin / 100
		if monthlyGross > 0 {
			out.PaybackMonths = m.CAC / monthlyGross
		}
	}

	out.Health = assessHealth(out)
	return out
}

func assessHealth(u UnitEconomics) Health {
	score := 50.0
	var strengths, issues []string

	switch {
	case u.LTVCACRatio >= 5:
		score += 20
		strengths = append(strengths, "Excellent LTV/CAC ratio (>=5)")
	case u.LTVCACRatio >= 3:
		score += 15
		strengths = append(strengths, "Good LTV/CAC ratio (>=3)")
	case u.LTVCACRatio >= 1:
		score += 5
		strengths = append(strengths, "Acceptable LTV/CAC ratio (>=1)")
	case u.LTVCACRatio > 0:
		score -= 10
		issues = append(issues, "Poor LTV/CAC ratio (<1)")
	}

	switch {
	case u.PaybackMonths > 0 && u.PaybackMonths <= 12:
		score += 15
		strengths = append(strengths, "Good payback period (<=12 months)")
	case u.PaybackMonths > 12 && u.PaybackMonths <= 24:
		score += 5
		strengths = append(strengths, "Acceptable payback period (<=24 months)")
	case u.PaybackMonths > 24:
		score -= 10
		issues = append(issues, "Long payback period (>24 months)")
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	assessment := "Poor"
	switch {
	case score >= 70:
		assessment = "Healthy"
	case score >= 40:
		assessment = "Concerning"
	}

	return Health{Score: score, Strengths: strengths, Issues: issues, Assessment: assessment}
}

// BurnRunway holds burn-rate and runway derivations. Monetary inputs in $M
// per month.
type BurnRunway struct {
	RunwayMonths    float64 `json:"runway_months,omitempty"`
	NetBurn         float64 `json:"net_burn,omitempty"`
	NetRunwayMonths float64 `json:"net_runway_months,omitempty"`
	BurnMultiple    float64 `json:"burn_multiple,omitempty"`
	RunwayHealth    string  `json:"runway_health"`
}

// CalculateBurnRunway derives runway figures from burn, cash and revenue.
func CalculateBurnRunway(monthlyBurn, cashBalance, monthlyRevenue float64) BurnRunway {
	out := BurnRunway{}

	if monthlyBurn > 0 && cashBalance > 0 {
		out.RunwayMonths = cashBalance / monthlyBurn
	}
	if monthlyBurn > 0 && monthlyRevenue > 0 {
		out.NetBurn = monthlyBurn - monthlyRevenue
		if out.NetBurn > 0 && cashBalance > 0 {
			out.NetRunwayMonths = cashBalance / out.NetBurn
		}
		out.BurnMultiple = monthlyBurn / monthlyRevenue
	}

	switch {
	case out.RunwayMonths >= 24:
		out.RunwayHealth = "Excellent"
	case out.RunwayMonths >= 18:
		out.RunwayHealth = "Good"
	case out.RunwayMonths >= 12:
		out.RunwayHealth = "Adequate"
	case out.RunwayMonths >= 6:
		out.RunwayHealth = "Concerning"
	default:
		out.RunwayHealth = "Critical"
	}

	return out
}
