// Package types holds the request DTOs of the HTTP surface.
package types

// AnalyzeRequest is the payload for a full pitch analysis.
type AnalyzeRequest struct {
	DocumentText string             `json:"document_text" binding:"required"`
	Sector       string             `json:"sector"`
	Stage        string             `json:"stage"`
	Weights      map[string]float64 `json:"weights"`
	MinScore     float64            `json:"min_overall_score"`
	RiskAppetite string             `json:"risk_tolerance"`
}

// CategoryRequest is the payload for a single-category analysis.
type CategoryRequest struct {
	DocumentText string `json:"document_text" binding:"required"`
	Sector       string `json:"sector"`
}

// BenchmarkRequest asks for a cohort standing of externally computed scores.
type BenchmarkRequest struct {
	Scores   map[string]float64 `json:"scores" binding:"required"`
	Vertical string             `json:"vertical"`
	Stage    string             `json:"stage"`
}

// MetricBenchmarkRequest compares raw business metrics against industry
// quartile tables.
type MetricBenchmarkRequest struct {
	Metrics  map[string]float64 `json:"metrics" binding:"required"`
	Industry string             `json:"industry"`
	Stage    string             `json:"stage"`
}
