package agents

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/venturelens/pitchmeter/internal/config"
	"github.com/venturelens/pitchmeter/internal/llm"
)

// FounderAgent rates the founding team: experience, domain relevance, track
// record and role coverage.
type FounderAgent struct {
	base
	weights map[string]float64
}

func NewFounderAgent(client llm.Client, params config.ScoringParams) *FounderAgent {
	return &FounderAgent{
		base: newBase(client, params),
		weights: map[string]float64{
			"experience":           0.3,
			"domain_expertise":     0.25,
			"track_record":         0.25,
			"team_complementarity": 0.2,
		},
	}
}

func (a *FounderAgent) Category() Category { return CategoryFounder }

var founderPatterns = []MetricPattern{
	{"years_experience", regexp.MustCompile(`(?i)(\d+)\s*years?\s*(?:of\s*)?experience`)},
	{"previous_exits", regexp.MustCompile(`(?i)(?:sold|exit|acquired).*?(\d+)`)},
	{"team_size", regexp.MustCompile(`(?i)(?:team|founders?).*?(\d+)`)},
}

var founderEvidencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z][a-z]+[^.\n]{0,60}(?:CEO|CTO|founder)`),
	regexp.MustCompile(`(?i)\d+\s*years?\s*(?:of\s*)?experience`),
	regexp.MustCompile(`(?i)previously[^.\n]{0,80}(?:founded|worked|led)[^.\n]*`),
}

const founderPrompt = `Analyze the founder profile from this startup document. Focus on:
1. Founder experience and background
2. Domain expertise relevance
3. Previous startup experience or exits
4. Team composition and complementarity
5. Leadership indicators

Document: %s

Provide detailed analysis and end with "Score: X" (0-100).`

func (a *FounderAgent) Analyze(ctx context.Context, documentText string, agentCtx *Context) (AgentResult, error) {
	start := time.Now()

	raw := ExtractMetrics(documentText, founderPatterns)

	parsed, full, err := a.judge(ctx, CategoryFounder, fmt.Sprintf(founderPrompt, promptExcerpt(documentText)))
	if err != nil {
		return AgentResult{}, err
	}

	sector := ""
	if agentCtx != nil {
		sector = agentCtx.Sector
	}
	components := map[string]float64{
		"experience":           experienceScore(raw, documentText),
		"domain_expertise":     domainScore(documentText, sector),
		"track_record":         trackRecordScore(raw, documentText),
		"team_complementarity": teamScore(documentText),
	}
	calculated := weightedMean(components, a.weights)
	final := a.blend(parsed.Score, calculated)

	return AgentResult{
		Category:          CategoryFounder,
		Score:             final,
		Summary:           parsed.Summary,
		DetailedAnalysis:  full,
		Evidence:          collectExcerpts(documentText, founderEvidencePatterns, "founder_info", 3),
		Confidence:        a.componentConfidence(components),
		RawMetrics:        raw,
		NormalizedMetrics: components,
		Details: CalculationDetails{
			WeightFactors:   a.weights,
			ComponentScores: components,
			LLMScore:        parsed.Score,
			CalculatedScore: calculated,
			FinalScore:      final,
		},
		ProcessingTime: time.Since(start),
		Mock:           a.isMock(),
	}, nil
}

var seniorityKeywords = []string{"senior", "lead", "director", "vp", "cto", "ceo", "founder"}

// experienceScore bands years of experience and adds a seniority-keyword
// bonus.
func experienceScore(metrics map[string]float64, text string) float64 {
	years := metrics["years_experience"]
	score := 40.0
	switch {
	case years >= 10:
		score = 90
	case years >= 5:
		score = 75
	case years >= 2:
		score = 60
	}
	score += float64(countKeywords(text, seniorityKeywords)) * 5
	if score > 100 {
		score = 100
	}
	return score
}

var sectorKeywords = map[string][]string{
	"fintech":    {"finance", "banking", "payment", "financial"},
	"healthcare": {"health", "medical", "clinical", "pharma"},
	"saas":       {"software", "platform", "api", "cloud"},
	"ecommerce":  {"retail", "commerce", "marketplace", "shopping"},
}

// domainScore matches the document against the sector keyword table. With no
// sector hint the score stays neutral.
func domainScore(text, sector string) float64 {
	keywords, ok := sectorKeywords[sector]
	if !ok {
		return 60.0
	}
	score := 40 + float64(countKeywords(text, keywords))*15
	if score > 100 {
		score = 100
	}
	return score
}

var successKeywords = []string{"successful", "profitable", "growth", "scale", "raised"}

func trackRecordScore(metrics map[string]float64, text string) float64 {
	exits := metrics["previous_exits"]
	score := 50.0
	switch {
	case exits >= 2:
		score = 95
	case exits >= 1:
		score = 80
	}
	score += float64(countKeywords(text, successKeywords)) * 3
	if score > 100 {
		score = 100
	}
	return score
}

var teamRoles = []string{"ceo", "cto", "cfo", "cmo", "technical", "business", "marketing", "sales"}
var diversityKeywords = []string{"diverse", "complementary", "balanced", "experienced"}

// teamScore counts role coverage across the canonical leadership roles plus
// a complementarity bonus.
func teamScore(text string) float64 {
	score := float64(countKeywords(text, teamRoles)) * 10
	if score > 80 {
		score = 80
	}
	score += float64(countKeywords(text, diversityKeywords)) * 5
	if score > 100 {
		score = 100
	}
	return score
}
