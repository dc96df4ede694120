package agents

import (
	"regexp"
	"strconv"
	"strings"
)

// scoreParser is one strategy for pulling the trailing score marker out of a
// model response. Strategies are tried in declaration order until one yields
// an integer, which is then clamped to [0, 100].
type scoreParser struct {
	name string
	re   *regexp.Regexp
}

var scoreParsers = []scoreParser{
	{"score_marker", regexp.MustCompile(`(?i)Score:\s*(\d+)`)},
	{"rating_marker", regexp.MustCompile(`(?i)Rating:\s*(\d+)`)},
	{"fraction", regexp.MustCompile(`(\d+)/100`)},
	{"percent", regexp.MustCompile(`(\d+)%`)},
}

// HeuristicScorePolicy is the documented last resort when no score marker
// matches: derive a score from response length and positive-keyword density.
// It is a tunable policy, not an incidental default.
type HeuristicScorePolicy struct {
	Base             float64
	LengthDivisor    float64
	LengthCap        float64
	KeywordBonus     float64
	KeywordCap       float64
	PositiveKeywords []string
}

// DefaultHeuristicPolicy returns the shipped heuristic tuning.
func DefaultHeuristicPolicy() HeuristicScorePolicy {
	return HeuristicScorePolicy{
		Base:          50,
		LengthDivisor: 120,
		LengthCap:     15,
		KeywordBonus:  5,
		KeywordCap:    20,
		PositiveKeywords: []string{
			"strong", "promising", "experienced", "growth", "profitable",
			"impressive", "validated", "scalable", "defensible",
		},
	}
}

// Score derives a heuristic score from the response text.
func (p HeuristicScorePolicy) Score(text string) float64 {
	lengthBonus := float64(len(text)) / p.LengthDivisor
	if lengthBonus > p.LengthCap {
		lengthBonus = p.LengthCap
	}
	keywordBonus := float64(countKeywords(text, p.PositiveKeywords)) * p.KeywordBonus
	if keywordBonus > p.KeywordCap {
		keywordBonus = p.KeywordCap
	}
	score := p.Base + lengthBonus + keywordBonus
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// ParsedScore is the outcome of the fallback chain.
type ParsedScore struct {
	Score float64
	// Summary is the text before the matched marker, or the whole response
	// when no marker matched.
	Summary string
	// Matched reports whether an explicit marker produced the score; false
	// means the heuristic policy supplied it.
	Matched bool
	Parser  string
}

const summaryLimit = 500

// ParseScore runs the ordered marker strategies over a model response and
// falls back to the heuristic policy when none match.
func ParseScore(response string, policy HeuristicScorePolicy) ParsedScore {
	for _, p := range scoreParsers {
		match := p.re.FindStringSubmatchIndex(response)
		if match == nil {
			continue
		}
		raw := response[match[2]:match[3]]
		n, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if n < 0 {
			n = 0
		}
		if n > 100 {
			n = 100
		}
		return ParsedScore{
			Score:   float64(n),
			Summary: truncate(strings.TrimSpace(response[:match[0]]), summaryLimit),
			Matched: true,
			Parser:  p.name,
		}
	}
	return ParsedScore{
		Score:   policy.Score(response),
		Summary: truncate(strings.TrimSpace(response), summaryLimit),
		Parser:  "heuristic",
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
