package agents

import (
	"regexp"
	"strconv"
	"strings"
)

// MetricPattern names one numeric metric and the pattern that locates it.
// Patterns must expose the number as capture group 1.
type MetricPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// ExtractMetrics scans text with an ordered pattern list and returns the
// first parseable numeric match per metric. Unparsable or absent matches are
// omitted entirely; defaulting to zero is the caller's decision, never the
// extractor's.
func ExtractMetrics(text string, patterns []MetricPattern) map[string]float64 {
	metrics := make(map[string]float64)
	for _, mp := range patterns {
		match := mp.Pattern.FindStringSubmatch(text)
		if match == nil || len(match) < 2 {
			continue
		}
		cleaned := nonNumeric.ReplaceAllString(match[1], "")
		if cleaned == "" || cleaned == "." {
			continue
		}
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		metrics[mp.Name] = value
	}
	return metrics
}

// countKeywords returns how many of the keywords occur in text
// (case-insensitive substring match, counted once per keyword).
func countKeywords(text string, keywords []string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// collectExcerpts gathers up to limit regex-matched excerpts per pattern,
// tagged with the given evidence type.
func collectExcerpts(text string, patterns []*regexp.Regexp, evidenceType string, limit int) []Evidence {
	var evidence []Evidence
	for _, re := range patterns {
		matches := re.FindAllString(text, limit)
		for _, m := range matches {
			evidence = append(evidence, Evidence{
				Type:       evidenceType,
				Text:       strings.TrimSpace(m),
				Confidence: 0.8,
				Source:     "document",
			})
		}
	}
	return evidence
}
