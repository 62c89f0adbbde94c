package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex pattern for performance.
// Keeps letters, digits, underscore, whitespace and hyphen.
var queryNoiseRegex = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// NormalizedQuery is a wire name reduced to the form used for scoring
type NormalizedQuery struct {
	Text     string   // lowercased, punctuation stripped, trimmed
	Keywords []string // unique whitespace-separated tokens of Text, in order
}

// NormalizeQuery lowercases the wire name, strips punctuation other than
// hyphens and splits it into a set of keyword tokens.
func NormalizeQuery(wireName string) NormalizedQuery {
	text := queryNoiseRegex.ReplaceAllString(strings.ToLower(wireName), "")
	text = strings.TrimSpace(text)

	fields := strings.Fields(text)
	keywords := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		keywords = append(keywords, f)
	}

	return NormalizedQuery{Text: text, Keywords: keywords}
}

// containsFold reports whether substr appears in s, ignoring case
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// containsAny reports whether any keyword is a substring of the lowercased text
func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
