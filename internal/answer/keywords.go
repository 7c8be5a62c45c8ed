package answer

import "strings"

// stopWords are common English words excluded from keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "has": {}, "him": {}, "his": {},
	"how": {}, "its": {}, "may": {}, "who": {}, "did": {}, "get": {},
	"use": {}, "that": {}, "this": {}, "with": {}, "from": {}, "they": {},
	"have": {}, "been": {}, "were": {}, "what": {}, "when": {}, "will": {},
	"would": {}, "there": {}, "their": {}, "which": {}, "about": {},
	"these": {}, "those": {},
}

// minKeywordLength is the shortest token that counts as a keyword.
const minKeywordLength = 3

// ExtractKeywords splits the reference answer on whitespace and returns the
// lowercased tokens of at least three characters that are not stop words.
// Duplicates are removed, first occurrence wins.
func ExtractKeywords(s string) []string {
	var keywords []string
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(strings.ToLower(s)) {
		token = strings.Trim(token, ".,;:!?\"'()")
		if len(token) < minKeywordLength {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}
	return keywords
}
