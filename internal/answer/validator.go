package answer

import (
	"strings"

	"github.com/rafaelv/memoflash/internal/models"
)

const (
	// typoTolerantThreshold accepts a typo-tolerant answer on its own.
	typoTolerantThreshold = 0.85
	// flexibleTypoThreshold is the looser bar applied by the flexible strategy.
	flexibleTypoThreshold = 0.75
)

// Validate scores a user answer against the reference answer using the
// given strategy. Both inputs are trimmed first; an empty user answer is
// always rejected with similarity 0.
func Validate(user, correct string, vtype models.AnswerValidation) models.ValidationResult {
	user = strings.TrimSpace(user)
	correct = strings.TrimSpace(correct)
	if user == "" {
		return models.ValidationResult{}
	}

	switch vtype {
	case models.ValidationExact:
		return exactMatch(user, correct)
	case models.ValidationCaseInsensitive:
		return caseInsensitiveMatch(user, correct)
	case models.ValidationTypoTolerant:
		return typoTolerantMatch(user, correct)
	case models.ValidationKeyword:
		return keywordMatch(user, correct)
	default:
		return flexibleMatch(user, correct)
	}
}

func exactMatch(user, correct string) models.ValidationResult {
	if user == correct {
		return models.ValidationResult{IsCorrect: true, Similarity: 1}
	}
	return models.ValidationResult{}
}

func caseInsensitiveMatch(user, correct string) models.ValidationResult {
	if strings.EqualFold(user, correct) {
		return models.ValidationResult{IsCorrect: true, Similarity: 1}
	}
	return models.ValidationResult{}
}

func typoTolerantMatch(user, correct string) models.ValidationResult {
	sim := typoSimilarity(user, correct)
	return models.ValidationResult{IsCorrect: sim >= typoTolerantThreshold, Similarity: sim}
}

// typoSimilarity is the normalized Levenshtein similarity over lowercased
// strings: 1 - distance / max(len).
func typoSimilarity(user, correct string) float64 {
	a := []rune(strings.ToLower(user))
	b := []rune(strings.ToLower(correct))
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

func keywordMatch(user, correct string) models.ValidationResult {
	keywords := ExtractKeywords(correct)
	if len(keywords) == 0 {
		return caseInsensitiveMatch(user, correct)
	}

	lowered := strings.ToLower(user)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			matched++
		}
	}
	return models.ValidationResult{
		IsCorrect:  matched > 0,
		Similarity: float64(matched) / float64(len(keywords)),
	}
}

// flexibleMatch is the default and most permissive strategy: equality first,
// then a relaxed typo-tolerant pass, then keywords. On rejection it reports
// the best similarity observed across the attempts.
func flexibleMatch(user, correct string) models.ValidationResult {
	if strings.EqualFold(user, correct) {
		return models.ValidationResult{IsCorrect: true, Similarity: 1}
	}

	typoSim := typoSimilarity(user, correct)
	if typoSim >= flexibleTypoThreshold {
		return models.ValidationResult{IsCorrect: true, Similarity: typoSim}
	}

	kw := keywordMatch(user, correct)
	if kw.IsCorrect {
		return kw
	}

	best := typoSim
	if kw.Similarity > best {
		best = kw.Similarity
	}
	return models.ValidationResult{IsCorrect: false, Similarity: best}
}

// ValidationDescription returns the display description of a strategy.
func ValidationDescription(vtype models.AnswerValidation) string {
	switch vtype {
	case models.ValidationExact:
		return "Answer must match exactly, including capitalization"
	case models.ValidationCaseInsensitive:
		return "Answer must match, ignoring capitalization"
	case models.ValidationTypoTolerant:
		return "Minor typos are forgiven"
	case models.ValidationKeyword:
		return "Answer must contain at least one keyword from the correct answer"
	case models.ValidationFlexible:
		return "Close answers, typos and keywords are all accepted"
	default:
		return "Unknown validation type"
	}
}
