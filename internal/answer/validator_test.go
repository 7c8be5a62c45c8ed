package answer_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/rafaelv/memoflash/internal/answer"
	"github.com/rafaelv/memoflash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Exact(t *testing.T) {
	res := answer.Validate("Paris", "Paris", models.ValidationExact)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 1.0, res.Similarity)

	res = answer.Validate("paris", "Paris", models.ValidationExact)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, 0.0, res.Similarity)
}

func TestValidate_CaseInsensitive(t *testing.T) {
	res := answer.Validate("Paris", "paris", models.ValidationCaseInsensitive)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 1.0, res.Similarity)

	res = answer.Validate("Pariss", "paris", models.ValidationCaseInsensitive)
	assert.False(t, res.IsCorrect)
}

func TestValidate_TrimsInput(t *testing.T) {
	res := answer.Validate("  Paris  ", "Paris", models.ValidationExact)
	assert.True(t, res.IsCorrect)
}

func TestValidate_EmptyUserAnswerAlwaysRejected(t *testing.T) {
	types := []models.AnswerValidation{
		models.ValidationExact,
		models.ValidationCaseInsensitive,
		models.ValidationTypoTolerant,
		models.ValidationKeyword,
		models.ValidationFlexible,
	}
	for _, vt := range types {
		res := answer.Validate("   ", "Paris", vt)
		assert.False(t, res.IsCorrect, "type %s", vt)
		assert.Equal(t, 0.0, res.Similarity, "type %s", vt)
	}
}

func TestValidate_TypoTolerant(t *testing.T) {
	// One edit over five characters: similarity 0.8, below 0.85.
	res := answer.Validate("Pari", "Paris", models.ValidationTypoTolerant)
	assert.False(t, res.IsCorrect)
	assert.InDelta(t, 0.8, res.Similarity, 1e-9)

	// One edit over ten characters: similarity 0.9, accepted.
	res = answer.Validate("mitochondri", "mitochondria", models.ValidationTypoTolerant)
	assert.True(t, res.IsCorrect)
	assert.InDelta(t, 1.0-1.0/12.0, res.Similarity, 1e-9)
}

func TestValidate_FlexibleAcceptsNearTypo(t *testing.T) {
	// Same pair as the typo-tolerant rejection: flexible accepts at 0.75.
	res := answer.Validate("Pari", "Paris", models.ValidationFlexible)
	assert.True(t, res.IsCorrect)
	assert.InDelta(t, 0.8, res.Similarity, 1e-9)
}

func TestValidate_FlexibleExactShortCircuit(t *testing.T) {
	res := answer.Validate("PARIS", "paris", models.ValidationFlexible)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 1.0, res.Similarity)
}

func TestValidate_FlexibleFallsBackToKeywords(t *testing.T) {
	res := answer.Validate("it's the powerhouse", "powerhouse of the cell", models.ValidationFlexible)
	assert.True(t, res.IsCorrect)
	assert.InDelta(t, 0.5, res.Similarity, 1e-9, "one of two keywords matched")
}

func TestValidate_FlexibleReportsBestSimilarityOnReject(t *testing.T) {
	res := answer.Validate("zzz", "photosynthesis", models.ValidationFlexible)
	assert.False(t, res.IsCorrect)
	assert.GreaterOrEqual(t, res.Similarity, 0.0)
	assert.Less(t, res.Similarity, 0.75)
}

func TestValidate_Keyword(t *testing.T) {
	res := answer.Validate("something about chlorophyll here", "Chlorophyll absorbs light", models.ValidationKeyword)
	assert.True(t, res.IsCorrect)
	assert.InDelta(t, 1.0/3.0, res.Similarity, 1e-9)

	res = answer.Validate("no relevant words", "Chlorophyll absorbs light", models.ValidationKeyword)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, 0.0, res.Similarity)
}

func TestValidate_KeywordFallsBackToCaseInsensitive(t *testing.T) {
	// "is a" yields no keywords: every token is short or a stop word.
	res := answer.Validate("IT IS", "it is", models.ValidationKeyword)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 1.0, res.Similarity)
}

func TestExtractKeywords(t *testing.T) {
	kws := answer.ExtractKeywords("The mitochondria is the powerhouse of the cell")
	assert.Equal(t, []string{"mitochondria", "powerhouse", "cell"}, kws)
}

func TestExtractKeywords_StopWordsAndShortTokens(t *testing.T) {
	kws := answer.ExtractKeywords("it is and the a an")
	assert.Empty(t, kws)
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"paris", "paris", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, answer.Levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestMultipleChoiceOptions_IncludesCorrectExactlyOnce(t *testing.T) {
	pool := []string{"London", "Berlin", "Madrid", "paris", "Rome", "PARIS"}
	rng := rand.New(rand.NewSource(7))

	options := answer.MultipleChoiceOptions("Paris", pool, 4, rng)

	require.Len(t, options, 4)
	count := 0
	for _, o := range options {
		if strings.EqualFold(o, "Paris") {
			count++
		}
	}
	assert.Equal(t, 1, count, "correct answer appears exactly once, no case-insensitive duplicates")
}

func TestMultipleChoiceOptions_SmallPoolDegrades(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	options := answer.MultipleChoiceOptions("Paris", []string{"London"}, 4, rng)

	require.Len(t, options, 2)
	assert.Contains(t, options, "Paris")
	assert.Contains(t, options, "London")
}

func TestMultipleChoiceOptions_EmptyPool(t *testing.T) {
	options := answer.MultipleChoiceOptions("Paris", nil, 4, nil)
	assert.Equal(t, []string{"Paris"}, options)
}

func TestMultipleChoiceOptions_DistinctDistractors(t *testing.T) {
	pool := []string{"London", "london", "LONDON", "Berlin", "Madrid"}
	rng := rand.New(rand.NewSource(3))

	options := answer.MultipleChoiceOptions("Paris", pool, 4, rng)

	seen := make(map[string]bool)
	for _, o := range options {
		key := strings.ToLower(o)
		assert.False(t, seen[key], "duplicate option %q", o)
		seen[key] = true
	}
}

func TestValidationDescription(t *testing.T) {
	types := []models.AnswerValidation{
		models.ValidationExact,
		models.ValidationCaseInsensitive,
		models.ValidationTypoTolerant,
		models.ValidationKeyword,
		models.ValidationFlexible,
	}
	descs := make(map[string]bool)
	for _, vt := range types {
		d := answer.ValidationDescription(vt)
		assert.NotEmpty(t, d)
		descs[d] = true
	}
	assert.Len(t, descs, len(types), "descriptions are distinct")
}
