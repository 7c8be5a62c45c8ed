package scheduler_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardIDs(cards []models.Card) []int64 {
	ids := make([]int64, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func TestStudyOrder_Due(t *testing.T) {
	now := time.Now()
	cards := []models.Card{
		{ID: 1, NextReviewAt: now.Add(48 * time.Hour)},
		{ID: 2, NextReviewAt: now.Add(-time.Hour)},
		{ID: 3, NextReviewAt: now.Add(-3 * time.Hour)},
		{ID: 4, NextReviewAt: now.Add(24 * time.Hour)},
	}

	ordered := scheduler.StudyOrder(cards, models.ModeDue, now, nil)

	// Due cards precede non-due; each half by next review ascending.
	assert.Equal(t, []int64{3, 2, 4, 1}, cardIDs(ordered))
}

func TestStudyOrder_Sequential(t *testing.T) {
	base := time.Now()
	cards := []models.Card{
		{ID: 1, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, CreatedAt: base},
		{ID: 3, CreatedAt: base.Add(time.Hour)},
	}

	ordered := scheduler.StudyOrder(cards, models.ModeSequential, base, nil)

	assert.Equal(t, []int64{2, 3, 1}, cardIDs(ordered))
}

func TestStudyOrder_Sequential_StableForTies(t *testing.T) {
	created := time.Now()
	cards := []models.Card{
		{ID: 7, CreatedAt: created},
		{ID: 8, CreatedAt: created},
		{ID: 9, CreatedAt: created},
	}

	ordered := scheduler.StudyOrder(cards, models.ModeSequential, created, nil)

	assert.Equal(t, []int64{7, 8, 9}, cardIDs(ordered))
}

func TestStudyOrder_Difficult(t *testing.T) {
	cards := []models.Card{
		{ID: 1, EaseFactor: 2.5, Repetitions: 4}, // score 12.5
		{ID: 2, EaseFactor: 1.3, Repetitions: 0}, // score 1.3, hardest
		{ID: 3, EaseFactor: 2.0, Repetitions: 1}, // score 4.0
	}

	ordered := scheduler.StudyOrder(cards, models.ModeDifficult, time.Now(), nil)

	assert.Equal(t, []int64{2, 3, 1}, cardIDs(ordered))
}

func TestSortByDifficulty_StableForTies(t *testing.T) {
	cards := []models.Card{
		{ID: 1, EaseFactor: 2.0, Repetitions: 1},
		{ID: 2, EaseFactor: 2.0, Repetitions: 1},
		{ID: 3, EaseFactor: 1.3, Repetitions: 0},
	}

	hardestFirst := scheduler.SortByDifficulty(cards, false)

	assert.Equal(t, []int64{3, 1, 2}, cardIDs(hardestFirst), "ties keep input order")
}

func TestStudyOrder_Unknown(t *testing.T) {
	base := time.Now()
	reviewed := base.Add(-time.Hour)
	cards := []models.Card{
		{ID: 1, Repetitions: 3, LastReviewedAt: &reviewed, CreatedAt: base},
		{ID: 2, Repetitions: 0, CreatedAt: base.Add(time.Minute)},
		{ID: 3, Repetitions: 1, LastReviewedAt: &reviewed, CreatedAt: base.Add(-time.Hour)},
		{ID: 4, Repetitions: 0, CreatedAt: base.Add(-time.Minute)},
	}

	ordered := scheduler.StudyOrder(cards, models.ModeUnknown, base, nil)

	// Unknown cards by creation date first; known cards keep input order.
	assert.Equal(t, []int64{4, 2, 1, 3}, cardIDs(ordered))
}

func TestStudyOrder_Random_IsPermutation(t *testing.T) {
	cards := make([]models.Card, 20)
	for i := range cards {
		cards[i] = models.Card{ID: int64(i + 1)}
	}

	rng := rand.New(rand.NewSource(42))
	ordered := scheduler.StudyOrder(cards, models.ModeRandom, time.Now(), rng)

	require.Len(t, ordered, len(cards))
	seen := make(map[int64]bool)
	for _, c := range ordered {
		assert.False(t, seen[c.ID], "card %d duplicated", c.ID)
		seen[c.ID] = true
	}
	// Input must not be mutated.
	assert.Equal(t, int64(1), cards[0].ID)
}

func TestStudyOrder_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	cards := []models.Card{
		{ID: 1, NextReviewAt: now.Add(time.Hour)},
		{ID: 2, NextReviewAt: now.Add(-time.Hour)},
	}

	_ = scheduler.StudyOrder(cards, models.ModeDue, now, nil)

	assert.Equal(t, []int64{1, 2}, cardIDs(cards))
}
