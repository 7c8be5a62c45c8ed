package scheduler

import (
	"math/rand"
	"sort"
	"time"

	"github.com/rafaelv/memoflash/internal/models"
)

// difficultyScore ranks how hard a card currently is. Lower means harder.
func difficultyScore(c models.Card) float64 {
	return c.EaseFactor * float64(c.Repetitions+1)
}

// SortByDifficulty returns the cards ordered by difficulty. With ascending
// true the order runs easiest to hardest; false puts the hardest cards
// first. The sort is stable, ties keep their relative input order.
func SortByDifficulty(cards []models.Card, ascending bool) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return difficultyScore(out[i]) > difficultyScore(out[j])
		}
		return difficultyScore(out[i]) < difficultyScore(out[j])
	})
	return out
}

// StudyOrder arranges cards for a session according to the study mode.
// The input slice is never mutated. rng is used only for ModeRandom; pass
// nil to use the global source.
func StudyOrder(cards []models.Card, mode models.StudyMode, now time.Time, rng *rand.Rand) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)

	switch mode {
	case models.ModeDue:
		// Due cards first, each half ordered by next review ascending.
		var due, rest []models.Card
		for _, c := range out {
			if IsDue(c, now) {
				due = append(due, c)
			} else {
				rest = append(rest, c)
			}
		}
		sort.SliceStable(due, func(i, j int) bool {
			return due[i].NextReviewAt.Before(due[j].NextReviewAt)
		})
		sort.SliceStable(rest, func(i, j int) bool {
			return rest[i].NextReviewAt.Before(rest[j].NextReviewAt)
		})
		return append(due, rest...)

	case models.ModeDifficult:
		return SortByDifficulty(out, false)

	case models.ModeUnknown:
		// Unknown cards by creation date, then the rest untouched.
		var unknown, known []models.Card
		for _, c := range out {
			if IsUnknown(c) {
				unknown = append(unknown, c)
			} else {
				known = append(known, c)
			}
		}
		sort.SliceStable(unknown, func(i, j int) bool {
			return unknown[i].CreatedAt.Before(unknown[j].CreatedAt)
		})
		return append(unknown, known...)

	case models.ModeRandom:
		shuffle := rand.Shuffle
		if rng != nil {
			shuffle = rng.Shuffle
		}
		shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
		return out

	case models.ModeSequential:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
		return out

	default:
		return out
	}
}
