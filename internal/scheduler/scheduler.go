package scheduler

import (
	"math"
	"time"

	"github.com/rafaelv/memoflash/internal/errors"
	"github.com/rafaelv/memoflash/internal/models"
)

const (
	// DefaultEaseFactor is the starting ease of a new card.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the floor of the ease factor. There is no ceiling.
	MinEaseFactor = 1.3

	// MasteredRepetitions is the repetition count at which a card counts
	// as mastered in deck stats.
	MasteredRepetitions = 5
)

// ReviewUpdate holds the scheduling fields recomputed after a review.
type ReviewUpdate struct {
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
	NextReviewAt time.Time
}

// CalculateNextReview applies the SM-2 recurrence to a card snapshot for a
// recall quality in 0..5. Quality below 3 resets the repetition run; the
// ease factor is adjusted on every call and clamped to MinEaseFactor.
//
// The next review is anchored to the wall-clock time of the calculation,
// not to the previously scheduled date, so late reviews absorb the delay.
func CalculateNextReview(card models.Card, quality int) (ReviewUpdate, error) {
	if quality < 0 || quality > 5 {
		return ReviewUpdate{}, errors.NewValidationError("quality", "must be between 0 and 5")
	}

	upd := ReviewUpdate{}
	if quality < 3 {
		upd.Repetitions = 0
		upd.IntervalDays = 0
	} else {
		upd.Repetitions = card.Repetitions + 1
		switch card.Repetitions {
		case 0:
			upd.IntervalDays = 1
		case 1:
			upd.IntervalDays = 6
		default:
			upd.IntervalDays = int(math.Round(float64(card.IntervalDays) * card.EaseFactor))
		}
	}

	ef := card.EaseFactor + 0.1 - float64(5-quality)*(0.08+float64(5-quality)*0.02)
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	upd.EaseFactor = ef
	upd.NextReviewAt = time.Now().Add(time.Duration(upd.IntervalDays) * 24 * time.Hour)
	return upd, nil
}

// IsDue reports whether the card's next review is at or before now.
func IsDue(card models.Card, now time.Time) bool {
	return !card.NextReviewAt.After(now)
}

// IsUnknown reports whether the card has never been successfully studied.
func IsUnknown(card models.Card) bool {
	return card.Repetitions == 0 && card.LastReviewedAt == nil
}

// DueCards filters cards due at or before now, preserving input order.
func DueCards(cards []models.Card, now time.Time) []models.Card {
	var due []models.Card
	for _, c := range cards {
		if IsDue(c, now) {
			due = append(due, c)
		}
	}
	return due
}

// UnknownCards filters cards never studied, preserving input order.
func UnknownCards(cards []models.Card) []models.Card {
	var unknown []models.Card
	for _, c := range cards {
		if IsUnknown(c) {
			unknown = append(unknown, c)
		}
	}
	return unknown
}

// QualityToDifficulty maps a 0..5 recall quality onto the display label.
func QualityToDifficulty(quality int) models.Difficulty {
	switch {
	case quality >= 0 && quality <= 1:
		return models.DifficultyHard
	case quality >= 2 && quality <= 3:
		return models.DifficultyMedium
	case quality >= 4 && quality <= 5:
		return models.DifficultyEasy
	default:
		return models.DifficultyUnknown
	}
}

// StudyStats summarizes the scheduling state of a card set at the given
// instant. A due card still counts in its new/learning/mastered bucket.
func StudyStats(cards []models.Card, now time.Time) models.StudyStats {
	stats := models.StudyStats{Total: len(cards)}
	for _, c := range cards {
		if IsDue(c, now) {
			stats.Due++
		}
		switch {
		case IsUnknown(c):
			stats.New++
		case c.Repetitions >= MasteredRepetitions:
			stats.Mastered++
		default:
			stats.Learning++
		}
	}
	return stats
}
