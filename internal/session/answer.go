package session

import (
	"context"
	"strings"
	"time"

	"github.com/rafaelv/memoflash/internal/answer"
	"github.com/rafaelv/memoflash/internal/errors"
	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/scheduler"
)

// SelfRating is the simplified 3-button flashcard scale.
type SelfRating string

const (
	RatingDidntKnow SelfRating = "didnt-know"
	RatingHard      SelfRating = "hard"
	RatingEasy      SelfRating = "easy"
)

// SelfRatingQuality maps the simplified scale onto the 0..5 quality scale
// used by the scheduler.
var SelfRatingQuality = map[SelfRating]int{
	RatingDidntKnow: 1,
	RatingHard:      3,
	RatingEasy:      5,
}

// Quality values derived from validated answers.
const (
	qualityPerfect   = 5 // correct with similarity above the perfect bar
	qualityCorrect   = 4
	qualityIncorrect = 2

	// perfectSimilarity is the bar above which a correct written answer
	// earns the top quality.
	perfectSimilarity = 0.95
)

// Streak thresholds for adaptive learn mode.
const (
	escalateStreak   = 2
	deescalateStreak = 2
)

// Feedback reports the outcome of one answered step.
type Feedback struct {
	Correct       bool                `json:"correct"`
	Similarity    float64             `json:"similarity"`
	Quality       int                 `json:"quality"`
	CorrectAnswer string              `json:"correct_answer"`
	QuestionType  models.QuestionType `json:"question_type"`
	Complete      bool                `json:"complete"`
	AutoAdvance   bool                `json:"auto_advance"`
}

// SubmitAnswer scores the given response against the current card,
// updates scheduling through the sink, and advances the session. In test
// mode the advance happens after the feedback delay; a reset before the
// delay elapses cancels it.
func (s *Session) SubmitAnswer(ctx context.Context, response string) (*Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return nil, errors.NewConflictError("session is complete")
	}
	if s.pendingAdvance {
		return nil, errors.NewConflictError("waiting for the previous answer to advance")
	}
	if s.interaction == models.InteractionMatch {
		return nil, errors.NewBadRequestError("match sessions take tile selections, not answers")
	}

	card := s.cards[s.index]
	qt := s.questionTypeLocked(card)

	var result models.ValidationResult
	switch qt {
	case models.QuestionFlashcard:
		return nil, errors.NewBadRequestError("flashcard questions are self-rated")
	case models.QuestionWritten:
		result = answer.Validate(response, card.Back, card.AnswerValidation)
	case models.QuestionMultipleChoice:
		if strings.TrimSpace(response) == card.Back {
			result = models.ValidationResult{IsCorrect: true, Similarity: 1}
		}
	}

	quality := deriveQuality(qt, result)
	if s.interaction == models.InteractionLearn {
		s.recordOutcomeLocked(card.ID, result.IsCorrect)
	}

	if err := s.applyReviewLocked(ctx, card, quality); err != nil {
		return nil, err
	}

	// A learn-mode card leaves the queue only once answered correctly at
	// the written level; otherwise it comes around again.
	if s.interaction == models.InteractionLearn && !(result.IsCorrect && qt == models.QuestionWritten) {
		s.cards = append(s.cards, s.cards[s.index])
	}

	fb := &Feedback{
		Correct:       result.IsCorrect,
		Similarity:    result.Similarity,
		Quality:       quality,
		CorrectAnswer: card.Back,
		QuestionType:  qt,
	}

	if s.interaction == models.InteractionTest {
		// Hold the feedback on screen, then advance.
		fb.AutoAdvance = true
		s.pendingAdvance = true
		s.afterLocked(s.advanceDelay, func() {
			if err := s.advanceLocked(context.Background()); err != nil {
				s.log.Error("auto-advance completion failed: %v", err)
			}
		})
		return fb, nil
	}

	if err := s.advanceLocked(ctx); err != nil {
		return nil, err
	}
	fb.Complete = s.complete
	return fb, nil
}

// SelfRate applies the simplified flashcard rating to the current card and
// advances. Valid only when the current question is a flashcard.
func (s *Session) SelfRate(ctx context.Context, rating SelfRating) (*Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return nil, errors.NewConflictError("session is complete")
	}
	if s.pendingAdvance {
		return nil, errors.NewConflictError("waiting for the previous answer to advance")
	}

	quality, ok := SelfRatingQuality[rating]
	if !ok {
		return nil, errors.NewValidationError("rating", "must be one of didnt-know, hard, easy")
	}

	card := s.cards[s.index]
	if s.questionTypeLocked(card) != models.QuestionFlashcard {
		return nil, errors.NewBadRequestError("current question is not a flashcard")
	}

	correct := rating != RatingDidntKnow
	if s.interaction == models.InteractionLearn {
		s.recordOutcomeLocked(card.ID, correct)
	}

	if err := s.applyReviewLocked(ctx, card, quality); err != nil {
		return nil, err
	}

	// Flashcard steps in learn mode always recur; written is the exit.
	if s.interaction == models.InteractionLearn {
		s.cards = append(s.cards, s.cards[s.index])
	}

	fb := &Feedback{
		Correct:       correct,
		Similarity:    1,
		Quality:       quality,
		CorrectAnswer: card.Back,
		QuestionType:  models.QuestionFlashcard,
	}
	if !correct {
		fb.Similarity = 0
	}

	if err := s.advanceLocked(ctx); err != nil {
		return nil, err
	}
	fb.Complete = s.complete
	return fb, nil
}

// deriveQuality maps a validation outcome onto the 0..5 scheduler scale.
func deriveQuality(qt models.QuestionType, result models.ValidationResult) int {
	if !result.IsCorrect {
		return qualityIncorrect
	}
	if qt == models.QuestionWritten && result.Similarity > perfectSimilarity {
		return qualityPerfect
	}
	return qualityCorrect
}

// recordOutcomeLocked updates a card's adaptive state. Two consecutive
// correct answers escalate the question type one level, two consecutive
// misses bring it back down. Progress values are replaced whole.
func (s *Session) recordOutcomeLocked(cardID int64, correct bool) {
	p := s.progressLocked(cardID)

	if correct {
		p.CorrectStreak++
		p.IncorrectStreak = 0
		if p.CorrectStreak >= escalateStreak && p.CorrectStreak%escalateStreak == 0 {
			p.QuestionType = escalate(p.QuestionType)
		}
	} else {
		p.IncorrectStreak++
		p.CorrectStreak = 0
		if p.IncorrectStreak >= deescalateStreak {
			p.QuestionType = deescalate(p.QuestionType)
			p.IncorrectStreak = 0
		}
	}
	s.progress[cardID] = p
}

func escalate(qt models.QuestionType) models.QuestionType {
	switch qt {
	case models.QuestionMultipleChoice:
		return models.QuestionFlashcard
	case models.QuestionFlashcard:
		return models.QuestionWritten
	default:
		return qt // written is terminal
	}
}

func deescalate(qt models.QuestionType) models.QuestionType {
	switch qt {
	case models.QuestionWritten:
		return models.QuestionFlashcard
	case models.QuestionFlashcard:
		return models.QuestionMultipleChoice
	default:
		return qt // multiple-choice is terminal
	}
}

// applyReviewLocked runs the scheduler and writes the card update through
// the sink. A persistence failure propagates and leaves the session
// pointer where it was.
func (s *Session) applyReviewLocked(ctx context.Context, card models.Card, quality int) error {
	upd, err := scheduler.CalculateNextReview(card, quality)
	if err != nil {
		return err
	}

	now := time.Now()
	update := models.CardUpdate{
		EaseFactor:     upd.EaseFactor,
		IntervalDays:   upd.IntervalDays,
		Repetitions:    upd.Repetitions,
		NextReviewAt:   upd.NextReviewAt,
		LastReviewedAt: &now,
		Difficulty:     scheduler.QualityToDifficulty(quality),
	}

	updated, err := s.sink.UpdateCard(ctx, card.DeckID, card.ID, update)
	if err != nil {
		s.log.Error("failed to persist card update: card_id=%d: %v", card.ID, err)
		return err
	}
	if updated != nil {
		s.cards[s.index] = *updated
	}

	s.cardsStudied++
	if quality >= 3 {
		s.correctAnswers++
	}
	return nil
}
