package session

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rafaelv/memoflash/internal/answer"
	"github.com/rafaelv/memoflash/internal/distractor"
	"github.com/rafaelv/memoflash/internal/errors"
	"github.com/rafaelv/memoflash/internal/logger"
	"github.com/rafaelv/memoflash/internal/models"
)

// optionCount is the size of a multiple-choice option list.
const optionCount = 4

// Sink receives card updates and the final summary. It is the session's
// view of the persistence collaborator.
type Sink interface {
	UpdateCard(ctx context.Context, deckID, cardID int64, upd models.CardUpdate) (*models.Card, error)
	SaveSummary(ctx context.Context, summary models.StudySessionSummary) error
}

// Session owns the state of one active study run over an ordered card
// sequence. All methods are safe for concurrent use; timer callbacks are
// guarded by an epoch so a reset or teardown turns their completion into a
// no-op.
type Session struct {
	mu sync.Mutex

	id          string
	deckID      int64
	interaction models.StudyInteractionType
	cards       []models.Card
	provider    *distractor.Provider
	sink        Sink
	log         *logger.Logger

	rng           *rand.Rand
	advanceDelay  time.Duration
	mismatchDelay time.Duration
	completeDelay time.Duration

	index          int
	cardsStudied   int
	correctAnswers int
	startedAt      time.Time
	complete       bool
	pendingAdvance bool
	progress       map[int64]models.CardProgress
	pool           []string
	match          *matchState
	epoch          uint64
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used for option shuffling and match
// tile layout.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithAdvanceDelay sets the auto-advance delay used in test mode.
func WithAdvanceDelay(d time.Duration) Option {
	return func(s *Session) { s.advanceDelay = d }
}

// WithMismatchDelay sets how long mismatched tiles stay marked wrong.
func WithMismatchDelay(d time.Duration) Option {
	return func(s *Session) { s.mismatchDelay = d }
}

// WithCompleteDelay sets the pause between the last match and completion.
func WithCompleteDelay(d time.Duration) Option {
	return func(s *Session) { s.completeDelay = d }
}

// New creates a session over an already-ordered card sequence.
func New(id string, deckID int64, cards []models.Card, interaction models.StudyInteractionType, provider *distractor.Provider, sink Sink, opts ...Option) (*Session, error) {
	if len(cards) == 0 {
		return nil, errors.NewValidationError("cards", "session needs at least one card")
	}

	s := &Session{
		id:            id,
		deckID:        deckID,
		interaction:   interaction,
		cards:         cards,
		provider:      provider,
		sink:          sink,
		log:           logger.Default().WithPrefix("session").WithField("session_id", id),
		advanceDelay:  2 * time.Second,
		mismatchDelay: 500 * time.Millisecond,
		completeDelay: 2 * time.Second,
		startedAt:     time.Now(),
		progress:      make(map[int64]models.CardProgress),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.pool = make([]string, len(cards))
	for i, c := range cards {
		s.pool[i] = c.Back
	}

	if interaction == models.InteractionMatch {
		s.match = newMatchState(cards, s.shuffle)
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Interaction returns the session's interaction type.
func (s *Session) Interaction() models.StudyInteractionType {
	return s.interaction
}

// State is a snapshot of session progress for the application layer.
type State struct {
	ID             string                      `json:"id"`
	DeckID         int64                       `json:"deck_id"`
	Interaction    models.StudyInteractionType `json:"interaction_type"`
	Position       int                         `json:"position"`
	Total          int                         `json:"total"`
	CardsStudied   int                         `json:"cards_studied"`
	CorrectAnswers int                         `json:"correct_answers"`
	Accuracy       float64                     `json:"accuracy"`
	Complete       bool                        `json:"complete"`
	StartedAt      time.Time                   `json:"started_at"`
}

// State returns the current progress snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	position := s.index + 1
	if position > len(s.cards) {
		position = len(s.cards)
	}
	accuracy := 0.0
	if s.cardsStudied > 0 {
		accuracy = float64(s.correctAnswers) / float64(s.cardsStudied)
	}
	return State{
		ID:             s.id,
		DeckID:         s.deckID,
		Interaction:    s.interaction,
		Position:       position,
		Total:          len(s.cards),
		CardsStudied:   s.cardsStudied,
		CorrectAnswers: s.correctAnswers,
		Accuracy:       accuracy,
		Complete:       s.complete,
		StartedAt:      s.startedAt,
	}
}

// Question is the presentation payload for the current step.
type Question struct {
	CardID     int64                   `json:"card_id"`
	Position   int                     `json:"position"`
	Total      int                     `json:"total"`
	Type       models.QuestionType     `json:"type"`
	Prompt     string                  `json:"prompt"`
	Options    []string                `json:"options,omitempty"`
	Validation models.AnswerValidation `json:"validation,omitempty"`
}

// CurrentQuestion builds the presentation payload for the card at the
// session pointer. Multiple-choice option sets are regenerated on each
// call; ai-quiz options come from the distractor provider.
func (s *Session) CurrentQuestion(ctx context.Context) (*Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return nil, errors.NewConflictError("session is complete")
	}
	if s.interaction == models.InteractionMatch {
		return nil, errors.NewBadRequestError("match sessions use the board endpoint")
	}

	card := s.cards[s.index]
	qt := s.questionTypeLocked(card)

	q := &Question{
		CardID:   card.ID,
		Position: s.index + 1,
		Total:    len(s.cards),
		Type:     qt,
		Prompt:   card.Front,
	}

	switch qt {
	case models.QuestionWritten:
		q.Validation = card.AnswerValidation
	case models.QuestionMultipleChoice:
		if s.interaction == models.InteractionAIQuiz {
			distractors, source := s.provider.ConfusingOptions(ctx, card, s.poolWithout(card), false)
			s.log.Debug("ai-quiz options from %s: card_id=%d", source, card.ID)
			options := append([]string{card.Back}, distractors...)
			s.shuffle(len(options), func(i, j int) {
				options[i], options[j] = options[j], options[i]
			})
			q.Options = options
		} else {
			q.Options = answer.MultipleChoiceOptions(card.Back, s.poolWithout(card), optionCount, s.rng)
		}
	}
	return q, nil
}

// Reveal returns the back of the current card for flashcard-style steps.
func (s *Session) Reveal() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return "", errors.NewConflictError("session is complete")
	}
	card := s.cards[s.index]
	if s.questionTypeLocked(card) != models.QuestionFlashcard {
		return "", errors.NewBadRequestError("current question is not a flashcard")
	}
	return card.Back, nil
}

// Reset discards all per-session state and restarts from the first card.
// Already-persisted card updates are not rolled back. Pending timers and
// in-flight generation results become no-ops.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.index = 0
	s.cardsStudied = 0
	s.correctAnswers = 0
	s.complete = false
	s.pendingAdvance = false
	s.progress = make(map[int64]models.CardProgress)
	s.startedAt = time.Now()
	if s.interaction == models.InteractionMatch {
		s.match = newMatchState(s.cards, s.shuffle)
	}
	s.log.Info("session reset")
}

// Close tears the session down: pending timers become no-ops and no
// further mutation is accepted. No summary is emitted.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.complete = true
	s.log.Debug("session closed")
}

// questionTypeLocked maps the current card to its presentation.
func (s *Session) questionTypeLocked(card models.Card) models.QuestionType {
	switch s.interaction {
	case models.InteractionFlashcards:
		return models.QuestionFlashcard
	case models.InteractionTest:
		return models.QuestionWritten
	case models.InteractionAIQuiz:
		return models.QuestionMultipleChoice
	case models.InteractionLearn:
		return s.progressLocked(card.ID).QuestionType
	default:
		return models.QuestionFlashcard
	}
}

// progressLocked returns the adaptive state for a card, creating the
// initial multiple-choice entry on first use.
func (s *Session) progressLocked(cardID int64) models.CardProgress {
	if p, ok := s.progress[cardID]; ok {
		return p
	}
	p := models.CardProgress{QuestionType: models.QuestionMultipleChoice}
	s.progress[cardID] = p
	return p
}

// Progress exposes a card's adaptive state, mainly for the application layer.
func (s *Session) Progress(cardID int64) (models.CardProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[cardID]
	return p, ok
}

func (s *Session) poolWithout(card models.Card) []string {
	var pool []string
	for _, c := range s.cards {
		if c.ID != card.ID {
			pool = append(pool, c.Back)
		}
	}
	return pool
}

func (s *Session) shuffle(n int, swap func(i, j int)) {
	if s.rng != nil {
		s.rng.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}

// advanceLocked moves the pointer forward and completes the session when
// the sequence is exhausted. Summary persistence errors are returned so
// synchronous callers can propagate them.
func (s *Session) advanceLocked(ctx context.Context) error {
	s.pendingAdvance = false
	s.index++
	if s.index >= len(s.cards) {
		return s.completeLocked(ctx)
	}
	return nil
}

func (s *Session) completeLocked(ctx context.Context) error {
	if s.complete {
		return nil
	}
	s.complete = true
	s.epoch++

	summary := models.StudySessionSummary{
		DeckID:         s.deckID,
		StartedAt:      s.startedAt,
		EndedAt:        time.Now(),
		CardsStudied:   s.cardsStudied,
		CorrectAnswers: s.correctAnswers,
	}
	s.log.Info("session complete: studied=%d correct=%d", summary.CardsStudied, summary.CorrectAnswers)
	if err := s.sink.SaveSummary(ctx, summary); err != nil {
		s.log.Error("failed to save session summary: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

// afterLocked schedules fn to run after d unless the session epoch moves
// on first (reset, teardown or completion).
func (s *Session) afterLocked(d time.Duration, fn func()) {
	epoch := s.epoch
	time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch {
			return
		}
		fn()
	})
}
