package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	goerrors "errors"
	"sync"
	"time"

	"github.com/rafaelv/memoflash/internal/distractor"
	"github.com/rafaelv/memoflash/internal/errors"
	"github.com/rafaelv/memoflash/internal/jobs"
	"github.com/rafaelv/memoflash/internal/logger"
	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/repository"
	"github.com/rafaelv/memoflash/internal/scheduler"
	"github.com/rafaelv/memoflash/internal/session"
	"github.com/rafaelv/memoflash/internal/worker"
)

// StartSessionInput is the payload for starting a study session.
type StartSessionInput struct {
	DeckID      int64                       `json:"deck_id"`
	Mode        models.StudyMode            `json:"mode"`
	Interaction models.StudyInteractionType `json:"interaction_type"`
	Limit       int                         `json:"limit"`
}

// StudyService owns the live study sessions. Sessions are in-memory; only
// card scheduling updates and the final summary are persisted.
type StudyService interface {
	StartSession(ctx context.Context, input StartSessionInput) (*session.Session, error)
	GetSession(id string) (*session.Session, error)
	EndSession(id string) error
	History(ctx context.Context, deckID int64) ([]models.StudySessionSummary, error)
}

type studyService struct {
	decks    repository.DeckRepository
	cards    repository.CardRepository
	sessions repository.SessionRepository
	provider *distractor.Provider
	pool     *worker.Pool

	mu   sync.Mutex
	live map[string]*session.Session
}

// NewStudyService creates a new StudyService. pool may be nil, which
// disables background distractor warm-up.
func NewStudyService(decks repository.DeckRepository, cards repository.CardRepository, sessions repository.SessionRepository, provider *distractor.Provider, pool *worker.Pool) StudyService {
	return &studyService{
		decks:    decks,
		cards:    cards,
		sessions: sessions,
		provider: provider,
		pool:     pool,
		live:     make(map[string]*session.Session),
	}
}

// repoSink adapts the repositories to the session's persistence interface.
type repoSink struct {
	cards    repository.CardRepository
	sessions repository.SessionRepository
}

func (s *repoSink) UpdateCard(ctx context.Context, deckID, cardID int64, upd models.CardUpdate) (*models.Card, error) {
	card, err := s.cards.UpdateReview(ctx, deckID, cardID, upd)
	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("card", cardID)
		}
		return nil, errors.NewInternalError(err)
	}
	return card, nil
}

func (s *repoSink) SaveSummary(ctx context.Context, summary models.StudySessionSummary) error {
	if _, err := s.sessions.InsertSummary(ctx, summary); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

func validMode(m models.StudyMode) bool {
	switch m {
	case models.ModeDue, models.ModeDifficult, models.ModeUnknown, models.ModeRandom, models.ModeSequential:
		return true
	}
	return false
}

func validInteraction(i models.StudyInteractionType) bool {
	switch i {
	case models.InteractionLearn, models.InteractionFlashcards, models.InteractionTest,
		models.InteractionMatch, models.InteractionAIQuiz:
		return true
	}
	return false
}

func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *studyService) StartSession(ctx context.Context, input StartSessionInput) (*session.Session, error) {
	log := logger.FromContext(ctx)

	if !validMode(input.Mode) {
		return nil, errors.NewValidationError("mode", "must be one of due, difficult, unknown, random, sequential")
	}
	if !validInteraction(input.Interaction) {
		return nil, errors.NewValidationError("interaction_type", "must be one of learn, flashcards, test, match, ai-quiz")
	}

	deck, err := s.decks.Get(ctx, input.DeckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", input.DeckID)
	}

	cards, err := s.cards.ListForDeck(ctx, input.DeckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if len(cards) == 0 {
		return nil, errors.NewValidationError("deck_id", "deck has no cards to study")
	}

	ordered := scheduler.StudyOrder(cards, input.Mode, time.Now(), nil)
	if input.Limit > 0 && input.Limit < len(ordered) {
		ordered = ordered[:input.Limit]
	}

	id := newSessionID()
	sink := &repoSink{cards: s.cards, sessions: s.sessions}
	sess, err := session.New(id, input.DeckID, ordered, input.Interaction, s.provider, sink)
	if err != nil {
		return nil, err
	}

	if input.Interaction == models.InteractionAIQuiz && s.pool != nil {
		s.pool.Submit(&jobs.DistractorWarmupJob{
			Provider: s.provider,
			DeckID:   input.DeckID,
			Cards:    ordered,
		})
	}

	s.mu.Lock()
	s.live[id] = sess
	s.mu.Unlock()

	log.Info("session started: id=%s, deck_id=%d, mode=%s, interaction=%s, cards=%d",
		id, input.DeckID, input.Mode, input.Interaction, len(ordered))
	return sess, nil
}

func (s *studyService) GetSession(id string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.live[id]
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	return sess, nil
}

// EndSession abandons a session without emitting a summary.
func (s *studyService) EndSession(id string) error {
	s.mu.Lock()
	sess, ok := s.live[id]
	if ok {
		delete(s.live, id)
	}
	s.mu.Unlock()

	if !ok {
		return errors.NewNotFoundError("session", id)
	}
	sess.Close()
	return nil
}

func (s *studyService) History(ctx context.Context, deckID int64) ([]models.StudySessionSummary, error) {
	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	summaries, err := s.sessions.ListForDeck(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return summaries, nil
}
