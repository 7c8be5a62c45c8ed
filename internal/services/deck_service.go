package services

import (
	"context"
	"database/sql"
	goerrors "errors"
	"strings"
	"time"

	"github.com/rafaelv/memoflash/internal/errors"
	"github.com/rafaelv/memoflash/internal/logger"
	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/repository"
	"github.com/rafaelv/memoflash/internal/scheduler"
)

// DeckService handles deck-related business logic
type DeckService interface {
	CreateDeck(ctx context.Context, name string) (*models.Deck, error)
	GetDeck(ctx context.Context, id int64) (*models.Deck, error)
	ListDecks(ctx context.Context) ([]models.Deck, error)
	DeleteDeck(ctx context.Context, id int64) error
	DeckStats(ctx context.Context, id int64) (*models.StudyStats, error)
}

type deckService struct {
	decks repository.DeckRepository
	cards repository.CardRepository
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository, cards repository.CardRepository) DeckService {
	return &deckService{decks: decks, cards: cards}
}

func (s *deckService) CreateDeck(ctx context.Context, name string) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "must not be empty")
	}

	deck, err := s.decks.Insert(ctx, name)
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("deck created: id=%d, name=%s", deck.ID, deck.Name)
	return deck, nil
}

func (s *deckService) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	deck, err := s.decks.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", id)
	}
	return deck, nil
}

func (s *deckService) ListDecks(ctx context.Context) ([]models.Deck, error) {
	decks, err := s.decks.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	if err := s.decks.Delete(ctx, id); err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("deck", id)
		}
		log.Error("failed to delete deck: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("deck deleted: id=%d", id)
	return nil
}

func (s *deckService) DeckStats(ctx context.Context, id int64) (*models.StudyStats, error) {
	if _, err := s.GetDeck(ctx, id); err != nil {
		return nil, err
	}

	cards, err := s.cards.ListForDeck(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	stats := scheduler.StudyStats(cards, time.Now())
	return &stats, nil
}
