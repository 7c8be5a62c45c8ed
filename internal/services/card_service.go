package services

import (
	"context"
	"strings"
	"time"

	"github.com/rafaelv/memoflash/internal/errors"
	"github.com/rafaelv/memoflash/internal/logger"
	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/repository"
	"github.com/rafaelv/memoflash/internal/scheduler"
)

// CardInput is the payload for creating a card.
type CardInput struct {
	Front            string                  `json:"front"`
	Back             string                  `json:"back"`
	FrontImage       string                  `json:"front_image"`
	BackImage        string                  `json:"back_image"`
	AnswerValidation models.AnswerValidation `json:"answer_validation"`
}

// CardService handles card-related business logic
type CardService interface {
	CreateCard(ctx context.Context, deckID int64, input CardInput) (*models.Card, error)
	GetCard(ctx context.Context, deckID, cardID int64) (*models.Card, error)
	ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
}

type cardService struct {
	decks repository.DeckRepository
	cards repository.CardRepository
}

// NewCardService creates a new CardService
func NewCardService(decks repository.DeckRepository, cards repository.CardRepository) CardService {
	return &cardService{decks: decks, cards: cards}
}

func validValidation(v models.AnswerValidation) bool {
	switch v {
	case models.ValidationExact, models.ValidationCaseInsensitive,
		models.ValidationTypoTolerant, models.ValidationKeyword, models.ValidationFlexible:
		return true
	}
	return false
}

func (s *cardService) CreateCard(ctx context.Context, deckID int64, input CardInput) (*models.Card, error) {
	log := logger.FromContext(ctx)

	deck, err := s.decks.Get(ctx, deckID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", deckID)
	}

	input.Front = strings.TrimSpace(input.Front)
	input.Back = strings.TrimSpace(input.Back)
	if input.Front == "" {
		return nil, errors.NewValidationError("front", "must not be empty")
	}
	if input.Back == "" {
		return nil, errors.NewValidationError("back", "must not be empty")
	}
	if input.AnswerValidation == "" {
		input.AnswerValidation = models.ValidationCaseInsensitive
	}
	if !validValidation(input.AnswerValidation) {
		return nil, errors.NewValidationError("answer_validation", "unknown validation type")
	}

	// New cards start unreviewed and immediately due.
	card := models.Card{
		DeckID:           deckID,
		Front:            input.Front,
		Back:             input.Back,
		FrontImage:       input.FrontImage,
		BackImage:        input.BackImage,
		EaseFactor:       scheduler.DefaultEaseFactor,
		NextReviewAt:     time.Now().UTC(),
		Difficulty:       models.DifficultyUnknown,
		AnswerValidation: input.AnswerValidation,
	}

	id, err := s.cards.Insert(ctx, card)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	created, err := s.cards.Get(ctx, deckID, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Info("card created: id=%d, deck_id=%d", id, deckID)
	return created, nil
}

func (s *cardService) GetCard(ctx context.Context, deckID, cardID int64) (*models.Card, error) {
	card, err := s.cards.Get(ctx, deckID, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	return card, nil
}

func (s *cardService) ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	if filter.Difficulty != "" {
		switch filter.Difficulty {
		case models.DifficultyUnknown, models.DifficultyHard, models.DifficultyMedium, models.DifficultyEasy:
		default:
			return nil, errors.NewValidationError("difficulty", "unknown difficulty")
		}
	}

	cards, err := s.cards.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}
