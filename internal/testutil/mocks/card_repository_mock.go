package mocks

import (
	"context"

	"github.com/rafaelv/memoflash/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Insert(ctx context.Context, card models.Card) (int64, error) {
	args := m.Called(ctx, card)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardRepository) Get(ctx context.Context, deckID, cardID int64) (*models.Card, error) {
	args := m.Called(ctx, deckID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) ListForDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) UpdateReview(ctx context.Context, deckID, cardID int64, upd models.CardUpdate) (*models.Card, error) {
	args := m.Called(ctx, deckID, cardID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) CacheOptions(ctx context.Context, deckID, cardID int64, options []string) error {
	args := m.Called(ctx, deckID, cardID, options)
	return args.Error(0)
}
