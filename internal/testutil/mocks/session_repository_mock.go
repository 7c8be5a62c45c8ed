package mocks

import (
	"context"

	"github.com/rafaelv/memoflash/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) InsertSummary(ctx context.Context, summary models.StudySessionSummary) (int64, error) {
	args := m.Called(ctx, summary)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) ListForDeck(ctx context.Context, deckID int64) ([]models.StudySessionSummary, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StudySessionSummary), args.Error(1)
}
