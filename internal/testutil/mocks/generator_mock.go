package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGenerator is a mock implementation of distractor.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateDistractors(ctx context.Context, front, correctAnswer string, count int) ([]string, error) {
	args := m.Called(ctx, front, correctAnswer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
