package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rafaelv/memoflash/internal/distractor"
	apperrors "github.com/rafaelv/memoflash/internal/errors"
	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/services"
	"github.com/rafaelv/memoflash/internal/session"
	"github.com/rafaelv/memoflash/internal/testutil/mocks"
	"github.com/rafaelv/memoflash/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func studyFixture() (*mocks.MockDeckRepository, *mocks.MockCardRepository, *mocks.MockSessionRepository, services.StudyService) {
	decks := new(mocks.MockDeckRepository)
	cards := new(mocks.MockCardRepository)
	sessions := new(mocks.MockSessionRepository)
	provider := distractor.NewProvider(nil, cards)
	svc := services.NewStudyService(decks, cards, sessions, provider, nil)
	return decks, cards, sessions, svc
}

func deckCards(n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{
			ID:               int64(i + 1),
			DeckID:           1,
			Front:            "front",
			Back:             "back",
			EaseFactor:       2.5,
			AnswerValidation: models.ValidationFlexible,
			CreatedAt:        time.Now().Add(time.Duration(i) * time.Minute),
		}
	}
	return cards
}

func TestStartSession_InvalidInput(t *testing.T) {
	_, _, _, svc := studyFixture()

	_, err := svc.StartSession(context.Background(), services.StartSessionInput{
		DeckID: 1, Mode: "backwards", Interaction: models.InteractionTest,
	})
	assert.Equal(t, apperrors.ErrCodeValidation, appError(t, err).Code)

	_, err = svc.StartSession(context.Background(), services.StartSessionInput{
		DeckID: 1, Mode: models.ModeSequential, Interaction: "karaoke",
	})
	assert.Equal(t, apperrors.ErrCodeValidation, appError(t, err).Code)
}

func TestStartSession_DeckNotFound(t *testing.T) {
	decks, _, _, svc := studyFixture()
	decks.On("Get", mock.Anything, int64(9)).Return(nil, nil)

	_, err := svc.StartSession(context.Background(), services.StartSessionInput{
		DeckID: 9, Mode: models.ModeSequential, Interaction: models.InteractionFlashcards,
	})
	assert.Equal(t, apperrors.ErrCodeNotFound, appError(t, err).Code)
}

func TestStartSession_EmptyDeck(t *testing.T) {
	decks, cards, _, svc := studyFixture()
	decks.On("Get", mock.Anything, int64(1)).Return(&models.Deck{ID: 1}, nil)
	cards.On("ListForDeck", mock.Anything, int64(1)).Return([]models.Card{}, nil)

	_, err := svc.StartSession(context.Background(), services.StartSessionInput{
		DeckID: 1, Mode: models.ModeSequential, Interaction: models.InteractionFlashcards,
	})
	assert.Equal(t, apperrors.ErrCodeValidation, appError(t, err).Code)
}

func TestStartSession_Lifecycle(t *testing.T) {
	decks, cards, _, svc := studyFixture()
	decks.On("Get", mock.Anything, int64(1)).Return(&models.Deck{ID: 1}, nil)
	cards.On("ListForDeck", mock.Anything, int64(1)).Return(deckCards(5), nil)

	sess, err := svc.StartSession(context.Background(), services.StartSessionInput{
		DeckID: 1, Mode: models.ModeSequential, Interaction: models.InteractionFlashcards,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, sess.State().Total)

	found, err := svc.GetSession(sess.ID())
	require.NoError(t, err)
	assert.Same(t, sess, found)

	require.NoError(t, svc.EndSession(sess.ID()))
	_, err = svc.GetSession(sess.ID())
	assert.Equal(t, apperrors.ErrCodeNotFound, appError(t, err).Code)

	// Abandoning leaves the session closed for anyone still holding it.
	_, err = sess.SelfRate(context.Background(), session.RatingEasy)
	assert.Error(t, err)
}

func TestStartSession_LimitTruncates(t *testing.T) {
	decks, cards, _, svc := studyFixture()
	decks.On("Get", mock.Anything, int64(1)).Return(&models.Deck{ID: 1}, nil)
	cards.On("ListForDeck", mock.Anything, int64(1)).Return(deckCards(10), nil)

	sess, err := svc.StartSession(context.Background(), services.StartSessionInput{
		DeckID: 1, Mode: models.ModeSequential, Interaction: models.InteractionTest, Limit: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, sess.State().Total)
}

func TestStartSession_AIQuizQueuesWarmup(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	cards := new(mocks.MockCardRepository)
	sessions := new(mocks.MockSessionRepository)
	pool := worker.NewPool(1, 4)
	svc := services.NewStudyService(decks, cards, sessions, distractor.NewProvider(nil, cards), pool)

	decks.On("Get", mock.Anything, int64(1)).Return(&models.Deck{ID: 1}, nil)
	cards.On("ListForDeck", mock.Anything, int64(1)).Return(deckCards(4), nil)

	_, err := svc.StartSession(context.Background(), services.StartSessionInput{
		DeckID: 1, Mode: models.ModeRandom, Interaction: models.InteractionAIQuiz,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, pool.QueueSize())
}

func TestSessionPersistsThroughRepositories(t *testing.T) {
	decks, cards, sessions, svc := studyFixture()
	decks.On("Get", mock.Anything, int64(1)).Return(&models.Deck{ID: 1}, nil)
	cards.On("ListForDeck", mock.Anything, int64(1)).Return(deckCards(1), nil)

	updated := deckCards(1)[0]
	updated.Repetitions = 1
	cards.On("UpdateReview", mock.Anything, int64(1), int64(1), mock.Anything).Return(&updated, nil)
	sessions.On("InsertSummary", mock.Anything, mock.MatchedBy(func(s models.StudySessionSummary) bool {
		return s.DeckID == 1 && s.CardsStudied == 1 && s.CorrectAnswers == 1
	})).Return(int64(1), nil)

	sess, err := svc.StartSession(context.Background(), services.StartSessionInput{
		DeckID: 1, Mode: models.ModeSequential, Interaction: models.InteractionFlashcards,
	})
	require.NoError(t, err)

	fb, err := sess.SelfRate(context.Background(), session.RatingEasy)
	require.NoError(t, err)
	assert.True(t, fb.Complete)

	cards.AssertExpectations(t)
	sessions.AssertExpectations(t)
}

func TestHistory(t *testing.T) {
	decks, _, sessions, svc := studyFixture()
	decks.On("Get", mock.Anything, int64(1)).Return(&models.Deck{ID: 1}, nil)
	sessions.On("ListForDeck", mock.Anything, int64(1)).Return([]models.StudySessionSummary{
		{ID: 2, DeckID: 1, CardsStudied: 4},
		{ID: 1, DeckID: 1, CardsStudied: 10},
	}, nil)

	summaries, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, int64(2), summaries[0].ID)
}
