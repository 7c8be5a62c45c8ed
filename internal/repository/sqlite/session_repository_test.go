package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/repository"
	"github.com/rafaelv/memoflash/internal/repository/sqlite"
	"github.com/rafaelv/memoflash/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type SessionRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	repo  repository.SessionRepository
	decks repository.DeckRepository
}

func (s *SessionRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSessionRepository(s.db)
	s.decks = sqlite.NewDeckRepository(s.db)
}

func (s *SessionRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SessionRepositorySuite) TestInsertAndList() {
	ctx := context.Background()

	deck, err := s.decks.Insert(ctx, "Geography")
	s.Require().NoError(err)

	earlier := time.Now().UTC().Add(-time.Hour)
	id, err := s.repo.InsertSummary(ctx, models.StudySessionSummary{
		DeckID:         deck.ID,
		StartedAt:      earlier,
		EndedAt:        earlier.Add(10 * time.Minute),
		CardsStudied:   10,
		CorrectAnswers: 8,
	})
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	later := time.Now().UTC()
	_, err = s.repo.InsertSummary(ctx, models.StudySessionSummary{
		DeckID:         deck.ID,
		StartedAt:      later,
		EndedAt:        later.Add(5 * time.Minute),
		CardsStudied:   4,
		CorrectAnswers: 4,
	})
	s.Require().NoError(err)

	summaries, err := s.repo.ListForDeck(ctx, deck.ID)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)

	// Newest first.
	s.Assert().Equal(4, summaries[0].CardsStudied)
	s.Assert().Equal(10, summaries[1].CardsStudied)
	s.Assert().WithinDuration(earlier, summaries[1].StartedAt, time.Second)
}

func (s *SessionRepositorySuite) TestListEmptyDeck() {
	ctx := context.Background()

	deck, err := s.decks.Insert(ctx, "Geography")
	s.Require().NoError(err)

	summaries, err := s.repo.ListForDeck(ctx, deck.ID)
	s.Require().NoError(err)
	s.Assert().Empty(summaries)
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}
