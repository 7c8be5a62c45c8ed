package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findTile(tiles []session.Tile, text string) session.Tile {
	for _, t := range tiles {
		if t.Text == text {
			return t
		}
	}
	return session.Tile{}
}

func TestMatch_BoardLayout(t *testing.T) {
	s := newSession(t, testCards(3), models.InteractionMatch, &fakeSink{})

	board, err := s.MatchBoard()
	require.NoError(t, err)
	assert.Len(t, board.FrontTiles, 3)
	assert.Len(t, board.BackTiles, 3)
	assert.Equal(t, 3, board.TotalPairs)
	assert.Equal(t, 0, board.MatchedPairs)
	assert.False(t, board.Finished)
}

func TestMatch_CapsAtEightPairs(t *testing.T) {
	cards := make([]models.Card, 12)
	for i := range cards {
		cards[i] = models.Card{ID: int64(i + 1), DeckID: 1, Front: "f", Back: "b", EaseFactor: 2.5}
	}
	s := newSession(t, cards, models.InteractionMatch, &fakeSink{})

	board, err := s.MatchBoard()
	require.NoError(t, err)
	assert.Equal(t, 8, board.TotalPairs)
	assert.Len(t, board.FrontTiles, 8)
}

func TestMatch_PairMatchLocksTiles(t *testing.T) {
	s := newSession(t, testCards(3), models.InteractionMatch, &fakeSink{})
	board, _ := s.MatchBoard()

	front := findTile(board.FrontTiles, "Capital of France?")
	back := findTile(board.BackTiles, "Paris")

	fb, err := s.SelectMatchTile(front.ID)
	require.NoError(t, err)
	assert.False(t, fb.Matched)

	fb, err = s.SelectMatchTile(back.ID)
	require.NoError(t, err)
	assert.True(t, fb.Matched)
	assert.Equal(t, 1, fb.Board.MatchedPairs)

	// Matched tiles are locked from further selection.
	_, err = s.SelectMatchTile(front.ID)
	assert.Error(t, err)
}

func TestMatch_MismatchFlashesWrongThenClears(t *testing.T) {
	s := newSession(t, testCards(3), models.InteractionMatch, &fakeSink{})
	board, _ := s.MatchBoard()

	front := findTile(board.FrontTiles, "Capital of France?")
	wrongBack := findTile(board.BackTiles, "Rome")

	_, err := s.SelectMatchTile(front.ID)
	require.NoError(t, err)
	fb, err := s.SelectMatchTile(wrongBack.ID)
	require.NoError(t, err)
	assert.True(t, fb.Mismatch)

	cur := findTile(fb.Board.FrontTiles, "Capital of France?")
	assert.True(t, cur.Wrong)
	assert.False(t, cur.Matched)

	// The wrong flash clears on its own after the delay.
	require.Eventually(t, func() bool {
		b, err := s.MatchBoard()
		require.NoError(t, err)
		return !findTile(b.FrontTiles, "Capital of France?").Wrong
	}, time.Second, 2*time.Millisecond)
}

func TestMatch_SameSideSelectionReplaces(t *testing.T) {
	s := newSession(t, testCards(3), models.InteractionMatch, &fakeSink{})
	board, _ := s.MatchBoard()

	first := findTile(board.FrontTiles, "Capital of France?")
	second := findTile(board.FrontTiles, "Capital of Italy?")

	_, err := s.SelectMatchTile(first.ID)
	require.NoError(t, err)
	fb, err := s.SelectMatchTile(second.ID)
	require.NoError(t, err)

	assert.False(t, findTile(fb.Board.FrontTiles, "Capital of France?").Selected)
	assert.True(t, findTile(fb.Board.FrontTiles, "Capital of Italy?").Selected)
}

func TestMatch_CompletionRecordsWholeSet(t *testing.T) {
	sink := &fakeSink{}
	cards := testCards(2)
	s := newSession(t, cards, models.InteractionMatch, sink)
	board, _ := s.MatchBoard()

	for _, c := range cards {
		front := findTile(board.FrontTiles, c.Front)
		back := findTile(board.BackTiles, c.Back)
		_, err := s.SelectMatchTile(front.ID)
		require.NoError(t, err)
		fb, err := s.SelectMatchTile(back.ID)
		require.NoError(t, err)
		assert.True(t, fb.Matched)
	}

	b, err := s.MatchBoard()
	require.NoError(t, err)
	assert.True(t, b.Finished)
	assert.False(t, s.State().Complete, "completion waits for the display delay")

	require.Eventually(t, func() bool {
		return s.State().Complete
	}, time.Second, 2*time.Millisecond)

	state := s.State()
	assert.Equal(t, 2, state.CardsStudied)
	assert.Equal(t, 2, state.CorrectAnswers)

	// Matching is a drill: no per-card scheduling updates, one summary.
	assert.Equal(t, 0, sink.updateCount())
	require.Equal(t, 1, sink.summaryCount())
	assert.Equal(t, 2, sink.summaries[0].CardsStudied)
	assert.Equal(t, 2, sink.summaries[0].CorrectAnswers)
}

func TestMatch_ResetRebuildsBoard(t *testing.T) {
	sink := &fakeSink{}
	cards := testCards(2)
	s := newSession(t, cards, models.InteractionMatch, sink)
	board, _ := s.MatchBoard()

	front := findTile(board.FrontTiles, cards[0].Front)
	back := findTile(board.BackTiles, cards[0].Back)
	_, err := s.SelectMatchTile(front.ID)
	require.NoError(t, err)
	_, err = s.SelectMatchTile(back.ID)
	require.NoError(t, err)

	s.Reset()

	b, err := s.MatchBoard()
	require.NoError(t, err)
	assert.Equal(t, 0, b.MatchedPairs)
	for _, tile := range append(b.FrontTiles, b.BackTiles...) {
		assert.False(t, tile.Matched)
		assert.False(t, tile.Selected)
	}
}

func TestMatch_AnswerEndpointsRejected(t *testing.T) {
	s := newSession(t, testCards(2), models.InteractionMatch, &fakeSink{})

	_, err := s.SubmitAnswer(context.Background(), "Paris")
	assert.Error(t, err)
	_, err = s.CurrentQuestion(context.Background())
	assert.Error(t, err)
}

func TestNonMatchSession_RejectsTiles(t *testing.T) {
	s := newSession(t, testCards(2), models.InteractionTest, &fakeSink{})

	_, err := s.SelectMatchTile(1)
	assert.Error(t, err)
	_, err = s.MatchBoard()
	assert.Error(t, err)
}
