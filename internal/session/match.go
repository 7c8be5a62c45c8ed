package session

import (
	"context"
	"time"

	"github.com/rafaelv/memoflash/internal/errors"
	"github.com/rafaelv/memoflash/internal/models"
)

// maxMatchPairs caps the board size of the pairing game.
const maxMatchPairs = 8

// TileSide says which half of a pair a tile shows.
type TileSide string

const (
	TileFront TileSide = "front"
	TileBack  TileSide = "back"
)

// Tile is one selectable element on the match board.
type Tile struct {
	ID       int      `json:"id"`
	Side     TileSide `json:"side"`
	Text     string   `json:"text"`
	Matched  bool     `json:"matched"`
	Wrong    bool     `json:"wrong"`
	Selected bool     `json:"selected"`

	pairIndex int
}

// Board is a snapshot of the match game for the application layer.
type Board struct {
	FrontTiles   []Tile        `json:"front_tiles"`
	BackTiles    []Tile        `json:"back_tiles"`
	MatchedPairs int           `json:"matched_pairs"`
	TotalPairs   int           `json:"total_pairs"`
	Elapsed      time.Duration `json:"elapsed"`
	Finished     bool          `json:"finished"`
}

// MatchFeedback reports the outcome of a tile selection.
type MatchFeedback struct {
	Matched   bool  `json:"matched"`
	Mismatch  bool  `json:"mismatch"`
	Completed bool  `json:"completed"`
	Board     Board `json:"board"`
}

// matchState holds the pairing-game state. Tile selection does not fit the
// linear per-card flow of the other modes, so it lives apart from the
// session pointer.
type matchState struct {
	frontTiles    []Tile
	backTiles     []Tile
	selectedFront int // tile id, -1 when none
	selectedBack  int
	matchedPairs  int
	totalPairs    int
	startedAt     time.Time
	finishedIn    time.Duration
	finished      bool
}

// newMatchState takes the first pairs of the ordered sequence and lays out
// two independently shuffled tile lists referencing them by pair index.
func newMatchState(cards []models.Card, shuffle func(n int, swap func(i, j int))) *matchState {
	pairs := len(cards)
	if pairs > maxMatchPairs {
		pairs = maxMatchPairs
	}

	m := &matchState{
		selectedFront: -1,
		selectedBack:  -1,
		totalPairs:    pairs,
		startedAt:     time.Now(),
	}
	for i := 0; i < pairs; i++ {
		m.frontTiles = append(m.frontTiles, Tile{ID: i + 1, Side: TileFront, Text: cards[i].Front, pairIndex: i})
		m.backTiles = append(m.backTiles, Tile{ID: pairs + i + 1, Side: TileBack, Text: cards[i].Back, pairIndex: i})
	}
	shuffle(len(m.frontTiles), func(i, j int) {
		m.frontTiles[i], m.frontTiles[j] = m.frontTiles[j], m.frontTiles[i]
	})
	shuffle(len(m.backTiles), func(i, j int) {
		m.backTiles[i], m.backTiles[j] = m.backTiles[j], m.backTiles[i]
	})
	return m
}

func (m *matchState) tile(id int) *Tile {
	for i := range m.frontTiles {
		if m.frontTiles[i].ID == id {
			return &m.frontTiles[i]
		}
	}
	for i := range m.backTiles {
		if m.backTiles[i].ID == id {
			return &m.backTiles[i]
		}
	}
	return nil
}

func (m *matchState) clearSelection() {
	if t := m.tile(m.selectedFront); t != nil {
		t.Selected = false
	}
	if t := m.tile(m.selectedBack); t != nil {
		t.Selected = false
	}
	m.selectedFront = -1
	m.selectedBack = -1
}

func (m *matchState) clearWrong() {
	for i := range m.frontTiles {
		m.frontTiles[i].Wrong = false
	}
	for i := range m.backTiles {
		m.backTiles[i].Wrong = false
	}
}

func (m *matchState) board() Board {
	elapsed := m.finishedIn
	if !m.finished {
		elapsed = time.Since(m.startedAt)
	}
	return Board{
		FrontTiles:   append([]Tile(nil), m.frontTiles...),
		BackTiles:    append([]Tile(nil), m.backTiles...),
		MatchedPairs: m.matchedPairs,
		TotalPairs:   m.totalPairs,
		Elapsed:      elapsed,
		Finished:     m.finished,
	}
}

// MatchBoard returns the current board snapshot.
func (s *Session) MatchBoard() (Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.match == nil {
		return Board{}, errors.NewBadRequestError("not a match session")
	}
	return s.match.board(), nil
}

// SelectMatchTile registers a tile pick. Selecting a front and a back tile
// compares their underlying pair: a match locks both tiles, a mismatch
// flashes them wrong and clears after a short delay. When the last pair
// matches, the timer stops and the session completes shortly after, with
// the whole set recorded as studied and correct.
func (s *Session) SelectMatchTile(tileID int) (*MatchFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return nil, errors.NewConflictError("session is complete")
	}
	if s.match == nil {
		return nil, errors.NewBadRequestError("not a match session")
	}

	m := s.match
	t := m.tile(tileID)
	if t == nil {
		return nil, errors.NewNotFoundError("tile", tileID)
	}
	if t.Matched {
		return nil, errors.NewBadRequestError("tile is already matched")
	}
	if t.Wrong {
		return nil, errors.NewBadRequestError("tile is clearing, try again")
	}

	// Picking a second tile on the same side replaces the selection.
	if t.Side == TileFront {
		if prev := m.tile(m.selectedFront); prev != nil {
			prev.Selected = false
		}
		m.selectedFront = t.ID
	} else {
		if prev := m.tile(m.selectedBack); prev != nil {
			prev.Selected = false
		}
		m.selectedBack = t.ID
	}
	t.Selected = true

	fb := &MatchFeedback{}
	front := m.tile(m.selectedFront)
	back := m.tile(m.selectedBack)
	if front != nil && back != nil {
		if front.pairIndex == back.pairIndex {
			front.Matched = true
			back.Matched = true
			m.clearSelection()
			m.matchedPairs++
			fb.Matched = true

			if m.matchedPairs == m.totalPairs {
				m.finished = true
				m.finishedIn = time.Since(m.startedAt)
				fb.Completed = true
				s.log.Info("match board cleared in %v", m.finishedIn)
				s.afterLocked(s.completeDelay, func() {
					s.completeMatchLocked()
				})
			}
		} else {
			front.Wrong = true
			back.Wrong = true
			m.clearSelection()
			fb.Mismatch = true
			s.afterLocked(s.mismatchDelay, func() {
				m.clearWrong()
			})
		}
	}

	fb.Board = m.board()
	return fb, nil
}

// completeMatchLocked records the whole set as successfully studied.
// Matching is a drilling game, not a graded review: no per-card
// scheduling update happens here.
func (s *Session) completeMatchLocked() {
	s.cardsStudied = s.match.totalPairs
	s.correctAnswers = s.match.totalPairs
	s.index = len(s.cards)
	if err := s.completeLocked(context.Background()); err != nil {
		s.log.Error("failed to complete match session: %v", err)
	}
}
