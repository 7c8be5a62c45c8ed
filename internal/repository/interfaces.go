package repository

import (
	"context"

	"github.com/rafaelv/memoflash/internal/models"
)

// DeckRepository handles deck data access
type DeckRepository interface {
	Insert(ctx context.Context, name string) (*models.Deck, error)
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context) ([]models.Deck, error)
	Delete(ctx context.Context, id int64) error
}

// CardRepository handles card data access
type CardRepository interface {
	Insert(ctx context.Context, card models.Card) (int64, error)
	Get(ctx context.Context, deckID, cardID int64) (*models.Card, error)
	ListForDeck(ctx context.Context, deckID int64) ([]models.Card, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	// UpdateReview writes back the scheduling fields after a review and
	// returns the refreshed card. CreatedAt is preserved, UpdatedAt advances.
	UpdateReview(ctx context.Context, deckID, cardID int64, upd models.CardUpdate) (*models.Card, error)
	// CacheOptions stores generated distractors on the card.
	CacheOptions(ctx context.Context, deckID, cardID int64, options []string) error
}

// SessionRepository handles study session summaries
type SessionRepository interface {
	InsertSummary(ctx context.Context, summary models.StudySessionSummary) (int64, error)
	ListForDeck(ctx context.Context, deckID int64) ([]models.StudySessionSummary, error)
}
