package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/rafaelv/memoflash/internal/logger"
	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const cardColumns = `id, deck_id, front, back, front_image, back_image, ease_factor, interval_days, repetitions,
       next_review_at, last_reviewed_at, difficulty, answer_validation, ai_options, created_at, updated_at`

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var c models.Card
	var lastReviewed sql.NullTime
	var aiOptions string
	err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.FrontImage, &c.BackImage,
		&c.EaseFactor, &c.IntervalDays, &c.Repetitions, &c.NextReviewAt, &lastReviewed,
		&c.Difficulty, &c.AnswerValidation, &aiOptions, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastReviewed.Valid {
		c.LastReviewedAt = &lastReviewed.Time
	}
	if aiOptions != "" && aiOptions != "[]" {
		if err := json.Unmarshal([]byte(aiOptions), &c.AIOptions); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func marshalOptions(options []string) (string, error) {
	if len(options) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(options)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *cardRepository) Insert(ctx context.Context, card models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: deck_id=%d", card.DeckID)

	aiOptions, err := marshalOptions(card.AIOptions)
	if err != nil {
		log.Error("failed to encode ai options: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO cards (
    deck_id, front, back, front_image, back_image, ease_factor, interval_days, repetitions,
    next_review_at, difficulty, answer_validation, ai_options
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, card.DeckID, card.Front, card.Back, card.FrontImage, card.BackImage, card.EaseFactor,
		card.IntervalDays, card.Repetitions, card.NextReviewAt, card.Difficulty, card.AnswerValidation, aiOptions)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get card id: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) Get(ctx context.Context, deckID, cardID int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: deck_id=%d, card_id=%d", deckID, cardID)

	row := r.db.QueryRowContext(ctx, `
SELECT `+cardColumns+`
FROM cards
WHERE id = ? AND deck_id = ?
`, cardID, deckID)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: card_id=%d", cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) ListForDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	return r.List(ctx, models.CardFilter{DeckID: deckID})
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: deck_id=%d, difficulty=%s, due_only=%v", filter.DeckID, filter.Difficulty, filter.DueOnly)

	query := sqlBuilder.Select(
		"id", "deck_id", "front", "back", "front_image", "back_image", "ease_factor",
		"interval_days", "repetitions", "next_review_at", "last_reviewed_at",
		"difficulty", "answer_validation", "ai_options", "created_at", "updated_at",
	).From("cards")

	if filter.DeckID != 0 {
		query = query.Where(squirrel.Eq{"deck_id": filter.DeckID})
	}
	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}
	if filter.DueOnly {
		query = query.Where(squirrel.Expr("next_review_at <= CURRENT_TIMESTAMP"))
	}

	query = query.OrderBy("created_at ASC, id ASC")

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, *c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) UpdateReview(ctx context.Context, deckID, cardID int64, upd models.CardUpdate) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating review: card_id=%d, interval=%d, ease=%.2f", cardID, upd.IntervalDays, upd.EaseFactor)

	var updated *models.Card
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE cards
SET ease_factor = ?, interval_days = ?, repetitions = ?, next_review_at = ?,
    last_reviewed_at = ?, difficulty = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND deck_id = ?
`, upd.EaseFactor, upd.IntervalDays, upd.Repetitions, upd.NextReviewAt, upd.LastReviewedAt, upd.Difficulty, cardID, deckID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return sql.ErrNoRows
		}

		row := tx.QueryRowContext(ctx, `
SELECT `+cardColumns+`
FROM cards
WHERE id = ? AND deck_id = ?
`, cardID, deckID)
		updated, err = scanCard(row)
		return err
	})
	if err != nil {
		log.Error("failed to update review: card_id=%d: %v", cardID, err)
		return nil, err
	}
	return updated, nil
}

func (r *cardRepository) CacheOptions(ctx context.Context, deckID, cardID int64, options []string) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("caching options: card_id=%d, count=%d", cardID, len(options))

	aiOptions, err := marshalOptions(options)
	if err != nil {
		log.Error("failed to encode ai options: %v", err)
		return err
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE cards
SET ai_options = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND deck_id = ?
`, aiOptions, cardID, deckID)
	if err != nil {
		log.Error("failed to cache options: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
