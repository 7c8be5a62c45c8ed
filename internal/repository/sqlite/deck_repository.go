package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rafaelv/memoflash/internal/logger"
	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Insert(ctx context.Context, name string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: name=%s", name)

	res, err := r.db.ExecContext(ctx, `INSERT INTO decks (name) VALUES (?)`, name)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get deck id: %v", err)
		return nil, err
	}
	log.Debug("deck inserted: id=%d", id)
	return r.Get(ctx, id)
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	var d models.Deck
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, created_at
FROM decks
WHERE id = ?
`, id).Scan(&d.ID, &d.Name, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) List(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, created_at
FROM decks
ORDER BY created_at ASC, id ASC
`)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var d models.Deck
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug("deck not found: id=%d", id)
		return sql.ErrNoRows
	}
	return nil
}
