package sqlite

import (
	"context"
	"database/sql"

	"github.com/rafaelv/memoflash/internal/logger"
	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) InsertSummary(ctx context.Context, summary models.StudySessionSummary) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session summary: deck_id=%d, studied=%d", summary.DeckID, summary.CardsStudied)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO study_sessions (deck_id, started_at, ended_at, cards_studied, correct_answers)
VALUES (?, ?, ?, ?, ?)
`, summary.DeckID, summary.StartedAt, summary.EndedAt, summary.CardsStudied, summary.CorrectAnswers)
	if err != nil {
		log.Error("failed to insert session summary: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get summary id: %v", err)
		return 0, err
	}
	log.Debug("session summary inserted: id=%d", id)
	return id, nil
}

func (r *sessionRepository) ListForDeck(ctx context.Context, deckID int64) ([]models.StudySessionSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing session summaries: deck_id=%d", deckID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, deck_id, started_at, ended_at, cards_studied, correct_answers
FROM study_sessions
WHERE deck_id = ?
ORDER BY started_at DESC
`, deckID)
	if err != nil {
		log.Error("failed to list session summaries: %v", err)
		return nil, err
	}
	defer rows.Close()

	var summaries []models.StudySessionSummary
	for rows.Next() {
		var s models.StudySessionSummary
		if err := rows.Scan(&s.ID, &s.DeckID, &s.StartedAt, &s.EndedAt, &s.CardsStudied, &s.CorrectAnswers); err != nil {
			log.Error("failed to scan summary row: %v", err)
			return nil, err
		}
		summaries = append(summaries, s)
	}
	log.Debug("found %d session summaries", len(summaries))
	return summaries, rows.Err()
}
