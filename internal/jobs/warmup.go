package jobs

import (
	"context"
	"fmt"

	"github.com/rafaelv/memoflash/internal/distractor"
	"github.com/rafaelv/memoflash/internal/logger"
	"github.com/rafaelv/memoflash/internal/models"
)

// DistractorWarmupJob pre-generates multiple-choice distractors for the
// cards of an upcoming quiz so most are cached by the time they are shown.
// Generation failures are absorbed; the provider falls back at question
// time.
type DistractorWarmupJob struct {
	Provider *distractor.Provider
	DeckID   int64
	Cards    []models.Card
}

func (j *DistractorWarmupJob) Name() string {
	return fmt.Sprintf("distractor-warmup deck=%d", j.DeckID)
}

func (j *DistractorWarmupJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	pool := make([]string, len(j.Cards))
	for i, c := range j.Cards {
		pool[i] = c.Back
	}

	warmed := 0
	for _, card := range j.Cards {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if len(card.AIOptions) > 0 {
			continue
		}

		others := make([]string, 0, len(pool)-1)
		for _, back := range pool {
			if back != card.Back {
				others = append(others, back)
			}
		}

		_, source := j.Provider.ConfusingOptions(ctx, card, others, false)
		if source == distractor.SourceGenerated {
			warmed++
		}
	}

	log.Debug("warmed %d of %d cards", warmed, len(j.Cards))
	return nil
}
