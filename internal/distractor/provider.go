package distractor

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/rafaelv/memoflash/internal/logger"
	"github.com/rafaelv/memoflash/internal/models"
	"github.com/rafaelv/memoflash/internal/repository"
	"golang.org/x/sync/singleflight"
)

// OptionCount is the number of distractors a card carries.
const OptionCount = 3

// Source tags where a distractor set came from.
type Source string

const (
	SourceCached    Source = "cached"
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Provider serves the three wrong answers for a card: from the card's
// cache, from the generation collaborator, or from the deck itself as a
// local fallback. Failures are never fatal to a session.
type Provider struct {
	generator Generator // nil when generation is not configured
	cards     repository.CardRepository
	timeout   time.Duration
	group     singleflight.Group
	rng       *rand.Rand
}

// Option configures a Provider.
type Option func(*Provider)

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.timeout = d
	}
}

// WithRand sets the random source used by the fallback path.
func WithRand(rng *rand.Rand) Option {
	return func(p *Provider) {
		p.rng = rng
	}
}

// NewProvider creates a Provider. generator may be nil, in which case every
// request takes the fallback path.
func NewProvider(generator Generator, cards repository.CardRepository, opts ...Option) *Provider {
	p := &Provider{
		generator: generator,
		cards:     cards,
		timeout:   15 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ConfusingOptions returns exactly OptionCount wrong answers for the card
// (fewer only when the fallback pool is too small) and the source they came
// from. deckAnswers is the pool of other answers in the active deck used by
// the fallback path. Concurrent requests for the same card share one
// in-flight generation call.
func (p *Provider) ConfusingOptions(ctx context.Context, card models.Card, deckAnswers []string, regenerate bool) ([]string, Source) {
	log := logger.FromContext(ctx).WithPrefix("distractor")

	if !regenerate && len(card.AIOptions) == OptionCount {
		log.Debug("using cached options: card_id=%d", card.ID)
		return card.AIOptions, SourceCached
	}

	if p.generator != nil {
		options, err := p.generate(ctx, card)
		if err == nil {
			return options, SourceGenerated
		}
		log.Warn("generation failed, falling back: card_id=%d: %v", card.ID, err)
	}

	return p.fallback(card, deckAnswers), SourceFallback
}

func (p *Provider) generate(ctx context.Context, card models.Card) ([]string, error) {
	key := strconv.FormatInt(card.ID, 10)
	v, err, _ := p.group.Do(key, func() (any, error) {
		genCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		options, err := p.generator.GenerateDistractors(genCtx, card.Front, card.Back, OptionCount)
		if err != nil {
			return nil, err
		}
		if len(options) != OptionCount {
			return nil, ErrMalformedResponse
		}

		// Cache on the card; a failed write is not worth failing the
		// session over, the options are still usable.
		if err := p.cards.CacheOptions(ctx, card.DeckID, card.ID, options); err != nil {
			logger.FromContext(ctx).WithPrefix("distractor").
				Warn("failed to cache options: card_id=%d: %v", card.ID, err)
		}
		return options, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// fallback picks up to OptionCount distinct wrong answers from the deck.
func (p *Provider) fallback(card models.Card, deckAnswers []string) []string {
	var pool []string
	seen := map[string]struct{}{strings.ToLower(strings.TrimSpace(card.Back)): {}}
	for _, a := range deckAnswers {
		key := strings.ToLower(strings.TrimSpace(a))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		pool = append(pool, a)
	}

	shuffle := rand.Shuffle
	if p.rng != nil {
		shuffle = p.rng.Shuffle
	}
	shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if len(pool) > OptionCount {
		pool = pool[:OptionCount]
	}
	return pool
}
