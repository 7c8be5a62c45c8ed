package distractor

import (
	"context"
	"errors"
)

// Generation failure modes. The provider treats them all the same way and
// falls back locally, but callers that care can inspect them.
var (
	ErrNotConfigured     = errors.New("distractor generation is not configured")
	ErrRateLimited       = errors.New("distractor generation rate limited")
	ErrMalformedResponse = errors.New("distractor generation returned a malformed response")
)

// Generator produces plausible-but-wrong answers for a card. It is the
// boundary to the external text-generation collaborator and is always
// injected, never reached through a global.
type Generator interface {
	GenerateDistractors(ctx context.Context, front, correctAnswer string, count int) ([]string, error)
}
