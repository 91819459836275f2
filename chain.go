package petrag

import (
	"context"
	"errors"
)

// Tier records which link of a resolution chain produced a result.
type Tier string

const (
	TierHeuristic Tier = "heuristic"
	TierService   Tier = "service"
	TierDegraded  Tier = "degraded"
)

var errNoService = errors.New("no service configured")

// chain resolves a value with a cheap heuristic first, then a remote
// service, and finally a degraded default that cannot fail.
type chain[T any] struct {
	heuristic func(ctx context.Context) (T, bool)
	service   func(ctx context.Context) (T, error)
	degrade   func(ctx context.Context, cause error) T
}

// resolve returns the error that forced a degraded result, if any.
func (c chain[T]) resolve(ctx context.Context) (T, Tier, error) {
	if c.heuristic != nil {
		if v, ok := c.heuristic(ctx); ok {
			return v, TierHeuristic, nil
		}
	}

	cause := errNoService
	if c.service != nil {
		v, err := c.service(ctx)
		if err == nil {
			return v, TierService, nil
		}
		cause = err
	}

	return c.degrade(ctx, cause), TierDegraded, cause
}
