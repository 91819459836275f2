package rest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/RichardKnop/petrag"
)

type PetRag interface {
	Ask(ctx context.Context, query petrag.Query) (*petrag.Response, error)
	ListRuns(ctx context.Context, filter petrag.RunFilter, params petrag.SortParams) ([]*petrag.Run, error)
	FindRun(ctx context.Context, id petrag.RunID) (*petrag.Run, error)
}

type Adapter struct {
	petRag PetRag
	logger *zap.Logger
}

type Option func(*Adapter)

func New(petRag PetRag, options ...Option) *Adapter {
	a := &Adapter{
		petRag: petRag,
		logger: zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	return a
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

const (
	defaultTimeout = 3 * time.Second
	// Covers the worst case of grading, fallback search and two rewrites.
	askTimeout = 120 * time.Second
	// Questions are capped well below this by the service.
	maxRequestBody = 64 << 10
)
