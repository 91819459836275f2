package weaviate

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"
	"go.uber.org/zap"
)

type Adapter struct {
	client    *weaviate.Client
	className string
	logger    *zap.Logger
}

type Option func(*Adapter)

const defaultClassName = "KnowledgeDocument"

func New(ctx context.Context, client *weaviate.Client, options ...Option) (*Adapter, error) {
	a := &Adapter{
		client:    client,
		className: defaultClassName,
		logger:    zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	a.logger.Sugar().With("class_name", a.className).Info("init weaviate adapter")

	return a, a.init(ctx)
}

func WithClassName(name string) Option {
	return func(a *Adapter) {
		a.className = name
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

const adapterName = "weaviate"

func (a *Adapter) Name() string {
	return adapterName
}

func (a *Adapter) init(ctx context.Context) error {
	// Vectors come from our own embedder, weaviate must not vectorize.
	cls := &models.Class{
		Class:      a.className,
		Vectorizer: "none",
		Properties: []*models.Property{
			{Name: "doc_id", DataType: []string{"text"}},
			{Name: "content", DataType: []string{"text"}},
			{Name: "source_type", DataType: []string{"text"}},
			{Name: "metadata", DataType: []string{"text"}},
		},
	}

	exists, err := a.client.Schema().ClassExistenceChecker().WithClassName(cls.Class).Do(ctx)
	if err != nil {
		return fmt.Errorf("weaviate error: %w", err)
	}
	if exists {
		return nil
	}

	if err := a.client.Schema().ClassCreator().WithClass(cls).Do(ctx); err != nil {
		return fmt.Errorf("weaviate error: %w", err)
	}
	a.logger.Sugar().With("class_name", a.className).Info("created weaviate class")

	return nil
}
