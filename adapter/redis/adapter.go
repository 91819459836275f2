package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Adapter struct {
	client               *redis.Client
	indexName            string
	indexPrefix          string
	dialectVersion       int
	vectorDim            int
	vectorDistanceMetric string
	logger               *zap.Logger
}

type Option func(*Adapter)

const (
	defaultIndexName            = "petrag-idx"
	defaultIndexPrefix          = "kb:"
	defaultDialectVersion       = 2
	defaultVectorDim            = 768
	defaultVectorDistanceMetric = MetricCosine
)

// Distance metrics supported by redis vector fields.
const (
	MetricCosine = "COSINE"
	MetricIP     = "IP"
	MetricL2     = "L2"
)

func New(ctx context.Context, client *redis.Client, options ...Option) (*Adapter, error) {
	a := &Adapter{
		client:               client,
		indexPrefix:          defaultIndexPrefix,
		indexName:            defaultIndexName,
		dialectVersion:       defaultDialectVersion,
		vectorDim:            defaultVectorDim,
		vectorDistanceMetric: defaultVectorDistanceMetric,
		logger:               zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	// Embedding models differ in dimensions, each gets its own index.
	a.indexName = fmt.Sprintf("%s_dim%d", a.indexName, a.vectorDim)

	a.logger.Sugar().With(
		"index_name", a.indexName,
		"prefix", a.indexPrefix,
		"dialect_version", a.dialectVersion,
		"vector_dim", a.vectorDim,
		"vector_distance_metric", a.vectorDistanceMetric,
	).Info("init redis adapter")

	return a, a.init(ctx)
}

func WithIndexName(indexName string) Option {
	return func(a *Adapter) {
		a.indexName = indexName
	}
}

func WithIndexPrefix(prefix string) Option {
	return func(a *Adapter) {
		a.indexPrefix = prefix
	}
}

func WithDialectVersion(version int) Option {
	return func(a *Adapter) {
		a.dialectVersion = version
	}
}

func WithVectorDim(dim int) Option {
	return func(a *Adapter) {
		a.vectorDim = dim
	}
}

func WithVectorDistanceMetric(metric string) Option {
	return func(a *Adapter) {
		a.vectorDistanceMetric = metric
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

const adapterName = "redis"

func (a *Adapter) Name() string {
	return adapterName
}

func (a *Adapter) init(ctx context.Context) error {
	indexes, err := a.client.FT_List(ctx).Result()
	if err != nil {
		return fmt.Errorf("error listing redis indexes: %w", err)
	}
	for _, existingIndex := range indexes {
		if existingIndex == a.indexName {
			a.logger.Sugar().With("index_name", a.indexName).Debug("redis index already exists")
			return nil
		}
	}
	return a.createIndex(ctx)
}

func (a *Adapter) createIndex(ctx context.Context) error {
	_, err := a.client.FTCreate(ctx,
		a.indexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []any{a.indexPrefix},
		},
		&redis.FieldSchema{
			FieldName: "content",
			FieldType: redis.SearchFieldTypeText,
		},
		&redis.FieldSchema{
			FieldName: "source_type",
			FieldType: redis.SearchFieldTypeTag,
		},
		&redis.FieldSchema{
			FieldName: "embedding",
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				HNSWOptions: &redis.FTHNSWOptions{
					Dim:            a.vectorDim,
					DistanceMetric: a.vectorDistanceMetric,
					Type:           "FLOAT32",
				},
			},
		},
	).Result()
	if err != nil {
		return fmt.Errorf("error creating redis index: %w", err)
	}
	a.logger.Sugar().With("index_name", a.indexName).Info("created redis index")
	return nil
}
