// Package wiring builds adapters from viper configuration for the binaries.
package wiring

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/RichardKnop/petrag"
	googlegenai "github.com/RichardKnop/petrag/adapter/google-genai"
	hugotAdapter "github.com/RichardKnop/petrag/adapter/hugot"
	redisAdapter "github.com/RichardKnop/petrag/adapter/redis"
	weaviateAdapter "github.com/RichardKnop/petrag/adapter/weaviate"
)

// LoadConfig reads config.yaml from the working directory or cmd/petrag,
// with environment variables overriding keys (pipeline.top_k -> PIPELINE_TOP_K).
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("cmd/petrag")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return viper.ReadInConfig()
}

func NewLogger() (*zap.Logger, error) {
	if viper.GetBool("log.development") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func PipelineConfig() petrag.Config {
	return petrag.Config{
		TopK:               viper.GetInt("pipeline.top_k"),
		RelevanceThreshold: viper.GetFloat64("pipeline.relevance_threshold"),
		AcceptThreshold:    viper.GetFloat64("pipeline.accept_threshold"),
		RewriteThreshold:   viper.GetFloat64("pipeline.rewrite_threshold"),
		MaxRewrites:        viper.GetInt("pipeline.max_rewrites"),
		MaxEvidence:        viper.GetInt("pipeline.max_evidence"),
		FallbackMaxResults: viper.GetInt("pipeline.fallback_max_results"),
		FallbackTimeout:    viper.GetDuration("pipeline.fallback_timeout"),
		FacilityRadius:     viper.GetInt("pipeline.facility_radius"),
		FacilityLimit:      viper.GetInt("pipeline.facility_limit"),
		GradeConcurrency:   viper.GetInt("pipeline.grade_concurrency"),
		CallTimeout:        viper.GetDuration("pipeline.call_timeout"),
		KeywordRatio:       viper.GetFloat64("pipeline.keyword_ratio"),
		MinDocumentScore:   viper.GetFloat64("pipeline.min_document_score"),
	}
}

func OpenDB(logger *zap.Logger) (*sql.DB, error) {
	dbConnOpts := url.Values{}
	dbConnOpts.Set("_fk", "true")
	dbConnOpts.Set("_journal", "WAL")
	dbConnOpts.Set("_timeout", "5000")

	logger.Sugar().With("db", viper.GetString("db.name"), "opts", dbConnOpts.Encode()).Info("connecting to db")

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", viper.GetString("db.name"), dbConnOpts.Encode()))
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// NewEmbedder returns the configured embedder and a cleanup function.
func NewEmbedder(genaiClient *genai.Client, logger *zap.Logger) (petrag.Embedder, func(), error) {
	switch name := viper.GetString("adapter.embed.name"); name {
	case "google-genai":
		a, err := googlegenai.New(
			genaiClient,
			googlegenai.WithEmbeddingModel(viper.GetString("adapter.embed.model")),
			googlegenai.WithLogger(logger),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("google genai adapter: %w", err)
		}
		return a, func() {}, nil
	case "hugot":
		session, err := hugot.NewGoSession()
		if err != nil {
			return nil, nil, fmt.Errorf("hugot session: %w", err)
		}
		cleanup := func() {
			if err := session.Destroy(); err != nil {
				logger.Sugar().With("error", err).Error("hugot session destroy")
			}
		}
		a, err := hugotAdapter.New(
			session,
			hugotAdapter.WithModel(viper.GetString("adapter.embed.model")),
			hugotAdapter.WithModelsDir(viper.GetString("hugot.models_dir")),
			hugotAdapter.WithLogger(logger),
		)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("hugot adapter: %w", err)
		}
		return a, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown embed adapter: %s", name)
	}
}

func NewVectorIndex(ctx context.Context, logger *zap.Logger) (petrag.VectorIndex, error) {
	switch name := viper.GetString("adapter.retrieve.name"); name {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			Protocol: viper.GetInt("redis.protocol"),
		})
		return redisAdapter.New(
			ctx,
			rdb,
			redisAdapter.WithIndexName(viper.GetString("redis.index")),
			redisAdapter.WithIndexPrefix(viper.GetString("redis.index_prefix")),
			redisAdapter.WithDialectVersion(viper.GetInt("redis.protocol")),
			redisAdapter.WithVectorDim(viper.GetInt("redis.vector_dim")),
			redisAdapter.WithVectorDistanceMetric(viper.GetString("redis.vector_distance_metric")),
			redisAdapter.WithLogger(logger),
		)
	case "weaviate":
		client, err := weaviate.NewClient(weaviate.Config{
			Host:   viper.GetString("weaviate.host"),
			Scheme: viper.GetString("weaviate.scheme"),
		})
		if err != nil {
			return nil, fmt.Errorf("weaviate client: %w", err)
		}
		return weaviateAdapter.New(
			ctx,
			client,
			weaviateAdapter.WithClassName(viper.GetString("weaviate.class")),
			weaviateAdapter.WithLogger(logger),
		)
	default:
		return nil, fmt.Errorf("unknown retrieve adapter: %s", name)
	}
}
