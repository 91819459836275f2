package wiring

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestPipelineConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("pipeline.top_k", 8)
	viper.Set("pipeline.accept_threshold", 0.8)
	viper.Set("pipeline.fallback_timeout", "5s")
	viper.Set("pipeline.call_timeout", "30s")

	cfg := PipelineConfig()

	assert.Equal(t, 8, cfg.TopK)
	assert.Equal(t, 0.8, cfg.AcceptThreshold)
	assert.Equal(t, 5*time.Second, cfg.FallbackTimeout)
	assert.Equal(t, 30*time.Second, cfg.CallTimeout)
	// Unset keys stay zero and are defaulted by the service.
	assert.Zero(t, cfg.MaxRewrites)
	assert.Zero(t, cfg.RelevanceThreshold)
}

func TestUnknownAdapters(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("adapter.embed.name", "word2vec")
	viper.Set("adapter.retrieve.name", "pgvector")

	_, _, err := NewEmbedder(nil, nil)
	assert.EqualError(t, err, "unknown embed adapter: word2vec")

	_, err = NewVectorIndex(t.Context(), nil)
	assert.EqualError(t, err, "unknown retrieve adapter: pgvector")
}
