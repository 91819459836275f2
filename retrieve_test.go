package petrag

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEvidenceRetriever_Retrieve(t *testing.T) {
	t.Parallel()

	index := &stubIndex{results: []RetrievalResult{
		{Document: Document{ID: "a"}, Score: 0.4},
		{Document: Document{ID: "b"}, Score: 1.3},
		{Document: Document{ID: "c"}, Score: 0.8},
		{Document: Document{ID: "d"}, Score: -0.2},
	}}
	r := &EvidenceRetriever{embedder: &stubEmbedder{}, index: index, callTimeout: time.Second, logger: zap.NewNop()}

	results := r.Retrieve(context.Background(), "강아지가 기침을 해요", 3)
	require.Len(t, results, 3)
	assert.Equal(t, 3, index.limit)

	var ids []string
	for i, result := range results {
		ids = append(ids, result.Document.ID)
		assert.True(t, result.Score >= 0 && result.Score <= 1)
		if i > 0 {
			assert.LessOrEqual(t, result.Score, results[i-1].Score)
		}
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
}

func TestEvidenceRetriever_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		embedder Embedder
		index    VectorIndex
	}{
		{"embedder fails", &stubEmbedder{err: errUnavailable}, &stubIndex{}},
		{"index fails", &stubEmbedder{}, &stubIndex{err: errUnavailable}},
		{"index misses", &stubEmbedder{}, &stubIndex{}},
		{"nothing configured", nil, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := &EvidenceRetriever{embedder: tc.embedder, index: tc.index, callTimeout: time.Second, logger: zap.NewNop()}
			assert.Empty(t, r.Retrieve(context.Background(), "강아지가 기침을 해요", 0))
		})
	}
}
