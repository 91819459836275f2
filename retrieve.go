package petrag

import (
	"context"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"
)

// EvidenceRetriever finds the knowledge base documents nearest to a question.
type EvidenceRetriever struct {
	embedder    Embedder
	index       VectorIndex
	callTimeout time.Duration
	logger      *zap.Logger
}

// Retrieve returns at most topK results ordered by descending score. A failing
// embedder or index yields no results, which sends the pipeline to web search.
func (r *EvidenceRetriever) Retrieve(ctx context.Context, question string, topK int) []RetrievalResult {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if r.embedder == nil || r.index == nil {
		r.logger.Warn("retrieval skipped, no embedder or index configured")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	vector, err := r.embedder.EmbedContent(ctx, question)
	if err != nil {
		r.logger.Sugar().With("error", err, "embedder", r.embedder.Name()).Warn("embed question failed")
		return nil
	}

	results, err := r.index.SearchDocuments(ctx, DocumentFilter{Vector: vector}, topK)
	if err != nil {
		r.logger.Sugar().With("error", err, "index", r.index.Name()).Warn("search documents failed")
		return nil
	}

	results = slices.Clone(results)
	for i := range results {
		results[i].Score = clampScore(results[i].Score)
	}
	slices.SortStableFunc(results, func(a, b RetrievalResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if len(results) > topK {
		results = results[:topK]
	}

	r.logger.Sugar().With("results", len(results), "top_k", topK).Debug("retrieved documents")

	return results
}

func clampScore(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	return min(max(score, 0), 1)
}
