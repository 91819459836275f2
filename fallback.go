package petrag

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FallbackSearcher looks for external evidence when internal documents are
// not relevant enough.
type FallbackSearcher struct {
	web        WebSearcher
	maxResults int
	timeout    time.Duration
	logger     *zap.Logger
}

// Search returns at most maxResults snippets. Timeouts and provider errors
// yield no snippets instead of failing the pipeline.
func (f *FallbackSearcher) Search(ctx context.Context, question string) []Snippet {
	if f.web == nil {
		f.logger.Debug("web search skipped, no provider configured")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	query := ExpandQuery(question)
	snippets, err := f.web.Search(ctx, query, f.maxResults)
	if err != nil {
		f.logger.Sugar().With("error", err, "query", query).Warn("web search failed")
		return nil
	}

	filtered := make([]Snippet, 0, len(snippets))
	for _, s := range snippets {
		if strings.TrimSpace(s.Content) == "" {
			continue
		}
		s.RelevanceHint = clampScore(s.RelevanceHint)
		filtered = append(filtered, s)
	}
	if len(filtered) > f.maxResults {
		filtered = filtered[:f.maxResults]
	}

	f.logger.Sugar().With("query", query, "snippets", len(filtered)).Debug("web search completed")

	return filtered
}

// ExpandQuery adds species specific veterinary context to a question so web
// results lean towards veterinary sources.
func ExpandQuery(question string) string {
	question = strings.TrimSpace(question)
	switch {
	case containsAny(question, catKeywords):
		return question + " 고양이 수의학"
	case containsAny(question, dogKeywords):
		return question + " 강아지 수의학"
	default:
		return question + " 반려동물 수의학"
	}
}
