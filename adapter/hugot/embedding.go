package hugot

import (
	"context"
	"fmt"

	"github.com/RichardKnop/petrag"
)

func (a *Adapter) EmbedDocuments(ctx context.Context, documents []petrag.Document) ([]petrag.Vector, error) {
	sentences := make([]string, 0, len(documents))
	for _, aDocument := range documents {
		sentences = append(sentences, aDocument.Content)
	}

	embeddings, err := a.embed(ctx, sentences)
	if err != nil {
		return nil, err
	}

	if len(embeddings) != len(documents) {
		return nil, fmt.Errorf("embedded batch size mismatch: got %d, expected %d", len(embeddings), len(documents))
	}

	return embeddings, nil
}

func (a *Adapter) EmbedContent(ctx context.Context, content string) (petrag.Vector, error) {
	embeddings, err := a.embed(ctx, []string{content})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding pipeline returned no vectors")
	}
	return embeddings[0], nil
}

// embed runs the pipeline, which is not context aware, and gives up waiting
// once ctx is done.
func (a *Adapter) embed(ctx context.Context, inputs []string) ([]petrag.Vector, error) {
	type result struct {
		vectors []petrag.Vector
		err     error
	}

	done := make(chan result, 1)
	go func() {
		output, err := a.embedding.RunPipeline(inputs)
		if err != nil {
			done <- result{err: fmt.Errorf("running embedding pipeline: %w", err)}
			return
		}
		vectors := make([]petrag.Vector, 0, len(output.Embeddings))
		for _, e := range output.Embeddings {
			vectors = append(vectors, e)
		}
		done <- result{vectors: vectors}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.vectors, r.err
	}
}
