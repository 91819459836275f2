package googlegenai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/RichardKnop/petrag"
)

func (a *Adapter) EmbedDocuments(ctx context.Context, documents []petrag.Document) ([]petrag.Vector, error) {
	contents := make([]*genai.Content, 0, len(documents))
	for _, aDocument := range documents {
		contents = append(contents, genai.NewContentFromText(aDocument.Content, genai.RoleUser))
	}

	a.logger.Sugar().Debugf("invoking embedding model with %d documents", len(documents))

	embedResponse, err := a.client.Models.EmbedContent(ctx,
		a.embeddingModel,
		contents,
		&genai.EmbedContentConfig{TaskType: "RETRIEVAL_DOCUMENT"},
	)
	if err != nil {
		return nil, fmt.Errorf("embed content error: %w", err)
	}

	if len(embedResponse.Embeddings) != len(documents) {
		return nil, fmt.Errorf("embedded batch size mismatch: got %d, expected %d", len(embedResponse.Embeddings), len(documents))
	}

	vectors := make([]petrag.Vector, 0, len(embedResponse.Embeddings))
	for _, embedding := range embedResponse.Embeddings {
		vectors = append(vectors, embedding.Values)
	}

	return vectors, nil
}

func (a *Adapter) EmbedContent(ctx context.Context, content string) (petrag.Vector, error) {
	embedResponse, err := a.client.Models.EmbedContent(ctx,
		a.embeddingModel,
		[]*genai.Content{genai.NewContentFromText(content, genai.RoleUser)},
		&genai.EmbedContentConfig{TaskType: "RETRIEVAL_QUERY"},
	)
	if err != nil {
		return nil, fmt.Errorf("embed content error: %w", err)
	}
	if len(embedResponse.Embeddings) == 0 {
		return nil, fmt.Errorf("embed content returned no embeddings")
	}
	return embedResponse.Embeddings[0].Values, nil
}
