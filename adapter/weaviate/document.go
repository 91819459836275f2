package weaviate

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/RichardKnop/petrag"
)

func (a *Adapter) SaveDocuments(ctx context.Context, documents []petrag.Document, vectors []petrag.Vector) error {
	if len(documents) != len(vectors) {
		return fmt.Errorf("documents and vectors must have the same length")
	}

	objects := make([]*models.Object, len(documents))
	for i, doc := range documents {
		if len(vectors[i]) == 0 {
			return fmt.Errorf("empty vector")
		}

		metadata, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("error encoding metadata of document %s: %w", doc.ID, err)
		}

		objects[i] = &models.Object{
			Class: a.className,
			Properties: map[string]any{
				"doc_id":      doc.ID,
				"content":     doc.Content,
				"source_type": string(doc.SourceType()),
				"metadata":    string(metadata),
			},
			Vector: models.C11yVector(vectors[i]),
		}
	}

	if _, err := a.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx); err != nil {
		return err
	}

	a.logger.Sugar().With("objects", len(objects)).Debug("stored objects in weaviate")

	return nil
}

func (a *Adapter) SearchDocuments(ctx context.Context, filter petrag.DocumentFilter, limit int) ([]petrag.RetrievalResult, error) {
	if filter.Vector == nil {
		return nil, fmt.Errorf("vector is required for searching documents")
	}

	gql := a.client.GraphQL()
	nearVector := gql.NearVectorArgBuilder().WithVector([]float32(filter.Vector))

	graphqlResponse, err := gql.Get().
		WithNearVector(nearVector).
		WithClassName(a.className).
		WithFields(
			graphql.Field{Name: "doc_id"},
			graphql.Field{Name: "content"},
			graphql.Field{Name: "metadata"},
			graphql.Field{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
		).
		WithLimit(limit).
		Do(ctx)
	if err := combinedWeaviateError(graphqlResponse, err); err != nil {
		return nil, err
	}

	return decodeGetDocumentResults(graphqlResponse, a.className)
}

// decodeGetDocumentResults decodes the nested maps returned by a GraphQL Get query.
func decodeGetDocumentResults(graphqlResponse *models.GraphQLResponse, className string) ([]petrag.RetrievalResult, error) {
	data, ok := graphqlResponse.Data["Get"]
	if !ok {
		return nil, fmt.Errorf("get key not found in result")
	}
	doc, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("get key unexpected type")
	}
	slc, ok := doc[className].([]any)
	if !ok {
		return nil, fmt.Errorf("%s is not a list of results", className)
	}

	out := make([]petrag.RetrievalResult, 0, len(slc))
	for _, s := range slc {
		smap, ok := s.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid element in list of documents")
		}
		content, ok := smap["content"].(string)
		if !ok {
			return nil, fmt.Errorf("expected content in document")
		}
		id, _ := smap["doc_id"].(string)

		var metadata petrag.Metadata
		if raw, _ := smap["metadata"].(string); raw != "" && raw != "null" {
			if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
				return nil, fmt.Errorf("invalid metadata in document: %w", err)
			}
		}

		var certainty float64
		if additional, ok := smap["_additional"].(map[string]any); ok {
			certainty, _ = additional["certainty"].(float64)
		}

		out = append(out, petrag.RetrievalResult{
			Document: petrag.Document{
				ID:       id,
				Content:  content,
				Metadata: metadata,
			},
			Score: math.Max(0, math.Min(1, certainty)),
		})
	}

	return out, nil
}

// combinedWeaviateError merges the transport error and GraphQL errors of a Do call.
func combinedWeaviateError(graphqlResponse *models.GraphQLResponse, err error) error {
	if err != nil {
		return err
	}
	if len(graphqlResponse.Errors) != 0 {
		var ss []string
		for _, e := range graphqlResponse.Errors {
			ss = append(ss, e.Message)
		}
		return fmt.Errorf("weaviate error: %v", ss)
	}
	return nil
}
