package redis

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"

	"github.com/RichardKnop/petrag"
)

const distanceField = "vector_distance"

func (a *Adapter) SaveDocuments(ctx context.Context, documents []petrag.Document, vectors []petrag.Vector) error {
	if len(documents) != len(vectors) {
		return fmt.Errorf("documents and vectors must have the same length")
	}

	for i, vector := range vectors {
		doc := documents[i]
		if doc.ID == "" {
			doc.ID = uuid.Must(uuid.NewV4()).String()
		}
		metadata, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("error encoding metadata of document %s: %w", doc.ID, err)
		}

		// Keyed by document ID so that re-ingesting a document overwrites it.
		key := a.indexPrefix + doc.ID
		if _, err := a.client.HSet(ctx,
			key,
			map[string]any{
				"id":          doc.ID,
				"content":     doc.Content,
				"source_type": string(doc.SourceType()),
				"metadata":    string(metadata),
				"embedding":   floatsToBytes(vector),
			},
		).Result(); err != nil {
			return fmt.Errorf("error saving document %s: %w", doc.ID, err)
		}
	}

	return nil
}

func (a *Adapter) SearchDocuments(ctx context.Context, filter petrag.DocumentFilter, limit int) ([]petrag.RetrievalResult, error) {
	if filter.Vector == nil {
		return nil, fmt.Errorf("vector is required for searching documents")
	}

	query := fmt.Sprintf("*=>[KNN %d @embedding $vec AS %s]", limit, distanceField)

	// Lowest distance is the most similar document.
	results, err := a.client.FTSearchWithArgs(ctx,
		a.indexName,
		query,
		&redis.FTSearchOptions{
			Return: []redis.FTSearchReturn{
				{FieldName: distanceField},
				{FieldName: "id"},
				{FieldName: "content"},
				{FieldName: "metadata"},
			},
			DialectVersion: a.dialectVersion,
			Params: map[string]any{
				"vec": floatsToBytes(filter.Vector),
			},
			SortBy: []redis.FTSearchSortBy{{FieldName: distanceField, Asc: true}},
			Limit:  limit,
		},
	).Result()
	if err != nil {
		return nil, err
	}

	a.logger.Sugar().With("hits", len(results.Docs), "limit", limit).Debug("redis knn search")

	return a.mapRedisDocuments(results.Docs)
}

func (a *Adapter) mapRedisDocuments(rds []redis.Document) ([]petrag.RetrievalResult, error) {
	out := make([]petrag.RetrievalResult, 0, len(rds))

	for _, rd := range rds {
		result, err := a.mapRedisDocument(rd)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}

	return out, nil
}

func (a *Adapter) mapRedisDocument(rd redis.Document) (petrag.RetrievalResult, error) {
	content, ok := rd.Fields["content"]
	if !ok {
		return petrag.RetrievalResult{}, fmt.Errorf("missing content field in document %s", rd.ID)
	}

	distance, err := strconv.ParseFloat(rd.Fields[distanceField], 64)
	if err != nil {
		return petrag.RetrievalResult{}, fmt.Errorf("invalid vector distance: %w", err)
	}

	var metadata petrag.Metadata
	if raw := rd.Fields["metadata"]; raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			return petrag.RetrievalResult{}, fmt.Errorf("invalid metadata: %w", err)
		}
	}

	return petrag.RetrievalResult{
		Document: petrag.Document{
			ID:       rd.Fields["id"],
			Content:  content,
			Metadata: metadata,
		},
		Score: similarityFromDistance(a.vectorDistanceMetric, distance),
	}, nil
}

// similarityFromDistance maps a redis vector distance onto a [0, 1] similarity.
func similarityFromDistance(metric string, distance float64) float64 {
	var similarity float64
	switch metric {
	case MetricL2:
		similarity = 1 / (1 + math.Max(distance, 0))
	default:
		// COSINE and IP distances are 1 - similarity.
		similarity = 1 - distance
	}
	return math.Max(0, math.Min(1, similarity))
}

// helper function to convert []float32 to []byte
func floatsToBytes(fs []float32) []byte {
	buf := make([]byte, len(fs)*4)

	for i, f := range fs {
		u := math.Float32bits(f)
		binary.NativeEndian.PutUint32(buf[i*4:], u)
	}

	return buf
}
