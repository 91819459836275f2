package petrag

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

const DefaultIngestBatchSize = 32

// ReadDocuments decodes a JSON array of knowledge base records.
func ReadDocuments(r io.Reader) ([]Document, error) {
	var documents []Document
	if err := json.NewDecoder(r).Decode(&documents); err != nil {
		return nil, fmt.Errorf("error decoding documents: %w", err)
	}
	return documents, nil
}

// Ingest embeds documents in batches and saves them into the vector index.
// Invalid documents are skipped. It returns how many documents were saved.
func (s *Service) Ingest(ctx context.Context, documents []Document, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultIngestBatchSize
	}

	valid := make([]Document, 0, len(documents))
	for i, aDocument := range documents {
		aDocument = aDocument.Sanitize()
		if !aDocument.Valid() {
			s.logger.Sugar().With("position", i, "id", aDocument.ID).Warn("skipping invalid document")
			continue
		}
		valid = append(valid, aDocument)
	}

	saved := 0
	for batch := range slices.Chunk(valid, batchSize) {
		vectors, err := s.embedder.EmbedDocuments(ctx, batch)
		if err != nil {
			return saved, fmt.Errorf("error generating vectors: %w", err)
		}
		if err := s.index.SaveDocuments(ctx, batch, vectors); err != nil {
			return saved, fmt.Errorf("error saving documents: %w", err)
		}
		saved += len(batch)

		s.logger.Sugar().With("saved", saved, "total", len(valid)).Info("ingested batch")
	}

	return saved, nil
}
