package petrag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDocuments(t *testing.T) {
	t.Parallel()

	documents, err := ReadDocuments(strings.NewReader(`[
		{"id": "kb-1", "content": "기침이 지속되면 내원하세요.", "metadata": {"source_type": "kb_article", "department": "내과"}},
		{"content": "구토 후에는 금식하세요."}
	]`))
	require.NoError(t, err)
	require.Len(t, documents, 2)
	assert.Equal(t, "kb-1", documents[0].ID)
	assert.Equal(t, SourceTypeArticle, documents[0].SourceType())
	assert.Equal(t, "내과", documents[0].Metadata[MetaDepartment])
	assert.Nil(t, documents[1].Metadata)

	_, err = ReadDocuments(strings.NewReader(`{"content": "not an array"}`))
	assert.Error(t, err)
}

func TestService_Ingest(t *testing.T) {
	t.Parallel()

	documents := []Document{
		{ID: "1", Content: "기침\r\n콧물"},
		{ID: "2", Content: "   "},
		{ID: "3", Content: "구토", Metadata: Metadata{MetaSourceType: "blog"}},
		{ID: "4", Content: "설사"},
		{ID: "5", Content: "발열\u0000"},
	}

	t.Run("skips invalid documents and saves in batches", func(t *testing.T) {
		t.Parallel()

		index := &stubIndex{}
		s := newTestService(&stubModel{}, index)

		saved, err := s.Ingest(context.Background(), documents, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, saved)

		require.Len(t, index.batches, 2)
		assert.Equal(t, []Document{{ID: "1", Content: "기침\n콧물"}, {ID: "4", Content: "설사"}}, index.batches[0])
		assert.Equal(t, []Document{{ID: "5", Content: "발열"}}, index.batches[1])
	})

	t.Run("default batch size", func(t *testing.T) {
		t.Parallel()

		index := &stubIndex{}
		s := newTestService(&stubModel{}, index)

		saved, err := s.Ingest(context.Background(), documents, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, saved)
		assert.Len(t, index.batches, 1)
	})

	t.Run("embedding failure stops ingestion", func(t *testing.T) {
		t.Parallel()

		s := New(&stubEmbedder{err: errors.New("quota exceeded")}, &stubIndex{}, &stubModel{})

		saved, err := s.Ingest(context.Background(), documents, 2)
		require.Error(t, err)
		assert.Zero(t, saved)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("index failure stops ingestion", func(t *testing.T) {
		t.Parallel()

		s := newTestService(&stubModel{}, &stubIndex{err: errors.New("index down")})

		saved, err := s.Ingest(context.Background(), documents, 2)
		require.Error(t, err)
		assert.Zero(t, saved)
	})
}
