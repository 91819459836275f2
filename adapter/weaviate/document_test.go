package weaviate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/RichardKnop/petrag"
)

func TestDecodeGetDocumentResults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title       string
		given       *models.GraphQLResponse
		expected    []petrag.RetrievalResult
		expectedErr error
	}{
		{
			"Missing Get key",
			&models.GraphQLResponse{
				Data: map[string]models.JSONObject{},
			},
			nil,
			fmt.Errorf("get key not found in result"),
		},
		{
			"Missing class",
			&models.GraphQLResponse{
				Data: map[string]models.JSONObject{
					"Get": map[string]any{},
				},
			},
			nil,
			fmt.Errorf("KnowledgeDocument is not a list of results"),
		},
		{
			"Missing content",
			&models.GraphQLResponse{
				Data: map[string]models.JSONObject{
					"Get": map[string]any{
						"KnowledgeDocument": []any{
							map[string]any{"doc_id": "kb-1"},
						},
					},
				},
			},
			nil,
			fmt.Errorf("expected content in document"),
		},
		{
			"Valid results",
			&models.GraphQLResponse{
				Data: map[string]models.JSONObject{
					"Get": map[string]any{
						"KnowledgeDocument": []any{
							map[string]any{
								"doc_id":      "kb-1",
								"content":     "기침이 지속되면 내원하세요.",
								"metadata":    `{"department":"내과","source_type":"kb_article"}`,
								"_additional": map[string]any{"certainty": 0.91},
							},
							map[string]any{
								"doc_id":      "kb-2",
								"content":     "구토 후 금식",
								"metadata":    "null",
								"_additional": map[string]any{"certainty": 1.2},
							},
						},
					},
				},
			},
			[]petrag.RetrievalResult{
				{
					Document: petrag.Document{
						ID:      "kb-1",
						Content: "기침이 지속되면 내원하세요.",
						Metadata: petrag.Metadata{
							petrag.MetaDepartment: "내과",
							petrag.MetaSourceType: "kb_article",
						},
					},
					Score: 0.91,
				},
				{
					Document: petrag.Document{ID: "kb-2", Content: "구토 후 금식"},
					Score:    1,
				},
			},
			nil,
		},
	}

	for i, tc := range tests {
		t.Run(fmt.Sprintf("#%v_%v", i, tc.title), func(t *testing.T) {
			t.Parallel()

			actual, err := decodeGetDocumentResults(tc.given, defaultClassName)
			if tc.expectedErr != nil {
				require.Error(t, err)
				assert.Equal(t, tc.expectedErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestCombinedWeaviateError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, combinedWeaviateError(&models.GraphQLResponse{}, nil))

	err := combinedWeaviateError(&models.GraphQLResponse{
		Errors: []*models.GraphQLError{{Message: "class not found"}},
	}, nil)
	assert.EqualError(t, err, "weaviate error: [class not found]")

	transport := fmt.Errorf("connection refused")
	assert.Equal(t, transport, combinedWeaviateError(nil, transport))
}
