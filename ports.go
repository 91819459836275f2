package petrag

import (
	"context"
)

// Embedder encodes questions and knowledge base documents as vectors.
type Embedder interface {
	Name() string
	EmbedDocuments(ctx context.Context, documents []Document) ([]Vector, error)
	EmbedContent(ctx context.Context, content string) (Vector, error)
}

// VectorIndex stores embedded documents and returns the ones nearest to a query vector.
// Scores of returned results are similarities, higher is more relevant.
type VectorIndex interface {
	Name() string
	SaveDocuments(ctx context.Context, documents []Document, vectors []Vector) error
	SearchDocuments(ctx context.Context, filter DocumentFilter, limit int) ([]RetrievalResult, error)
}

// Judge scores how relevant a document is to a question, in [0, 1].
type Judge interface {
	Score(ctx context.Context, question, document string) (float64, string, error)
}

// IntentModel classifies a question the keyword heuristic could not decide on.
type IntentModel interface {
	ClassifyIntent(ctx context.Context, question string) (IntentResult, error)
}

// Generator produces answers with a generative model.
type Generator interface {
	// Answer must only use the numbered evidence passages and cite them by their source tags.
	// A non-empty feedback carries the previous answer and what to improve.
	Answer(ctx context.Context, question string, evidence []EvidenceItem, feedback string) (string, error)
	// Converse answers questions outside the medical domain.
	Converse(ctx context.Context, question string) (string, error)
}

// LanguageModel is a generative model that can serve every model backed stage.
type LanguageModel interface {
	Judge
	IntentModel
	Generator
}

// WebSearcher searches the public web, used when internal evidence is insufficient.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Snippet, error)
}

// Geocoder resolves a free form address into coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (Coordinates, error)
}

// FacilitySearcher finds veterinary facilities.
type FacilitySearcher interface {
	Nearby(ctx context.Context, at Coordinates, radius, limit int) ([]Facility, error)
	ByKeyword(ctx context.Context, keyword string, limit int) ([]Facility, error)
}

// Store persists completed pipeline runs.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	ListRuns(ctx context.Context, filter RunFilter, params SortParams) ([]*Run, error)
	FindRun(ctx context.Context, id RunID) (*Run, error)
}
