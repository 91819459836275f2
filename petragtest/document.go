package petragtest

import (
	"github.com/RichardKnop/petrag"
)

type DocumentOption func(*petrag.Document)

func WithDocumentContent(content string) DocumentOption {
	return func(d *petrag.Document) {
		d.Content = content
	}
}

func WithDocumentMetadata(key, value string) DocumentOption {
	return func(d *petrag.Document) {
		d.Metadata[key] = value
	}
}

var (
	sourceTypes = []petrag.SourceType{petrag.SourceTypeArticle, petrag.SourceTypeQARecord}
	departments = []string{"내과", "외과", "피부과", "안과", "치과"}
	lifeStages  = []string{"puppy", "adult", "senior"}
)

func (g *DataGen) Document(options ...DocumentOption) petrag.Document {
	aDocument := petrag.Document{
		ID:      g.UUID(),
		Content: g.Paragraph(1, 3, 12, " "),
		Metadata: petrag.Metadata{
			petrag.MetaSourceType: string(sourceTypes[g.IntRange(0, len(sourceTypes)-1)]),
			petrag.MetaSource:     g.DomainName(),
			petrag.MetaDepartment: g.RandomString(departments),
			petrag.MetaLifeStage:  g.RandomString(lifeStages),
		},
	}

	for _, o := range options {
		o(&aDocument)
	}

	return aDocument
}

func (g *DataGen) RetrievalResult(options ...DocumentOption) petrag.RetrievalResult {
	return petrag.RetrievalResult{
		Document: g.Document(options...),
		Score:    g.Float64Range(0, 1),
	}
}

// Vector returns a random embedding of the given dimension.
func (g *DataGen) Vector(dim int) petrag.Vector {
	vec := make(petrag.Vector, dim)
	for i := range vec {
		vec[i] = g.Float32Range(-1, 1)
	}
	return vec
}

func (g *DataGen) Snippet() petrag.Snippet {
	return petrag.Snippet{
		Title:         g.Sentence(4),
		Content:       g.Paragraph(1, 2, 10, " "),
		URL:           g.URL(),
		RelevanceHint: g.Float64Range(0, 1),
	}
}
