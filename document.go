package petrag

import (
	"strings"
)

type Vector []float32

type SourceType string

const (
	SourceTypeArticle  SourceType = "kb_article"
	SourceTypeQARecord SourceType = "qa_record"
)

// Metadata keys of knowledge base documents.
const (
	MetaSourceType   = "source_type"
	MetaSource       = "source"
	MetaDepartment   = "department"
	MetaDisease      = "disease"
	MetaSymptom      = "symptom"
	MetaLifeStage    = "life_stage"
	MetaUrgencyLevel = "urgency_level"
)

type Metadata map[string]string

// Document is a knowledge base entry, either a veterinary article or a
// question and answer record.
type Document struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata,omitempty"`
}

func (d Document) SourceType() SourceType {
	return SourceType(d.Metadata[MetaSourceType])
}

// Sanitize removes characters that confuse embedding models and vector stores.
func (d Document) Sanitize() Document {
	d.Content = strings.ReplaceAll(d.Content, "\u0000", "")
	d.Content = strings.ReplaceAll(d.Content, "\r\n", "\n")
	d.Content = strings.TrimSpace(d.Content)
	return d
}

func (d Document) Valid() bool {
	if strings.TrimSpace(d.Content) == "" {
		return false
	}
	switch d.SourceType() {
	case SourceTypeArticle, SourceTypeQARecord, "":
		return true
	}
	return false
}

type DocumentFilter struct {
	Vector Vector
}

// RetrievalResult is a document with its similarity to the question, in [0, 1].
type RetrievalResult struct {
	Document Document
	Score    float64
}
