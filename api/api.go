// Package api holds the HTTP wire types of the pet health service and the
// router that binds them to a ServerInterface implementation.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AskRequest struct {
	Question    string       `json:"question"`
	Location    *string      `json:"location,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	// Radius in meters for facility search.
	Radius *int `json:"radius,omitempty"`
}

type Facility struct {
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Phone       *string      `json:"phone,omitempty"`
	Url         *string      `json:"url,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Distance    float64      `json:"distance"`
	Status      string       `json:"status"`
}

type Intent struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Tier       string  `json:"tier"`
}

type Quality struct {
	Accuracy     float64  `json:"accuracy"`
	Clarity      float64  `json:"clarity"`
	Completeness float64  `json:"completeness"`
	Safety       float64  `json:"safety"`
	Average      float64  `json:"average"`
	Verdict      string   `json:"verdict"`
	Issues       []string `json:"issues,omitempty"`
}

type AskResponse struct {
	RunId             openapi_types.UUID `json:"run_id"`
	FinalResponseText string             `json:"final_response_text"`
	RawAnswerText     string             `json:"raw_answer_text"`
	Facilities        []Facility         `json:"facilities"`
	EvidenceCount     int                `json:"evidence_count"`
	SourceType        *string            `json:"source_type,omitempty"`
	UsedFallback      bool               `json:"used_fallback"`
	FallbackCount     int                `json:"fallback_count"`
	Intent            Intent             `json:"intent"`
	Quality           *Quality           `json:"quality,omitempty"`
	RewriteState      string             `json:"rewrite_state"`
	Rewrites          int                `json:"rewrites"`
	BestEffort        bool               `json:"best_effort"`
	Trace             []string           `json:"trace"`
}

type Run struct {
	Id             openapi_types.UUID `json:"id"`
	Question       string             `json:"question"`
	Location       *string            `json:"location,omitempty"`
	Intent         string             `json:"intent"`
	IntentTier     string             `json:"intent_tier"`
	SourceType     *string            `json:"source_type,omitempty"`
	UsedFallback   bool               `json:"used_fallback"`
	FallbackCount  int                `json:"fallback_count"`
	EvidenceCount  int                `json:"evidence_count"`
	QualityAverage float64            `json:"quality_average"`
	Verdict        *string            `json:"verdict,omitempty"`
	RewriteState   *string            `json:"rewrite_state,omitempty"`
	Rewrites       int                `json:"rewrites"`
	BestEffort     bool               `json:"best_effort"`
	FacilityCount  int                `json:"facility_count"`
	FinalText      string             `json:"final_text"`
	Trace          []string           `json:"trace"`
	CreatedAt      time.Time          `json:"created_at"`
}

type Runs struct {
	Runs []Run `json:"runs"`
}

type ListRunsParams struct {
	Intent     *string `json:"intent,omitempty"`
	BestEffort *bool   `json:"best_effort,omitempty"`
	SortBy     *string `json:"sort_by,omitempty"`
	Order      *string `json:"order,omitempty"`
	Limit      *int    `json:"limit,omitempty"`
}

type Health struct {
	Status string `json:"status"`
}

type Error struct {
	Message string `json:"message"`
}

func String(v string) *string {
	return &v
}

// OptionalString returns nil for an empty string.
func OptionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func Float(v float64) *float64 {
	return &v
}

func FromString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func FromInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
