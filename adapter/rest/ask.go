package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/RichardKnop/petrag"
	"github.com/RichardKnop/petrag/api"
)

// Answer a pet health question
// (POST /v1/ask)
func (a *Adapter) Ask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), askTimeout)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	apiRequest := api.AskRequest{}
	if err := readRequestJSON(r, &apiRequest); err != nil {
		renderJSONError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := a.petRag.Ask(ctx, mapAskRequest(apiRequest))
	if err != nil {
		if errors.Is(err, petrag.ErrInvalidQuery) {
			renderJSONError(w, http.StatusBadRequest, err)
			return
		}
		a.logger.Sugar().With("error", err).Error("error answering question")
		renderJSONError(w, http.StatusInternalServerError, fmt.Errorf("error answering question: %w", err))
		return
	}

	renderJSON(w, mapResponse(resp))
}

func mapAskRequest(apiRequest api.AskRequest) petrag.Query {
	query := petrag.Query{
		Text:     apiRequest.Question,
		Location: api.FromString(apiRequest.Location),
		Radius:   api.FromInt(apiRequest.Radius),
	}
	if apiRequest.Coordinates != nil {
		query.Coordinates = &petrag.Coordinates{
			Latitude:  apiRequest.Coordinates.Latitude,
			Longitude: apiRequest.Coordinates.Longitude,
		}
	}
	return query
}

func mapResponse(resp *petrag.Response) api.AskResponse {
	apiResponse := api.AskResponse{
		RunId:             openapi_types.UUID(resp.RunID.UUID),
		FinalResponseText: resp.FinalText,
		RawAnswerText:     resp.RawAnswer,
		Facilities:        mapFacilities(resp.Facilities),
		EvidenceCount:     resp.EvidenceCount,
		SourceType:        api.OptionalString(string(resp.Provenance)),
		UsedFallback:      resp.UsedFallback,
		FallbackCount:     resp.FallbackCount,
		Intent: api.Intent{
			Label:      string(resp.Intent.Intent),
			Confidence: resp.Intent.Confidence,
			Reason:     resp.Intent.Reason,
			Tier:       string(resp.Intent.Tier),
		},
		RewriteState: string(resp.RewriteState),
		Rewrites:     resp.Rewrites,
		BestEffort:   resp.BestEffort,
		Trace:        mapTrace(resp.Trace),
	}
	if resp.Quality != nil {
		apiResponse.Quality = &api.Quality{
			Accuracy:     resp.Quality.Accuracy,
			Clarity:      resp.Quality.Clarity,
			Completeness: resp.Quality.Completeness,
			Safety:       resp.Quality.Safety,
			Average:      resp.Quality.Average,
			Verdict:      string(resp.Quality.Verdict),
			Issues:       resp.Quality.Issues,
		}
	}
	return apiResponse
}

func mapFacilities(facilities []petrag.Facility) []api.Facility {
	out := make([]api.Facility, 0, len(facilities))
	for _, f := range facilities {
		apiFacility := api.Facility{
			Name:     f.Name,
			Address:  f.Address,
			Phone:    api.OptionalString(f.Phone),
			Url:      api.OptionalString(f.URL),
			Distance: f.Distance,
			Status:   string(f.Status),
		}
		if f.Coordinates != nil {
			apiFacility.Coordinates = &api.Coordinates{
				Latitude:  f.Coordinates.Latitude,
				Longitude: f.Coordinates.Longitude,
			}
		}
		out = append(out, apiFacility)
	}
	return out
}

func mapTrace(trace []petrag.Stage) []string {
	out := make([]string, 0, len(trace))
	for _, stage := range trace {
		out = append(out, string(stage))
	}
	return out
}

// Liveness check
// (GET /healthz)
func (a *Adapter) Healthz(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, api.Health{Status: "ok"})
}
