package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofrs/uuid/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/RichardKnop/petrag"
	"github.com/RichardKnop/petrag/api"
)

// List answered questions
// (GET /v1/runs)
func (a *Adapter) ListRuns(w http.ResponseWriter, r *http.Request, params api.ListRunsParams) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	filter := petrag.RunFilter{
		Intent:     petrag.Intent(strings.ToUpper(api.FromString(params.Intent))),
		BestEffort: params.BestEffort,
	}
	sortParams := petrag.SortParams{
		By:    api.FromString(params.SortBy),
		Order: petrag.SortOrder(strings.ToUpper(api.FromString(params.Order))),
		Limit: api.FromInt(params.Limit),
	}

	runs, err := a.petRag.ListRuns(ctx, filter, sortParams)
	if err != nil {
		if errors.Is(err, petrag.ErrInvalidQuery) {
			renderJSONError(w, http.StatusBadRequest, err)
			return
		}
		a.logger.Sugar().With("error", err).Error("error listing runs")
		renderJSONError(w, http.StatusInternalServerError, fmt.Errorf("error listing runs: %w", err))
		return
	}

	renderJSON(w, mapRuns(runs))
}

// Get a single run by ID
// (GET /v1/runs/{id})
func (a *Adapter) GetRunById(w http.ResponseWriter, r *http.Request, id openapi_types.UUID) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultTimeout)
	defer cancel()

	aRun, err := a.petRag.FindRun(ctx, petrag.RunID{UUID: uuid.UUID(id)})
	if err != nil {
		if errors.Is(err, petrag.ErrNotFound) {
			renderJSONError(w, http.StatusNotFound, fmt.Errorf("run not found"))
			return
		}
		a.logger.Sugar().With("error", err, "run", id).Error("error finding run")
		renderJSONError(w, http.StatusInternalServerError, fmt.Errorf("error finding run: %w", err))
		return
	}

	renderJSON(w, mapRun(aRun))
}

func mapRuns(runs []*petrag.Run) api.Runs {
	apiResponse := api.Runs{
		Runs: make([]api.Run, 0, len(runs)),
	}
	for _, aRun := range runs {
		apiResponse.Runs = append(apiResponse.Runs, mapRun(aRun))
	}
	return apiResponse
}

func mapRun(aRun *petrag.Run) api.Run {
	return api.Run{
		Id:             openapi_types.UUID(aRun.ID.UUID),
		Question:       aRun.Question,
		Location:       api.OptionalString(aRun.Location),
		Intent:         string(aRun.Intent),
		IntentTier:     string(aRun.IntentTier),
		SourceType:     api.OptionalString(string(aRun.Provenance)),
		UsedFallback:   aRun.UsedFallback,
		FallbackCount:  aRun.FallbackCount,
		EvidenceCount:  aRun.EvidenceCount,
		QualityAverage: aRun.QualityAverage,
		Verdict:        api.OptionalString(string(aRun.Verdict)),
		RewriteState:   api.OptionalString(string(aRun.RewriteState)),
		Rewrites:       aRun.Rewrites,
		BestEffort:     aRun.BestEffort,
		FacilityCount:  aRun.FacilityCount,
		FinalText:      aRun.FinalText,
		Trace:          mapTrace(aRun.Trace),
		CreatedAt:      aRun.Created,
	}
}
