package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofrs/uuid/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface is implemented by the REST adapter.
type ServerInterface interface {
	// Answer a pet health question
	// (POST /v1/ask)
	Ask(w http.ResponseWriter, r *http.Request)
	// List answered questions
	// (GET /v1/runs)
	ListRuns(w http.ResponseWriter, r *http.Request, params ListRunsParams)
	// Get a single run by ID
	// (GET /v1/runs/{id})
	GetRunById(w http.ResponseWriter, r *http.Request, id openapi_types.UUID)
	// Liveness check
	// (GET /healthz)
	Healthz(w http.ResponseWriter, r *http.Request)
}

// ErrorHandler renders request binding errors.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// HandlerFromMux registers the routes of si on m and returns m.
func HandlerFromMux(si ServerInterface, m *http.ServeMux) http.Handler {
	return HandlerWithOptions(si, m, defaultErrorHandler)
}

func HandlerWithOptions(si ServerInterface, m *http.ServeMux, onError ErrorHandler) http.Handler {
	m.HandleFunc("POST /v1/ask", si.Ask)
	m.HandleFunc("GET /v1/runs", func(w http.ResponseWriter, r *http.Request) {
		params, err := bindListRunsParams(r)
		if err != nil {
			onError(w, r, err)
			return
		}
		si.ListRuns(w, r, params)
	})
	m.HandleFunc("GET /v1/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.FromString(r.PathValue("id"))
		if err != nil {
			onError(w, r, fmt.Errorf("invalid format for parameter id: %w", err))
			return
		}
		si.GetRunById(w, r, openapi_types.UUID(id))
	})
	m.HandleFunc("GET /healthz", si.Healthz)
	return m
}

func bindListRunsParams(r *http.Request) (ListRunsParams, error) {
	var (
		params ListRunsParams
		query  = r.URL.Query()
	)

	if v := query.Get("intent"); v != "" {
		params.Intent = String(v)
	}
	if v := query.Get("best_effort"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return params, fmt.Errorf("invalid format for parameter best_effort: %w", err)
		}
		params.BestEffort = &b
	}
	if v := query.Get("sort_by"); v != "" {
		params.SortBy = String(v)
	}
	if v := query.Get("order"); v != "" {
		params.Order = String(v)
	}
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, fmt.Errorf("invalid format for parameter limit: %w", err)
		}
		params.Limit = &n
	}

	return params, nil
}
