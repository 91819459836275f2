package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/RichardKnop/petrag/api"
)

func readRequestJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func renderJSON(w http.ResponseWriter, v any) {
	renderJSONStatus(w, http.StatusOK, v)
}

func renderJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func renderJSONError(w http.ResponseWriter, status int, err error) {
	renderJSONStatus(w, status, api.Error{Message: err.Error()})
}
