package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sitetrack/internal/core"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses: validation and invalid
// input are 422, conflicts (duplicate code, dependents, double bind) are 409,
// missing references are 404, everything else is 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		valErr   *core.ValidationError
		inputErr *core.InvalidInputError
		dupErr   *core.DuplicateCodeError
		depErr   *core.HasDependentsError
		nfErr    *core.NotFoundError
		boundErr *core.AlreadyBoundError
	)

	switch {
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: valErr.Error(), Field: valErr.Field})
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: inputErr.Error(), Field: inputErr.Field})
	case errors.As(err, &dupErr):
		writeJSON(w, http.StatusConflict, errorBody{Error: dupErr.Error(), Field: "code"})
	case errors.As(err, &depErr):
		writeJSON(w, http.StatusConflict, errorBody{Error: depErr.Error()})
	case errors.As(err, &boundErr):
		writeJSON(w, http.StatusConflict, errorBody{Error: boundErr.Error()})
	case errors.As(err, &nfErr):
		writeJSON(w, http.StatusNotFound, errorBody{Error: nfErr.Error()})
	default:
		slog.ErrorContext(r.Context(), "Unhandled request error",
			"error", err, "method", r.Method, "url", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: message})
}
