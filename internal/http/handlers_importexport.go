package http

import (
	"net/http"

	"sitetrack/internal/catalog"
)

// handleImport bulk-upserts a catalog payload. The payload is validated whole
// before anything is applied; per-node failures afterwards are reported in
// the result body, not as an error status.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var payload catalog.ImportPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	result, err := s.catalogSvc.Import(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleExport returns the full catalog in the same shape import accepts.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalogSvc.Export())
}
