package http

import (
	"net/http"

	"github.com/google/uuid"

	"sitetrack/internal/core"
)

type (
	categoryRequest struct {
		Code        string `json:"code"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Order       int    `json:"order"`
		IsActive    *bool  `json:"isActive"`
	}

	activityRequest struct {
		CategoryID  uuid.UUID `json:"categoryId"`
		Code        string    `json:"code"`
		Name        string    `json:"name"`
		Description string    `json:"description"`
		DefaultUnit string    `json:"defaultUnit"`
		Order       int       `json:"order"`
		IsActive    *bool     `json:"isActive"`
	}

	subTaskRequest struct {
		ActivityID          uuid.UUID `json:"activityId"`
		Name                string    `json:"name"`
		Description         string    `json:"description"`
		DefaultProductivity any       `json:"defaultProductivity"`
		Unit                string    `json:"unit"`
		Order               int       `json:"order"`
		IsActive            *bool     `json:"isActive"`
	}
)

func (req categoryRequest) toDomain() core.MasterCategory {
	return core.MasterCategory{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
}

func (req activityRequest) toDomain() core.MasterActivity {
	return core.MasterActivity{
		CategoryID:  req.CategoryID,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		DefaultUnit: core.Unit(req.DefaultUnit),
		Order:       req.Order,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
}

func (req subTaskRequest) toDomain() core.MasterSubTask {
	return core.MasterSubTask{
		ActivityID:          req.ActivityID,
		Name:                req.Name,
		Description:         req.Description,
		DefaultProductivity: core.CoerceQuantity(req.DefaultProductivity),
		Unit:                core.Unit(req.Unit),
		Order:               req.Order,
		IsActive:            req.IsActive == nil || *req.IsActive,
	}
}

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	return id, err == nil
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	tree := s.catalogSvc.Hierarchy(query)
	writeJSON(w, http.StatusOK, toTreeView(tree))
}

func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	rows, err := s.catalogSvc.Flatten(r.Context(), s.flattenChunk)
	if err != nil {
		// The only error source is a cancelled request context.
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "flatten cancelled"})
		return
	}
	writeJSON(w, http.StatusOK, toFlatRowViews(rows))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	created, err := s.catalogSvc.CreateCategory(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryView(created))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid category id")
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	updated, err := s.catalogSvc.UpdateCategory(r.Context(), id, req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryView(updated))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid category id")
		return
	}
	if err := s.catalogSvc.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	created, err := s.catalogSvc.CreateActivity(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toActivityView(created))
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid activity id")
		return
	}
	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	updated, err := s.catalogSvc.UpdateActivity(r.Context(), id, req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityView(updated))
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid activity id")
		return
	}
	if err := s.catalogSvc.DeleteActivity(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleCreateSubTask(w http.ResponseWriter, r *http.Request) {
	var req subTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	created, err := s.catalogSvc.CreateSubTask(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSubTaskView(created))
}

func (s *Server) handleUpdateSubTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid sub-task id")
		return
	}
	var req subTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	updated, err := s.catalogSvc.UpdateSubTask(r.Context(), id, req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubTaskView(updated))
}

func (s *Server) handleDeleteSubTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid sub-task id")
		return
	}
	if err := s.catalogSvc.DeleteSubTask(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
