package http

import (
	"net/http"

	"github.com/google/uuid"

	"sitetrack/internal/core"
	"sitetrack/internal/progress"
)

type (
	bindRequest struct {
		SubTaskID             uuid.UUID `json:"subTaskId"`
		BudgetedQuantity      *float64  `json:"budgetedQuantity"`
		Productivity          *float64  `json:"productivity"`
		TotalBudgetedManhours *float64  `json:"totalBudgetedManhours"`
	}

	// weekPayload carries quantities as loosely typed values; spreadsheet
	// clients send numbers and locale-formatted strings interchangeably.
	weekPayload struct {
		Week             int `json:"week"`
		TargetedQty      any `json:"targetedQty"`
		AchievedQty      any `json:"achievedQty"`
		ConsumedManhours any `json:"consumedManhours"`
	}

	progressRequest struct {
		Year                     int           `json:"year"`
		Month                    int           `json:"month"`
		WeeklyData               []weekPayload `json:"weeklyData"`
		AdditionalLapsedManhours any           `json:"additionalLapsedManhours"`
		Justification            string        `json:"justification"`
	}
)

func (req progressRequest) toSubmission() progress.Submission {
	sub := progress.Submission{
		Year:                     req.Year,
		Month:                    req.Month,
		WeeklyData:               make([]core.WeekEntry, 0, len(req.WeeklyData)),
		AdditionalLapsedManhours: coerceSigned(req.AdditionalLapsedManhours),
		Justification:            req.Justification,
	}
	for _, w := range req.WeeklyData {
		sub.WeeklyData = append(sub.WeeklyData, core.WeekEntry{
			Week:             w.Week,
			TargetedQty:      coerceSigned(w.TargetedQty),
			AchievedQty:      coerceSigned(w.AchievedQty),
			ConsumedManhours: coerceSigned(w.ConsumedManhours),
		})
	}
	return sub
}

// coerceSigned keeps negative numbers intact so validation can reject them
// explicitly instead of zeroing them away.
func coerceSigned(v any) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return core.CoerceQuantity(v)
}

func (s *Server) handleBindTask(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	var req bindRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.SubTaskID == uuid.Nil {
		writeBadRequest(w, "missing subTaskId")
		return
	}

	ov := &progress.BindOverrides{
		BudgetedQuantity:      req.BudgetedQuantity,
		Productivity:          req.Productivity,
		TotalBudgetedManhours: req.TotalBudgetedManhours,
	}
	task, err := s.progressSvc.BindTask(r.Context(), projectID, req.SubTaskID, ov)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateProject(projectID)
	writeJSON(w, http.StatusCreated, toTaskView(task))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")
	tasks := s.progressSvc.TasksFor(projectID)

	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, toTaskView(t))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleRecordProgress(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(r, "taskID")
	if !ok {
		writeBadRequest(w, "invalid task id")
		return
	}
	var req progressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	task, rec, err := s.progressSvc.RecordProgress(r.Context(), taskID, req.toSubmission())
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateProject(task.ProjectID)
	writeJSON(w, http.StatusOK, toRecordView(rec))
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(r, "taskID")
	if !ok {
		writeBadRequest(w, "invalid task id")
		return
	}
	period, err := core.ParsePeriod(r.PathValue("period"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec, found := s.progressSvc.RecordFor(taskID, period)
	if !found {
		writeError(w, r, &core.NotFoundError{Kind: "progressRecord", ID: taskID.String() + "@" + period.Key()})
		return
	}
	writeJSON(w, http.StatusOK, toRecordView(rec))
}
