package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sitetrack/internal/core"
)

// handleReport builds the month-by-month variance matrix for a project over
// the inclusive startDate..endDate range. Results are cached per project and
// range until the next write under the same project.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")

	start, err := core.ParsePeriod(r.URL.Query().Get("startDate"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := core.ParsePeriod(r.URL.Query().Get("endDate"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := projectID + "|report|" + start.Key() + "|" + end.Key()
	if cached, found := s.reportCache.Get(key); found {
		slog.DebugContext(r.Context(), "Report cache hit",
			"project_id", projectID, "start", start.Key(), "end", end.Key())
		writeJSON(w, http.StatusOK, toReportView(cached))
		return
	}

	rpt := s.progressSvc.MonthlyReport(projectID, start, end)
	s.reportCache.Set(key, rpt)
	writeJSON(w, http.StatusOK, toReportView(rpt))
}

// handleDashboard builds the project rollup as of the given period, which
// defaults to the current month.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")

	now := time.Now()
	current := core.Period{Year: now.Year(), Month: int(now.Month())}
	if v := strings.TrimSpace(r.URL.Query().Get("period")); v != "" {
		p, err := core.ParsePeriod(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		current = p
	}

	key := projectID + "|dash|" + current.Key()
	if cached, found := s.dashboardCache.Get(key); found {
		slog.DebugContext(r.Context(), "Dashboard cache hit",
			"project_id", projectID, "period", current.Key())
		writeJSON(w, http.StatusOK, toDashboardView(cached))
		return
	}

	sum := s.progressSvc.Dashboard(projectID, current)
	s.dashboardCache.Set(key, sum)
	writeJSON(w, http.StatusOK, toDashboardView(sum))
}
