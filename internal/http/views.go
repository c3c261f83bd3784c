package http

import (
	"github.com/google/uuid"

	"sitetrack/internal/catalog"
	"sitetrack/internal/core"
	"sitetrack/internal/report"
)

// View types decouple the wire format from the domain structs.
type (
	categoryView struct {
		ID          uuid.UUID      `json:"id"`
		Code        string         `json:"code"`
		Name        string         `json:"name"`
		Description string         `json:"description,omitempty"`
		Order       int            `json:"order"`
		IsActive    bool           `json:"isActive"`
		Activities  []activityView `json:"activities"`
	}

	activityView struct {
		ID          uuid.UUID     `json:"id"`
		CategoryID  uuid.UUID     `json:"categoryId"`
		Code        string        `json:"code"`
		Name        string        `json:"name"`
		Description string        `json:"description,omitempty"`
		DefaultUnit string        `json:"defaultUnit"`
		Order       int           `json:"order"`
		IsActive    bool          `json:"isActive"`
		SubTasks    []subTaskView `json:"subTasks"`
	}

	subTaskView struct {
		ID                  uuid.UUID `json:"id"`
		ActivityID          uuid.UUID `json:"activityId"`
		Name                string    `json:"name"`
		Description         string    `json:"description,omitempty"`
		DefaultProductivity float64   `json:"defaultProductivity"`
		Unit                string    `json:"unit"`
		Order               int       `json:"order"`
		IsActive            bool      `json:"isActive"`
	}

	flatRowView struct {
		CategoryCode string    `json:"categoryCode"`
		CategoryName string    `json:"categoryName"`
		ActivityCode string    `json:"activityCode"`
		ActivityName string    `json:"activityName"`
		SubTaskID    uuid.UUID `json:"subTaskId"`
		SubTaskName  string    `json:"subTaskName"`
		Unit         string    `json:"unit"`
		Productivity float64   `json:"productivity"`
	}

	taskView struct {
		ID                    uuid.UUID `json:"id"`
		ProjectID             string    `json:"projectId"`
		SubTaskID             uuid.UUID `json:"subTaskId"`
		CategoryName          string    `json:"categoryName"`
		TaskName              string    `json:"taskName"`
		Unit                  string    `json:"unit"`
		BudgetedQuantity      float64   `json:"budgetedQuantity"`
		Productivity          float64   `json:"productivity"`
		TotalBudgetedManhours float64   `json:"totalBudgetedManhours"`
	}

	weekView struct {
		Week             int     `json:"week"`
		TargetedQty      float64 `json:"targetedQty"`
		AchievedQty      float64 `json:"achievedQty"`
		ConsumedManhours float64 `json:"consumedManhours"`
	}

	recordView struct {
		TaskID                   uuid.UUID  `json:"taskId"`
		Period                   string     `json:"period"`
		Weeks                    []weekView `json:"weeks"`
		AdditionalLapsedManhours float64    `json:"additionalLapsedManhours"`
		Justification            string     `json:"justification,omitempty"`
	}

	monthCellView struct {
		Period    string                  `json:"period"`
		Recorded  bool                    `json:"recorded"`
		Aggregate *report.MonthlyAggregate `json:"aggregate,omitempty"`
	}

	taskRowView struct {
		Task                   taskView        `json:"task"`
		Cells                  []monthCellView `json:"cells"`
		TotalInstalledQuantity float64         `json:"totalInstalledQuantity"`
		TotalConsumedManhours  float64         `json:"totalConsumedManhours"`
		RemainingQuantity      float64         `json:"remainingQuantity"`
	}

	summaryView struct {
		TotalTasks             int     `json:"totalTasks"`
		TotalBudgetedManhours  float64 `json:"totalBudgetedManhours"`
		TotalConsumedManhours  float64 `json:"totalConsumedManhours"`
		OverallProgressPercent float64 `json:"overallProgressPercent"`
	}

	reportView struct {
		ProjectID string        `json:"projectId"`
		Columns   []string      `json:"columns"`
		Rows      []taskRowView `json:"rows"`
		Summary   summaryView   `json:"summary"`
	}

	dashboardView struct {
		ProjectID              string  `json:"projectId"`
		TotalTasks             int     `json:"totalTasks"`
		TotalBudgetedQuantity  float64 `json:"totalBudgetedQuantity"`
		TotalInstalledQuantity float64 `json:"totalInstalledQuantity"`
		TotalBudgetedManhours  float64 `json:"totalBudgetedManhours"`
		TotalConsumedManhours  float64 `json:"totalConsumedManhours"`
		OverallProgress        float64 `json:"overallProgress"`
		BudgetEfficiency       float64 `json:"budgetEfficiency"`
		OverBudget             bool    `json:"overBudget"`
		ThisMonthProgress      float64 `json:"thisMonthProgress"`
		LastMonthProgress      float64 `json:"lastMonthProgress"`
		MonthlyTrend           float64 `json:"monthlyTrend"`
	}
)

func toCategoryView(c core.MasterCategory) categoryView {
	v := categoryView{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		Order:       c.Order,
		IsActive:    c.IsActive,
		Activities:  make([]activityView, 0, len(c.Activities)),
	}
	for _, a := range c.Activities {
		v.Activities = append(v.Activities, toActivityView(a))
	}
	return v
}

func toActivityView(a core.MasterActivity) activityView {
	v := activityView{
		ID:          a.ID,
		CategoryID:  a.CategoryID,
		Code:        a.Code,
		Name:        a.Name,
		Description: a.Description,
		DefaultUnit: string(a.DefaultUnit),
		Order:       a.Order,
		IsActive:    a.IsActive,
		SubTasks:    make([]subTaskView, 0, len(a.SubTasks)),
	}
	for _, st := range a.SubTasks {
		v.SubTasks = append(v.SubTasks, toSubTaskView(st))
	}
	return v
}

func toSubTaskView(st core.MasterSubTask) subTaskView {
	return subTaskView{
		ID:                  st.ID,
		ActivityID:          st.ActivityID,
		Name:                st.Name,
		Description:         st.Description,
		DefaultProductivity: st.DefaultProductivity,
		Unit:                string(st.Unit),
		Order:               st.Order,
		IsActive:            st.IsActive,
	}
}

func toTreeView(tree []core.MasterCategory) []categoryView {
	out := make([]categoryView, 0, len(tree))
	for _, c := range tree {
		out = append(out, toCategoryView(c))
	}
	return out
}

func toFlatRowViews(rows []catalog.FlatRow) []flatRowView {
	out := make([]flatRowView, 0, len(rows))
	for _, row := range rows {
		out = append(out, flatRowView{
			CategoryCode: row.CategoryCode,
			CategoryName: row.CategoryName,
			ActivityCode: row.ActivityCode,
			ActivityName: row.ActivityName,
			SubTaskID:    row.SubTaskID,
			SubTaskName:  row.SubTaskName,
			Unit:         string(row.Unit),
			Productivity: row.Productivity,
		})
	}
	return out
}

func toTaskView(t core.ProjectTask) taskView {
	return taskView{
		ID:                    t.ID,
		ProjectID:             t.ProjectID,
		SubTaskID:             t.SubTaskID,
		CategoryName:          t.CategoryName,
		TaskName:              t.TaskName,
		Unit:                  string(t.Unit),
		BudgetedQuantity:      t.BudgetedQuantity,
		Productivity:          t.Productivity,
		TotalBudgetedManhours: t.TotalBudgetedManhours,
	}
}

func toRecordView(rec core.WeeklyProgressRecord) recordView {
	v := recordView{
		TaskID:                   rec.TaskID,
		Period:                   rec.Period().Key(),
		Weeks:                    make([]weekView, 0, len(rec.Weeks)),
		AdditionalLapsedManhours: rec.AdditionalLapsedManhours,
		Justification:            rec.Justification,
	}
	for _, w := range rec.Weeks {
		v.Weeks = append(v.Weeks, weekView{
			Week:             w.Week,
			TargetedQty:      w.TargetedQty,
			AchievedQty:      w.AchievedQty,
			ConsumedManhours: w.ConsumedManhours,
		})
	}
	return v
}

func toReportView(rpt report.MonthlyReport) reportView {
	v := reportView{
		ProjectID: rpt.ProjectID,
		Columns:   make([]string, 0, len(rpt.Columns)),
		Rows:      make([]taskRowView, 0, len(rpt.Rows)),
		Summary: summaryView{
			TotalTasks:             rpt.Summary.TotalTasks,
			TotalBudgetedManhours:  rpt.Summary.TotalBudgetedManhours,
			TotalConsumedManhours:  rpt.Summary.TotalConsumedManhours,
			OverallProgressPercent: rpt.Summary.OverallProgressPercent,
		},
	}
	for _, p := range rpt.Columns {
		v.Columns = append(v.Columns, p.Key())
	}
	for _, row := range rpt.Rows {
		rv := taskRowView{
			Task:                   toTaskView(row.Task),
			Cells:                  make([]monthCellView, 0, len(row.Cells)),
			TotalInstalledQuantity: row.TotalInstalledQuantity,
			TotalConsumedManhours:  row.TotalConsumedManhours,
			RemainingQuantity:      row.RemainingQuantity,
		}
		for _, cell := range row.Cells {
			cv := monthCellView{Period: cell.Period.Key(), Recorded: cell.Recorded}
			if cell.Recorded {
				agg := cell.Aggregate
				cv.Aggregate = &agg
			}
			rv.Cells = append(rv.Cells, cv)
		}
		v.Rows = append(v.Rows, rv)
	}
	return v
}

func toDashboardView(sum report.DashboardSummary) dashboardView {
	return dashboardView{
		ProjectID:              sum.ProjectID,
		TotalTasks:             sum.TotalTasks,
		TotalBudgetedQuantity:  sum.TotalBudgetedQuantity,
		TotalInstalledQuantity: sum.TotalInstalledQuantity,
		TotalBudgetedManhours:  sum.TotalBudgetedManhours,
		TotalConsumedManhours:  sum.TotalConsumedManhours,
		OverallProgress:        sum.OverallProgressPercent,
		BudgetEfficiency:       sum.BudgetEfficiencyPct,
		OverBudget:             sum.OverBudget,
		ThisMonthProgress:      sum.ThisMonthProgressPct,
		LastMonthProgress:      sum.LastMonthProgressPct,
		MonthlyTrend:           sum.MonthlyTrend,
	}
}
