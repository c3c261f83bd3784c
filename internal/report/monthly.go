package report

import (
	"github.com/google/uuid"

	"sitetrack/internal/core"
)

type (
	// MonthCell is one column of the report matrix for one task. Recorded
	// distinguishes "no data submitted for this period" from a recorded
	// all-zero month.
	MonthCell struct {
		Period    core.Period
		Recorded  bool
		Aggregate MonthlyAggregate
	}

	// TaskRow is one task's row across the report columns, with totals summed
	// over the recorded columns only.
	TaskRow struct {
		Task                   core.ProjectTask
		Cells                  []MonthCell
		TotalInstalledQuantity float64
		TotalConsumedManhours  float64
		RemainingQuantity      float64
	}

	// Summary is the report-level rollup.
	Summary struct {
		TotalTasks             int
		TotalBudgetedManhours  float64
		TotalConsumedManhours  float64
		OverallProgressPercent float64
	}

	// MonthlyReport is the month-by-month matrix for a project.
	MonthlyReport struct {
		ProjectID string
		Columns   []core.Period
		Rows      []TaskRow
		Summary   Summary
	}
)

// RecordSet holds the committed weekly records for a set of tasks, keyed by
// task id and then period key.
type RecordSet map[uuid.UUID]map[string]core.WeeklyProgressRecord

// BuildMonthlyReport assembles the report matrix for the inclusive month
// range start..end. A start after end yields zero columns, not an error.
// Columns with no record stay unrecorded; totals sum only recorded columns.
// The remaining quantity may go negative, which signals an overrun.
func BuildMonthlyReport(projectID string, tasks []core.ProjectTask, records RecordSet, start, end core.Period) MonthlyReport {
	columns := core.PeriodsBetween(start, end)
	rpt := MonthlyReport{
		ProjectID: projectID,
		Columns:   columns,
		Rows:      make([]TaskRow, 0, len(tasks)),
	}

	for _, task := range tasks {
		row := TaskRow{Task: task, Cells: make([]MonthCell, 0, len(columns))}
		for _, p := range columns {
			cell := MonthCell{Period: p}
			if rec, ok := records[task.ID][p.Key()]; ok {
				cell.Recorded = true
				cell.Aggregate = Monthly(task, rec)
				row.TotalInstalledQuantity += cell.Aggregate.AchievedQuantity
				row.TotalConsumedManhours += cell.Aggregate.ConsumedManhours
			}
			row.Cells = append(row.Cells, cell)
		}
		row.RemainingQuantity = task.BudgetedQuantity - row.TotalInstalledQuantity
		rpt.Rows = append(rpt.Rows, row)

		rpt.Summary.TotalBudgetedManhours += task.TotalBudgetedManhours
		rpt.Summary.TotalConsumedManhours += row.TotalConsumedManhours
	}

	rpt.Summary.TotalTasks = len(tasks)
	rpt.Summary.OverallProgressPercent = percent(rpt.Summary.TotalConsumedManhours, rpt.Summary.TotalBudgetedManhours)
	return rpt
}
