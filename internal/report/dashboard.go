package report

import (
	"sitetrack/internal/core"
)

// DashboardSummary is the project rollup shown on the landing dashboard.
// Progress percentages are quantity-based; budget efficiency compares
// consumed against budgeted manhours, at or above 100 the project is over
// budget.
type DashboardSummary struct {
	ProjectID              string
	TotalTasks             int
	TotalBudgetedQuantity  float64
	TotalInstalledQuantity float64
	TotalBudgetedManhours  float64
	TotalConsumedManhours  float64
	OverallProgressPercent float64
	BudgetEfficiencyPct    float64
	OverBudget             bool
	ThisMonthProgressPct   float64
	LastMonthProgressPct   float64
	MonthlyTrend           float64 // percentage points, this month minus last
}

// BuildDashboardSummary computes the dashboard rollup as of the given current
// period. All divisions are zero-safe: empty projects report 0 everywhere.
func BuildDashboardSummary(projectID string, tasks []core.ProjectTask, records RecordSet, current core.Period) DashboardSummary {
	sum := DashboardSummary{
		ProjectID:  projectID,
		TotalTasks: len(tasks),
	}

	var thisMonthQty, lastMonthQty float64
	last := previousPeriod(current)

	for _, task := range tasks {
		sum.TotalBudgetedQuantity += task.BudgetedQuantity
		sum.TotalBudgetedManhours += task.TotalBudgetedManhours

		for key, rec := range records[task.ID] {
			agg := Monthly(task, rec)
			sum.TotalInstalledQuantity += agg.AchievedQuantity
			sum.TotalConsumedManhours += agg.ConsumedManhours
			switch key {
			case current.Key():
				thisMonthQty += agg.AchievedQuantity
			case last.Key():
				lastMonthQty += agg.AchievedQuantity
			}
		}
	}

	sum.OverallProgressPercent = percent(sum.TotalInstalledQuantity, sum.TotalBudgetedQuantity)
	sum.BudgetEfficiencyPct = percent(sum.TotalConsumedManhours, sum.TotalBudgetedManhours)
	sum.OverBudget = sum.BudgetEfficiencyPct >= 100
	sum.ThisMonthProgressPct = percent(thisMonthQty, sum.TotalBudgetedQuantity)
	sum.LastMonthProgressPct = percent(lastMonthQty, sum.TotalBudgetedQuantity)
	sum.MonthlyTrend = sum.ThisMonthProgressPct - sum.LastMonthProgressPct
	return sum
}

func previousPeriod(p core.Period) core.Period {
	if p.Month == 1 {
		return core.Period{Year: p.Year - 1, Month: 12}
	}
	return core.Period{Year: p.Year, Month: p.Month - 1}
}
