// Package report derives monthly, project and dashboard metrics from weekly
// progress records. Everything here is a pure function: records in, numbers
// out, no storage access and no error paths for missing data — an absent
// period is represented, never thrown.
package report

import (
	"sitetrack/internal/core"
)

// MonthlyAggregate summarizes one task's weekly record for one period.
type MonthlyAggregate struct {
	TargetedQuantity float64 `json:"targetedQuantity"`
	AchievedQuantity float64 `json:"achievedQuantity"`
	ConsumedManhours float64 `json:"consumedManhours"`
	VarianceQuantity float64 `json:"varianceQuantity"`
	ExpectedManhours float64 `json:"expectedManhours"`
	VarianceManhours float64 `json:"varianceManhours"`
}

// Monthly computes the aggregate for one record against the task's bound
// productivity. Expected manhours convert the achieved quantity at that
// productivity; a zero productivity expects zero manhours instead of
// dividing by zero.
func Monthly(task core.ProjectTask, rec core.WeeklyProgressRecord) MonthlyAggregate {
	var agg MonthlyAggregate
	for _, w := range rec.Weeks {
		agg.TargetedQuantity += w.TargetedQty
		agg.AchievedQuantity += w.AchievedQty
		agg.ConsumedManhours += w.ConsumedManhours
	}
	agg.VarianceQuantity = agg.AchievedQuantity - agg.TargetedQuantity
	agg.ExpectedManhours = task.ManhoursFor(agg.AchievedQuantity)
	agg.VarianceManhours = agg.ConsumedManhours - agg.ExpectedManhours
	return agg
}

// percent returns part/whole*100, or 0 when the denominator is not positive.
func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
