package sheets

import (
	"context"
)

// ReportRow is one task+period line pushed to the reporting spreadsheet.
type ReportRow struct {
	ProjectID        string
	CategoryName     string
	TaskName         string
	Unit             string
	Period           string
	TargetedQuantity float64
	AchievedQuantity float64
	ConsumedManhours float64
	ExpectedManhours float64
	VarianceQuantity float64
	VarianceManhours float64
	ProgressPercent  float64
}

// Ports for outbound adapters.
type (
	// ReportWriter appends variance rows to the reporting sink.
	ReportWriter interface {
		AppendReportRow(ctx context.Context, row ReportRow) (rowRef string, err error)
	}
)
