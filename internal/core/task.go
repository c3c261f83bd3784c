package core

import (
	"strings"

	"github.com/google/uuid"
)

// WeeksPerMonth is the fixed number of week entries a progress record carries.
// Missing weeks are zero-filled and excess weeks are truncated on submission.
const WeeksPerMonth = 4

const maxJustificationLength = 1000

type (
	// ProjectTask is a project-scoped instantiation of a catalog sub-task.
	// The budget baseline (quantity, productivity, manhours) is captured at
	// binding time and never changes afterwards, even if the catalog default
	// productivity diverges later.
	ProjectTask struct {
		ID        uuid.UUID
		ProjectID string
		SubTaskID uuid.UUID

		// Denormalized for reporting.
		CategoryName string
		TaskName     string

		Unit                  Unit
		BudgetedQuantity      float64
		Productivity          float64 // unit quantity per manhour
		TotalBudgetedManhours float64
	}

	// WeekEntry is one week of targeted/achieved quantity and consumed
	// manhours, with Week in 1..4.
	WeekEntry struct {
		Week             int
		TargetedQty      float64
		AchievedQty      float64
		ConsumedManhours float64
	}

	// WeeklyProgressRecord is the committed weekly breakdown for one task and
	// one (year, month) period. Weeks always holds exactly WeeksPerMonth
	// ordered entries.
	WeeklyProgressRecord struct {
		TaskID                   uuid.UUID
		Year                     int
		Month                    int
		Weeks                    [WeeksPerMonth]WeekEntry
		AdditionalLapsedManhours float64
		Justification            string
	}
)

// Period returns the record's period key components as a Period.
func (r WeeklyProgressRecord) Period() Period {
	return Period{Year: r.Year, Month: r.Month}
}

// NormalizeWeeks coerces an arbitrary weekly submission into exactly
// WeeksPerMonth ordered entries. Entries are slotted by their Week number when
// it is in range, otherwise by position; missing weeks stay zero-filled and
// excess entries are dropped. Lenient by design: absent data is zero, not an
// error.
func NormalizeWeeks(weeks []WeekEntry) [WeeksPerMonth]WeekEntry {
	var out [WeeksPerMonth]WeekEntry
	for i := range out {
		out[i].Week = i + 1
	}
	pos := 0
	for _, w := range weeks {
		idx := w.Week - 1
		if idx < 0 || idx >= WeeksPerMonth {
			idx = pos
		}
		if idx >= WeeksPerMonth {
			break
		}
		out[idx] = WeekEntry{
			Week:             idx + 1,
			TargetedQty:      w.TargetedQty,
			AchievedQty:      w.AchievedQty,
			ConsumedManhours: w.ConsumedManhours,
		}
		pos = idx + 1
	}
	return out
}

func (w WeekEntry) Validate() error {
	if w.TargetedQty < 0 {
		return &InvalidInputError{Field: "targetedQty", Value: w.TargetedQty}
	}
	if w.AchievedQty < 0 {
		return &InvalidInputError{Field: "achievedQty", Value: w.AchievedQty}
	}
	if w.ConsumedManhours < 0 {
		return &InvalidInputError{Field: "consumedManhours", Value: w.ConsumedManhours}
	}
	return nil
}

func (r WeeklyProgressRecord) Validate() error {
	if err := r.Period().Validate(); err != nil {
		return err
	}
	for _, w := range r.Weeks {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	if r.AdditionalLapsedManhours < 0 {
		return &InvalidInputError{Field: "additionalLapsedManhours", Value: r.AdditionalLapsedManhours}
	}
	if len(r.Justification) > maxJustificationLength {
		return &ValidationError{Field: "justification", Reason: "must be at most 1000 characters"}
	}
	return nil
}

func (t ProjectTask) Validate() error {
	if strings.TrimSpace(t.ProjectID) == "" {
		return &ValidationError{Field: "projectId", Reason: "must not be empty"}
	}
	if t.BudgetedQuantity < 0 {
		return &ValidationError{Field: "budgetedQuantity", Reason: "must not be negative"}
	}
	if t.Productivity < 0 {
		return &ValidationError{Field: "productivity", Reason: "must not be negative"}
	}
	return nil
}

// ManhoursFor converts a quantity into manhours at the task's bound
// productivity. A zero productivity yields zero manhours rather than a
// division by zero.
func (t ProjectTask) ManhoursFor(quantity float64) float64 {
	if t.Productivity == 0 {
		return 0
	}
	return quantity / t.Productivity
}
