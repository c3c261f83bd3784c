package core

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeWeeks(t *testing.T) {
	t.Run("slots entries by week number", func(t *testing.T) {
		got := NormalizeWeeks([]WeekEntry{
			{Week: 3, AchievedQty: 30},
			{Week: 1, AchievedQty: 10},
		})
		if got[0].AchievedQty != 10 || got[2].AchievedQty != 30 {
			t.Errorf("entries not slotted by week number: %+v", got)
		}
		if got[1].AchievedQty != 0 || got[3].AchievedQty != 0 {
			t.Errorf("missing weeks not zero-filled: %+v", got)
		}
	})

	t.Run("week numbers are always 1..4", func(t *testing.T) {
		got := NormalizeWeeks(nil)
		for i, w := range got {
			if w.Week != i+1 {
				t.Errorf("week[%d].Week = %d, want %d", i, w.Week, i+1)
			}
		}
	})

	t.Run("out of range week falls back to position", func(t *testing.T) {
		got := NormalizeWeeks([]WeekEntry{
			{Week: 0, AchievedQty: 5},
			{Week: 99, AchievedQty: 6},
		})
		if got[0].AchievedQty != 5 {
			t.Errorf("week 0 should land in slot 1: %+v", got)
		}
		if got[1].AchievedQty != 6 {
			t.Errorf("week 99 should land in next position: %+v", got)
		}
	})

	t.Run("excess entries are truncated", func(t *testing.T) {
		got := NormalizeWeeks([]WeekEntry{
			{Week: 1, AchievedQty: 1},
			{Week: 2, AchievedQty: 2},
			{Week: 3, AchievedQty: 3},
			{Week: 4, AchievedQty: 4},
			{Week: 0, AchievedQty: 5},
		})
		total := 0.0
		for _, w := range got {
			total += w.AchievedQty
		}
		if total != 10 {
			t.Errorf("excess entry not dropped, total = %v, want 10", total)
		}
	})
}

func TestWeekEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   WeekEntry
		wantErr bool
	}{
		{"all zero is fine", WeekEntry{Week: 1}, false},
		{"positive values", WeekEntry{Week: 2, TargetedQty: 5, AchievedQty: 4, ConsumedManhours: 1.5}, false},
		{"negative targeted", WeekEntry{Week: 1, TargetedQty: -1}, true},
		{"negative achieved", WeekEntry{Week: 1, AchievedQty: -0.5}, true},
		{"negative manhours", WeekEntry{Week: 1, ConsumedManhours: -2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var ierr *InvalidInputError
				if !errors.As(err, &ierr) {
					t.Errorf("error type = %T, want *InvalidInputError", err)
				}
			}
		})
	}
}

func TestWeeklyProgressRecord_Validate(t *testing.T) {
	valid := WeeklyProgressRecord{
		Year:  2025,
		Month: 3,
		Weeks: NormalizeWeeks([]WeekEntry{{Week: 1, AchievedQty: 10, ConsumedManhours: 2}}),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	t.Run("invalid period", func(t *testing.T) {
		rec := valid
		rec.Month = 13
		if err := rec.Validate(); err == nil {
			t.Error("month 13 accepted")
		}
	})

	t.Run("negative lapsed manhours", func(t *testing.T) {
		rec := valid
		rec.AdditionalLapsedManhours = -1
		if err := rec.Validate(); err == nil {
			t.Error("negative lapsed manhours accepted")
		}
	})

	t.Run("justification over limit", func(t *testing.T) {
		rec := valid
		rec.Justification = strings.Repeat("x", 1001)
		if err := rec.Validate(); err == nil {
			t.Error("over-long justification accepted")
		}
		rec.Justification = strings.Repeat("x", 1000)
		if err := rec.Validate(); err != nil {
			t.Errorf("justification at limit rejected: %v", err)
		}
	})
}

func TestProjectTask_ManhoursFor(t *testing.T) {
	task := ProjectTask{Productivity: 64}
	if got := task.ManhoursFor(256); got != 4.0 {
		t.Errorf("ManhoursFor(256) = %v, want 4.0", got)
	}
	if got := task.ManhoursFor(110); got != 1.71875 {
		t.Errorf("ManhoursFor(110) = %v, want 1.71875", got)
	}

	zero := ProjectTask{Productivity: 0}
	if got := zero.ManhoursFor(100); got != 0 {
		t.Errorf("zero productivity ManhoursFor = %v, want 0", got)
	}
}

func TestProjectTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		task    ProjectTask
		wantErr bool
	}{
		{"valid", ProjectTask{ProjectID: "P-1", BudgetedQuantity: 10, Productivity: 2}, false},
		{"empty project id", ProjectTask{ProjectID: "  "}, true},
		{"negative budget", ProjectTask{ProjectID: "P-1", BudgetedQuantity: -1}, true},
		{"negative productivity", ProjectTask{ProjectID: "P-1", Productivity: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.task.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
