package core

import (
	"strings"

	"github.com/google/uuid"
)

// Unit is the unit of measure for a catalog sub-task or bound task.
// The set is open-ended; the constants cover the units the catalog ships with.
type Unit string

const (
	UnitNumber      Unit = "No"
	UnitMeter       Unit = "m"
	UnitSquareMeter Unit = "Sq.m"
	UnitCubicMeter  Unit = "Cu.m"
	UnitItem        Unit = "Item"
	UnitSet         Unit = "Set"
	UnitKilogram    Unit = "Kg"
	UnitLumpSum     Unit = "LS"
)

const maxCodeLength = 10

type (
	// MasterCategory is the root level of the catalog. A category exclusively
	// owns its activities; its code is unique across the whole catalog.
	MasterCategory struct {
		ID          uuid.UUID
		Code        string
		Name        string
		Description string
		Order       int
		IsActive    bool
		Activities  []MasterActivity
	}

	// MasterActivity is the middle level. Its code is unique within the
	// owning category.
	MasterActivity struct {
		ID          uuid.UUID
		CategoryID  uuid.UUID
		Code        string
		Name        string
		Description string
		DefaultUnit Unit
		Order       int
		IsActive    bool
		SubTasks    []MasterSubTask
	}

	// MasterSubTask is the leaf of the catalog. It carries no code; within an
	// activity it is identified by name.
	MasterSubTask struct {
		ID                  uuid.UUID
		ActivityID          uuid.UUID
		Name                string
		Description         string
		DefaultProductivity float64
		Unit                Unit
		Order               int
		IsActive            bool
	}
)

// NormalizeCode trims and upper-cases a catalog code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c MasterCategory) Validate() error {
	if err := validateCode(c.Code); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

func (a MasterActivity) Validate() error {
	if err := validateCode(a.Code); err != nil {
		return err
	}
	if strings.TrimSpace(a.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(string(a.DefaultUnit)) == "" {
		return &ValidationError{Field: "defaultUnit", Reason: "must not be empty"}
	}
	return nil
}

func (s MasterSubTask) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if s.DefaultProductivity < 0 {
		return &ValidationError{Field: "defaultProductivity", Reason: "must not be negative"}
	}
	if strings.TrimSpace(string(s.Unit)) == "" {
		return &ValidationError{Field: "unit", Reason: "must not be empty"}
	}
	return nil
}

func validateCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return &ValidationError{Field: "code", Reason: "must not be empty"}
	}
	if len(code) > maxCodeLength {
		return &ValidationError{Field: "code", Reason: "must be at most 10 characters"}
	}
	if code != strings.ToUpper(code) {
		return &ValidationError{Field: "code", Reason: "must be uppercase"}
	}
	return nil
}
