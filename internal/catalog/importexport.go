package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sitetrack/internal/core"
)

// Import/export payload in the wire shape shared with the REST boundary.
// ExportAll produces exactly what ImportBulk accepts, so a round trip through
// the two is lossless.
type (
	ImportPayload struct {
		Categories []CategoryPayload `json:"categories"`
	}

	CategoryPayload struct {
		Code        string            `json:"code"`
		Name        string            `json:"name"`
		Description string            `json:"description,omitempty"`
		Order       int               `json:"order"`
		Activities  []ActivityPayload `json:"activities"`
	}

	ActivityPayload struct {
		Code        string           `json:"code"`
		Name        string           `json:"name"`
		Description string           `json:"description,omitempty"`
		DefaultUnit string           `json:"defaultUnit"`
		Order       int              `json:"order"`
		SubTasks    []SubTaskPayload `json:"subTasks"`
	}

	SubTaskPayload struct {
		Name                string  `json:"name"`
		Description         string  `json:"description,omitempty"`
		DefaultProductivity float64 `json:"defaultProductivity"`
		Unit                string  `json:"unit"`
		Order               int     `json:"order"`
	}
)

// ImportResult reports how the bulk upsert went. Failures enumerates nodes
// that could not be applied; siblings applied before a failure stay applied.
type ImportResult struct {
	CategoriesCreatedOrUpdated int             `json:"categoriesCreatedOrUpdated"`
	ActivitiesCreatedOrUpdated int             `json:"activitiesCreatedOrUpdated"`
	SubTasksCreatedOrUpdated   int             `json:"subTasksCreatedOrUpdated"`
	Failures                   []ImportFailure `json:"failures,omitempty"`
}

// ImportFailure identifies one rejected node by its payload path.
type ImportFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ImportBulk merges a payload into the catalog, upserting by natural key:
// categories by code, activities by code within their category, sub-tasks by
// name within their activity.
//
// The whole payload is validated before anything is written; a malformed
// payload returns a ValidationError and the store is untouched. Once
// validation passes, node upserts are applied independently and a failing
// node does not roll back siblings already applied.
func (s *Store) ImportBulk(payload ImportPayload) (ImportResult, error) {
	if err := validatePayload(payload); err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	for ci, cp := range payload.Categories {
		catPath := fmt.Sprintf("categories[%d]", ci)
		cat, err := s.upsertCategory(cp)
		if err != nil {
			res.Failures = append(res.Failures, ImportFailure{Path: catPath, Error: err.Error()})
			continue
		}
		res.CategoriesCreatedOrUpdated++

		for ai, ap := range cp.Activities {
			actPath := fmt.Sprintf("%s.activities[%d]", catPath, ai)
			act, err := s.upsertActivity(cat.ID, ap)
			if err != nil {
				res.Failures = append(res.Failures, ImportFailure{Path: actPath, Error: err.Error()})
				continue
			}
			res.ActivitiesCreatedOrUpdated++

			for sti, stp := range ap.SubTasks {
				if err := s.upsertSubTask(act.ID, stp); err != nil {
					res.Failures = append(res.Failures, ImportFailure{
						Path:  fmt.Sprintf("%s.subTasks[%d]", actPath, sti),
						Error: err.Error(),
					})
					continue
				}
				res.SubTasksCreatedOrUpdated++
			}
		}
	}
	return res, nil
}

// ExportAll returns the full tree in the import payload shape.
func (s *Store) ExportAll() ImportPayload {
	tree := s.Hierarchy()
	payload := ImportPayload{Categories: make([]CategoryPayload, 0, len(tree))}
	for _, c := range tree {
		cp := CategoryPayload{
			Code:        c.Code,
			Name:        c.Name,
			Description: c.Description,
			Order:       c.Order,
			Activities:  make([]ActivityPayload, 0, len(c.Activities)),
		}
		for _, a := range c.Activities {
			ap := ActivityPayload{
				Code:        a.Code,
				Name:        a.Name,
				Description: a.Description,
				DefaultUnit: string(a.DefaultUnit),
				Order:       a.Order,
				SubTasks:    make([]SubTaskPayload, 0, len(a.SubTasks)),
			}
			for _, st := range a.SubTasks {
				ap.SubTasks = append(ap.SubTasks, SubTaskPayload{
					Name:                st.Name,
					Description:         st.Description,
					DefaultProductivity: st.DefaultProductivity,
					Unit:                string(st.Unit),
					Order:               st.Order,
				})
			}
			cp.Activities = append(cp.Activities, ap)
		}
		payload.Categories = append(payload.Categories, cp)
	}
	return payload
}

func validatePayload(payload ImportPayload) error {
	if payload.Categories == nil {
		return &core.ValidationError{Field: "categories", Reason: "missing categories array"}
	}
	for ci, cp := range payload.Categories {
		if strings.TrimSpace(cp.Code) == "" {
			return &core.ValidationError{
				Field:  fmt.Sprintf("categories[%d].code", ci),
				Reason: "must not be empty",
			}
		}
		if len(core.NormalizeCode(cp.Code)) > 10 {
			return &core.ValidationError{
				Field:  fmt.Sprintf("categories[%d].code", ci),
				Reason: "must be at most 10 characters",
			}
		}
		if strings.TrimSpace(cp.Name) == "" {
			return &core.ValidationError{
				Field:  fmt.Sprintf("categories[%d].name", ci),
				Reason: "must not be empty",
			}
		}
		for ai, ap := range cp.Activities {
			if strings.TrimSpace(ap.Code) == "" {
				return &core.ValidationError{
					Field:  fmt.Sprintf("categories[%d].activities[%d].code", ci, ai),
					Reason: "must not be empty",
				}
			}
			if strings.TrimSpace(ap.Name) == "" {
				return &core.ValidationError{
					Field:  fmt.Sprintf("categories[%d].activities[%d].name", ci, ai),
					Reason: "must not be empty",
				}
			}
			if strings.TrimSpace(ap.DefaultUnit) == "" {
				return &core.ValidationError{
					Field:  fmt.Sprintf("categories[%d].activities[%d].defaultUnit", ci, ai),
					Reason: "must not be empty",
				}
			}
			for sti, stp := range ap.SubTasks {
				if strings.TrimSpace(stp.Name) == "" {
					return &core.ValidationError{
						Field:  fmt.Sprintf("categories[%d].activities[%d].subTasks[%d].name", ci, ai, sti),
						Reason: "must not be empty",
					}
				}
				if strings.TrimSpace(stp.Unit) == "" {
					return &core.ValidationError{
						Field:  fmt.Sprintf("categories[%d].activities[%d].subTasks[%d].unit", ci, ai, sti),
						Reason: "must not be empty",
					}
				}
				if stp.DefaultProductivity < 0 {
					return &core.ValidationError{
						Field:  fmt.Sprintf("categories[%d].activities[%d].subTasks[%d].defaultProductivity", ci, ai, sti),
						Reason: "must not be negative",
					}
				}
			}
		}
	}
	return nil
}

func (s *Store) upsertCategory(cp CategoryPayload) (core.MasterCategory, error) {
	code := core.NormalizeCode(cp.Code)

	s.mu.Lock()
	existing, ok := s.categoryByCode(code)
	s.mu.Unlock()

	if ok {
		existing.Name = cp.Name
		existing.Description = cp.Description
		existing.Order = cp.Order
		return s.UpdateCategory(existing.ID, existing)
	}
	return s.CreateCategory(core.MasterCategory{
		Code:        code,
		Name:        cp.Name,
		Description: cp.Description,
		Order:       cp.Order,
	})
}

func (s *Store) upsertActivity(categoryID uuid.UUID, ap ActivityPayload) (core.MasterActivity, error) {
	code := core.NormalizeCode(ap.Code)

	s.mu.Lock()
	existing, ok := s.activityByCode(categoryID, code)
	s.mu.Unlock()

	if ok {
		existing.Name = ap.Name
		existing.Description = ap.Description
		existing.DefaultUnit = core.Unit(ap.DefaultUnit)
		existing.Order = ap.Order
		return s.UpdateActivity(existing.ID, existing)
	}
	return s.CreateActivity(core.MasterActivity{
		CategoryID:  categoryID,
		Code:        code,
		Name:        ap.Name,
		Description: ap.Description,
		DefaultUnit: core.Unit(ap.DefaultUnit),
		Order:       ap.Order,
	})
}

func (s *Store) upsertSubTask(activityID uuid.UUID, stp SubTaskPayload) error {
	s.mu.Lock()
	var existing core.MasterSubTask
	found := false
	for _, st := range s.subTasks {
		if st.ActivityID == activityID && st.Name == stp.Name {
			existing = st
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		existing.Description = stp.Description
		existing.DefaultProductivity = stp.DefaultProductivity
		existing.Unit = core.Unit(stp.Unit)
		existing.Order = stp.Order
		_, err := s.UpdateSubTask(existing.ID, existing)
		return err
	}
	_, err := s.CreateSubTask(core.MasterSubTask{
		ActivityID:          activityID,
		Name:                stp.Name,
		Description:         stp.Description,
		DefaultProductivity: stp.DefaultProductivity,
		Unit:                core.Unit(stp.Unit),
		Order:               stp.Order,
	})
	return err
}
