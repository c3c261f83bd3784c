package progress

import (
	"github.com/google/uuid"

	"sitetrack/internal/catalog"
	"sitetrack/internal/core"
)

// BindOverrides optionally replaces catalog defaults at binding time. Nil
// fields fall back to the sub-task's catalog values.
type BindOverrides struct {
	BudgetedQuantity      *float64
	Productivity          *float64
	TotalBudgetedManhours *float64
}

// Binder instantiates project tasks from catalog sub-tasks, capturing the
// budget baseline at the moment of binding.
type Binder struct {
	catalog *catalog.Store
	tracker *Tracker
}

func NewBinder(cat *catalog.Store, tracker *Tracker) *Binder {
	return &Binder{catalog: cat, tracker: tracker}
}

// Bind creates a ProjectTask for (projectID, subTaskID). The sub-task must
// resolve and be active; rebinding the same pair fails with AlreadyBound.
// Budgeted manhours come from the override when supplied, otherwise from
// quantity over productivity.
func (b *Binder) Bind(projectID string, subTaskID uuid.UUID, ov *BindOverrides) (core.ProjectTask, error) {
	st, err := b.catalog.GetSubTask(subTaskID)
	if err != nil {
		return core.ProjectTask{}, err
	}
	if !st.IsActive {
		return core.ProjectTask{}, &core.NotFoundError{Kind: "subTask", ID: subTaskID.String()}
	}

	categoryName := ""
	if act, err := b.catalog.GetActivity(st.ActivityID); err == nil {
		if cat, err := b.catalog.GetCategory(act.CategoryID); err == nil {
			categoryName = cat.Name
		}
	}

	task := core.ProjectTask{
		ProjectID:        projectID,
		SubTaskID:        st.ID,
		CategoryName:     categoryName,
		TaskName:         st.Name,
		Unit:             st.Unit,
		BudgetedQuantity: 0,
		Productivity:     st.DefaultProductivity,
	}
	if ov != nil {
		if ov.BudgetedQuantity != nil {
			task.BudgetedQuantity = *ov.BudgetedQuantity
		}
		if ov.Productivity != nil {
			task.Productivity = *ov.Productivity
		}
	}
	if err := task.Validate(); err != nil {
		return core.ProjectTask{}, err
	}

	switch {
	case ov != nil && ov.TotalBudgetedManhours != nil:
		task.TotalBudgetedManhours = *ov.TotalBudgetedManhours
	default:
		task.TotalBudgetedManhours = task.ManhoursFor(task.BudgetedQuantity)
	}

	return b.tracker.add(task)
}
