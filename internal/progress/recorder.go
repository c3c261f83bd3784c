package progress

import (
	"github.com/google/uuid"

	"sitetrack/internal/core"
)

// Submission is one weekly-breakdown submission for a task and period.
// WeeklyData may arrive with missing, extra or out-of-order weeks; it is
// normalized to exactly four entries before validation.
type Submission struct {
	Year                     int
	Month                    int
	WeeklyData               []core.WeekEntry
	AdditionalLapsedManhours float64
	Justification            string
}

// Recorder turns submissions into committed weekly records. Re-submitting
// the same (task, period) replaces the previous record whole.
type Recorder struct {
	tracker *Tracker
}

func NewRecorder(tracker *Tracker) *Recorder {
	return &Recorder{tracker: tracker}
}

// Record normalizes and commits a submission. Missing weeks zero-fill and
// excess weeks are truncated; negative quantities or manhours are rejected
// with InvalidInputError before anything is written.
func (r *Recorder) Record(taskID uuid.UUID, sub Submission) (core.ProjectTask, core.WeeklyProgressRecord, error) {
	rec := core.WeeklyProgressRecord{
		TaskID:                   taskID,
		Year:                     sub.Year,
		Month:                    sub.Month,
		Weeks:                    core.NormalizeWeeks(sub.WeeklyData),
		AdditionalLapsedManhours: sub.AdditionalLapsedManhours,
		Justification:            sub.Justification,
	}
	if err := rec.Validate(); err != nil {
		return core.ProjectTask{}, core.WeeklyProgressRecord{}, err
	}

	task, err := r.tracker.put(rec)
	if err != nil {
		return core.ProjectTask{}, core.WeeklyProgressRecord{}, err
	}
	return task, rec, nil
}
