package progress

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitetrack/internal/core"
)

func boundTask(t *testing.T) (*Tracker, *Recorder, core.ProjectTask) {
	t.Helper()
	b, tracker, _, st := newBinder(t)
	task, err := b.Bind("P-100", st.ID, &BindOverrides{BudgetedQuantity: floatPtr(256)})
	require.NoError(t, err)
	return tracker, NewRecorder(tracker), task
}

func TestRecorder_Record(t *testing.T) {
	tracker, rec, task := boundTask(t)

	gotTask, gotRec, err := rec.Record(task.ID, Submission{
		Year:  2025,
		Month: 3,
		WeeklyData: []core.WeekEntry{
			{Week: 1, TargetedQty: 60, AchievedQty: 50, ConsumedManhours: 1},
			{Week: 3, TargetedQty: 60, AchievedQty: 60, ConsumedManhours: 1.2},
		},
		Justification: "rain delay in week two",
	})
	require.NoError(t, err)
	assert.Equal(t, task.ID, gotTask.ID)

	assert.Equal(t, 50.0, gotRec.Weeks[0].AchievedQty)
	assert.Equal(t, 0.0, gotRec.Weeks[1].AchievedQty, "missing week zero-filled")
	assert.Equal(t, 60.0, gotRec.Weeks[2].AchievedQty)

	stored, ok := tracker.RecordFor(task.ID, core.Period{Year: 2025, Month: 3})
	require.True(t, ok)
	assert.Equal(t, gotRec, stored)
}

func TestRecorder_Record_ReplacesWhole(t *testing.T) {
	tracker, rec, task := boundTask(t)

	_, _, err := rec.Record(task.ID, Submission{
		Year: 2025, Month: 3,
		WeeklyData: []core.WeekEntry{
			{Week: 1, AchievedQty: 10},
			{Week: 2, AchievedQty: 20},
		},
	})
	require.NoError(t, err)

	// Re-submission carries only week 1; the previous week 2 must not survive.
	_, _, err = rec.Record(task.ID, Submission{
		Year: 2025, Month: 3,
		WeeklyData: []core.WeekEntry{{Week: 1, AchievedQty: 15}},
	})
	require.NoError(t, err)

	stored, ok := tracker.RecordFor(task.ID, core.Period{Year: 2025, Month: 3})
	require.True(t, ok)
	assert.Equal(t, 15.0, stored.Weeks[0].AchievedQty)
	assert.Equal(t, 0.0, stored.Weeks[1].AchievedQty, "replacement is whole, not a merge")
}

func TestRecorder_Record_Rejections(t *testing.T) {
	tracker, rec, task := boundTask(t)

	tests := []struct {
		name string
		sub  Submission
	}{
		{
			name: "negative achieved quantity",
			sub: Submission{Year: 2025, Month: 3,
				WeeklyData: []core.WeekEntry{{Week: 1, AchievedQty: -5}}},
		},
		{
			name: "negative consumed manhours",
			sub: Submission{Year: 2025, Month: 3,
				WeeklyData: []core.WeekEntry{{Week: 1, ConsumedManhours: -1}}},
		},
		{
			name: "negative lapsed manhours",
			sub:  Submission{Year: 2025, Month: 3, AdditionalLapsedManhours: -2},
		},
		{
			name: "month out of range",
			sub:  Submission{Year: 2025, Month: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := rec.Record(task.ID, tt.sub)
			require.Error(t, err)

			_, ok := tracker.RecordFor(task.ID, core.Period{Year: tt.sub.Year, Month: tt.sub.Month})
			assert.False(t, ok, "rejected submission must not be committed")
		})
	}

	t.Run("unknown task", func(t *testing.T) {
		_, _, err := rec.Record(uuid.New(), Submission{Year: 2025, Month: 3})
		var nf *core.NotFoundError
		require.ErrorAs(t, err, &nf)
	})
}

func TestTracker_TasksFor_Ordering(t *testing.T) {
	tracker := NewTracker()
	restore := []core.ProjectTask{
		{ID: uuid.New(), ProjectID: "P-1", SubTaskID: uuid.New(), CategoryName: "Mechanical", TaskName: "Ducts"},
		{ID: uuid.New(), ProjectID: "P-1", SubTaskID: uuid.New(), CategoryName: "Earthworks", TaskName: "Excavation"},
		{ID: uuid.New(), ProjectID: "P-1", SubTaskID: uuid.New(), CategoryName: "Earthworks", TaskName: "Backfill"},
		{ID: uuid.New(), ProjectID: "P-2", SubTaskID: uuid.New(), CategoryName: "Other", TaskName: "Other"},
	}
	tracker.Restore(restore, nil)

	got := tracker.TasksFor("P-1")
	require.Len(t, got, 3)
	assert.Equal(t, "Backfill", got[0].TaskName)
	assert.Equal(t, "Excavation", got[1].TaskName)
	assert.Equal(t, "Ducts", got[2].TaskName)
}

func TestTracker_Restore(t *testing.T) {
	taskID := uuid.New()
	tasks := []core.ProjectTask{
		{ID: taskID, ProjectID: "P-1", SubTaskID: uuid.New(), TaskName: "Excavation"},
	}
	records := []core.WeeklyProgressRecord{
		{TaskID: taskID, Year: 2025, Month: 3},
		{TaskID: uuid.New(), Year: 2025, Month: 3}, // orphan, must be dropped
	}

	tracker := NewTracker()
	tracker.Restore(tasks, records)

	_, ok := tracker.RecordFor(taskID, core.Period{Year: 2025, Month: 3})
	assert.True(t, ok)

	set := tracker.RecordsFor("P-1")
	require.Len(t, set, 1)

	t.Run("binding is restored too", func(t *testing.T) {
		// Rebinding the restored pair must conflict.
		_, err := tracker.add(core.ProjectTask{
			ProjectID: "P-1", SubTaskID: tasks[0].SubTaskID,
		})
		var bound *core.AlreadyBoundError
		require.ErrorAs(t, err, &bound)
	})
}
