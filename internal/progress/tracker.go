// Package progress owns project task bindings and their weekly progress
// records. The Tracker is the only mutation surface; reads hand out copies.
package progress

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"sitetrack/internal/core"
	"sitetrack/internal/report"
)

type bindingKey struct {
	projectID string
	subTaskID uuid.UUID
}

// Tracker is the in-memory set of bound tasks and committed weekly records.
type Tracker struct {
	mu       sync.RWMutex
	tasks    map[uuid.UUID]core.ProjectTask
	bindings map[bindingKey]uuid.UUID
	records  map[uuid.UUID]map[string]core.WeeklyProgressRecord
}

func NewTracker() *Tracker {
	return &Tracker{
		tasks:    make(map[uuid.UUID]core.ProjectTask),
		bindings: make(map[bindingKey]uuid.UUID),
		records:  make(map[uuid.UUID]map[string]core.WeeklyProgressRecord),
	}
}

// add stores a new bound task. One catalog sub-task binds to at most one task
// per project.
func (t *Tracker) add(task core.ProjectTask) (core.ProjectTask, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := bindingKey{projectID: task.ProjectID, subTaskID: task.SubTaskID}
	if _, ok := t.bindings[key]; ok {
		return core.ProjectTask{}, &core.AlreadyBoundError{
			ProjectID: task.ProjectID,
			SubTaskID: task.SubTaskID.String(),
		}
	}
	task.ID = uuid.New()
	t.tasks[task.ID] = task
	t.bindings[key] = task.ID
	return task, nil
}

// put replaces the committed record for the task and period. The previous
// record for the same period, if any, is discarded whole.
func (t *Tracker) put(rec core.WeeklyProgressRecord) (core.ProjectTask, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[rec.TaskID]
	if !ok {
		return core.ProjectTask{}, &core.NotFoundError{Kind: "task", ID: rec.TaskID.String()}
	}
	byPeriod := t.records[rec.TaskID]
	if byPeriod == nil {
		byPeriod = make(map[string]core.WeeklyProgressRecord)
		t.records[rec.TaskID] = byPeriod
	}
	byPeriod[rec.Period().Key()] = rec
	return task, nil
}

// Task returns a bound task by id.
func (t *Tracker) Task(id uuid.UUID) (core.ProjectTask, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	task, ok := t.tasks[id]
	if !ok {
		return core.ProjectTask{}, &core.NotFoundError{Kind: "task", ID: id.String()}
	}
	return task, nil
}

// TasksFor returns a project's bound tasks ordered by category and task name.
func (t *Tracker) TasksFor(projectID string) []core.ProjectTask {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []core.ProjectTask
	for _, task := range t.tasks {
		if task.ProjectID == projectID {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CategoryName != out[j].CategoryName {
			return out[i].CategoryName < out[j].CategoryName
		}
		return out[i].TaskName < out[j].TaskName
	})
	return out
}

// RecordFor returns the committed record for one task and period.
func (t *Tracker) RecordFor(taskID uuid.UUID, p core.Period) (core.WeeklyProgressRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.records[taskID][p.Key()]
	return rec, ok
}

// RecordsFor snapshots all records for a project's tasks, keyed the way the
// aggregation functions expect.
func (t *Tracker) RecordsFor(projectID string) report.RecordSet {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(report.RecordSet)
	for id, task := range t.tasks {
		if task.ProjectID != projectID {
			continue
		}
		byPeriod := t.records[id]
		if len(byPeriod) == 0 {
			continue
		}
		cp := make(map[string]core.WeeklyProgressRecord, len(byPeriod))
		for k, v := range byPeriod {
			cp[k] = v
		}
		out[id] = cp
	}
	return out
}

// Restore replaces the tracker contents from persisted state.
func (t *Tracker) Restore(tasks []core.ProjectTask, records []core.WeeklyProgressRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tasks = make(map[uuid.UUID]core.ProjectTask, len(tasks))
	t.bindings = make(map[bindingKey]uuid.UUID, len(tasks))
	t.records = make(map[uuid.UUID]map[string]core.WeeklyProgressRecord)

	for _, task := range tasks {
		if task.ID == uuid.Nil {
			task.ID = uuid.New()
		}
		t.tasks[task.ID] = task
		t.bindings[bindingKey{projectID: task.ProjectID, subTaskID: task.SubTaskID}] = task.ID
	}
	for _, rec := range records {
		if _, ok := t.tasks[rec.TaskID]; !ok {
			continue
		}
		byPeriod := t.records[rec.TaskID]
		if byPeriod == nil {
			byPeriod = make(map[string]core.WeeklyProgressRecord)
			t.records[rec.TaskID] = byPeriod
		}
		byPeriod[rec.Period().Key()] = rec
	}
}
