package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"sitetrack/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the catalog arena, task bindings and weekly
// records. The in-memory stores stay authoritative at runtime; the
// repository is written through on every mutation and read back in full at
// startup.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceCatalog rewrites the persisted catalog from an assembled tree in a
// single transaction. Called after every catalog mutation; the catalog is
// small enough that a full snapshot beats diffing node by node.
func (r *SQLiteRepository) ReplaceCatalog(ctx context.Context, tree []core.MasterCategory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"sub_tasks", "activities", "categories"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, c := range tree {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, code, name, description, sort_order, is_active)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID.String(), c.Code, c.Name, c.Description, c.Order, boolToInt(c.IsActive))
		if err != nil {
			return fmt.Errorf("insert category %s: %w", c.Code, err)
		}
		for _, a := range c.Activities {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO activities (id, category_id, code, name, description, default_unit, sort_order, is_active)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				a.ID.String(), c.ID.String(), a.Code, a.Name, a.Description, string(a.DefaultUnit), a.Order, boolToInt(a.IsActive))
			if err != nil {
				return fmt.Errorf("insert activity %s: %w", a.Code, err)
			}
			for _, st := range a.SubTasks {
				_, err := tx.ExecContext(ctx,
					`INSERT INTO sub_tasks (id, activity_id, name, description, default_productivity, unit, sort_order, is_active)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
					st.ID.String(), a.ID.String(), st.Name, st.Description, st.DefaultProductivity, string(st.Unit), st.Order, boolToInt(st.IsActive))
				if err != nil {
					return fmt.Errorf("insert sub-task %s: %w", st.Name, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog tx: %w", err)
	}

	slog.DebugContext(ctx, "Catalog snapshot persisted", "categories", len(tree))
	return nil
}

// LoadCatalog reads the persisted catalog back into an assembled tree.
func (r *SQLiteRepository) LoadCatalog(ctx context.Context) ([]core.MasterCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, name, description, sort_order, is_active
		 FROM categories ORDER BY sort_order, code`)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()

	var cats []core.MasterCategory
	for rows.Next() {
		var c core.MasterCategory
		var id string
		var active int
		if err := rows.Scan(&id, &c.Code, &c.Name, &c.Description, &c.Order, &active); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse category id: %w", err)
		}
		c.IsActive = active != 0
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	for i := range cats {
		acts, err := r.loadActivities(ctx, cats[i].ID)
		if err != nil {
			return nil, err
		}
		cats[i].Activities = acts
	}
	return cats, nil
}

func (r *SQLiteRepository) loadActivities(ctx context.Context, categoryID uuid.UUID) ([]core.MasterActivity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, code, name, description, default_unit, sort_order, is_active
		 FROM activities WHERE category_id = ? ORDER BY sort_order, code`, categoryID.String())
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	defer rows.Close()

	var acts []core.MasterActivity
	for rows.Next() {
		var a core.MasterActivity
		var id, unit string
		var active int
		if err := rows.Scan(&id, &a.Code, &a.Name, &a.Description, &unit, &a.Order, &active); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse activity id: %w", err)
		}
		a.CategoryID = categoryID
		a.DefaultUnit = core.Unit(unit)
		a.IsActive = active != 0
		acts = append(acts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}

	for i := range acts {
		subs, err := r.loadSubTasks(ctx, acts[i].ID)
		if err != nil {
			return nil, err
		}
		acts[i].SubTasks = subs
	}
	return acts, nil
}

func (r *SQLiteRepository) loadSubTasks(ctx context.Context, activityID uuid.UUID) ([]core.MasterSubTask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, default_productivity, unit, sort_order, is_active
		 FROM sub_tasks WHERE activity_id = ? ORDER BY sort_order, name`, activityID.String())
	if err != nil {
		return nil, fmt.Errorf("load sub-tasks: %w", err)
	}
	defer rows.Close()

	var subs []core.MasterSubTask
	for rows.Next() {
		var st core.MasterSubTask
		var id, unit string
		var active int
		if err := rows.Scan(&id, &st.Name, &st.Description, &st.DefaultProductivity, &unit, &st.Order, &active); err != nil {
			return nil, fmt.Errorf("scan sub-task: %w", err)
		}
		st.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse sub-task id: %w", err)
		}
		st.ActivityID = activityID
		st.Unit = core.Unit(unit)
		st.IsActive = active != 0
		subs = append(subs, st)
	}
	return subs, rows.Err()
}

// SaveTask persists one task binding.
func (r *SQLiteRepository) SaveTask(ctx context.Context, t core.ProjectTask) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project_tasks
		 (id, project_id, sub_task_id, category_name, task_name, unit, budgeted_quantity, productivity, total_budgeted_manhours)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.ProjectID, t.SubTaskID.String(), t.CategoryName, t.TaskName,
		string(t.Unit), t.BudgetedQuantity, t.Productivity, t.TotalBudgetedManhours)
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}

	slog.InfoContext(ctx, "Task binding saved",
		"task_id", t.ID.String(),
		"project_id", t.ProjectID,
		"task_name", t.TaskName)
	return nil
}

// LoadTasks reads all persisted task bindings.
func (r *SQLiteRepository) LoadTasks(ctx context.Context) ([]core.ProjectTask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, sub_task_id, category_name, task_name, unit,
		        budgeted_quantity, productivity, total_budgeted_manhours
		 FROM project_tasks`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	var tasks []core.ProjectTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask reads one task binding by id.
func (r *SQLiteRepository) GetTask(ctx context.Context, id uuid.UUID) (core.ProjectTask, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, sub_task_id, category_name, task_name, unit,
		        budgeted_quantity, productivity, total_budgeted_manhours
		 FROM project_tasks WHERE id = ?`, id.String())
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return core.ProjectTask{}, &core.NotFoundError{Kind: "task", ID: id.String()}
	}
	return t, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (core.ProjectTask, error) {
	var t core.ProjectTask
	var id, subTaskID, unit string
	err := row.Scan(&id, &t.ProjectID, &subTaskID, &t.CategoryName, &t.TaskName, &unit,
		&t.BudgetedQuantity, &t.Productivity, &t.TotalBudgetedManhours)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.ProjectTask{}, err
		}
		return core.ProjectTask{}, fmt.Errorf("scan task: %w", err)
	}
	if t.ID, err = uuid.Parse(id); err != nil {
		return core.ProjectTask{}, fmt.Errorf("parse task id: %w", err)
	}
	if t.SubTaskID, err = uuid.Parse(subTaskID); err != nil {
		return core.ProjectTask{}, fmt.Errorf("parse sub-task id: %w", err)
	}
	t.Unit = core.Unit(unit)
	return t, nil
}

// SaveRecord upserts one weekly record and flags it pending for sync.
func (r *SQLiteRepository) SaveRecord(ctx context.Context, rec core.WeeklyProgressRecord) error {
	w := rec.Weeks
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO progress_records
		 (task_id, year, month,
		  w1_target, w1_achieved, w1_manhours,
		  w2_target, w2_achieved, w2_manhours,
		  w3_target, w3_achieved, w3_manhours,
		  w4_target, w4_achieved, w4_manhours,
		  additional_lapsed_manhours, justification, sync_status, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending', ?)
		 ON CONFLICT (task_id, year, month) DO UPDATE SET
		  w1_target=excluded.w1_target, w1_achieved=excluded.w1_achieved, w1_manhours=excluded.w1_manhours,
		  w2_target=excluded.w2_target, w2_achieved=excluded.w2_achieved, w2_manhours=excluded.w2_manhours,
		  w3_target=excluded.w3_target, w3_achieved=excluded.w3_achieved, w3_manhours=excluded.w3_manhours,
		  w4_target=excluded.w4_target, w4_achieved=excluded.w4_achieved, w4_manhours=excluded.w4_manhours,
		  additional_lapsed_manhours=excluded.additional_lapsed_manhours,
		  justification=excluded.justification,
		  sync_status='pending',
		  updated_at=excluded.updated_at`,
		rec.TaskID.String(), rec.Year, rec.Month,
		w[0].TargetedQty, w[0].AchievedQty, w[0].ConsumedManhours,
		w[1].TargetedQty, w[1].AchievedQty, w[1].ConsumedManhours,
		w[2].TargetedQty, w[2].AchievedQty, w[2].ConsumedManhours,
		w[3].TargetedQty, w[3].AchievedQty, w[3].ConsumedManhours,
		rec.AdditionalLapsedManhours, rec.Justification, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}

	slog.InfoContext(ctx, "Progress record saved",
		"task_id", rec.TaskID.String(),
		"year", rec.Year,
		"month", rec.Month)
	return nil
}

// GetRecord reads one weekly record by task and period.
func (r *SQLiteRepository) GetRecord(ctx context.Context, taskID uuid.UUID, year, month int) (core.WeeklyProgressRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT task_id, year, month,
		        w1_target, w1_achieved, w1_manhours,
		        w2_target, w2_achieved, w2_manhours,
		        w3_target, w3_achieved, w3_manhours,
		        w4_target, w4_achieved, w4_manhours,
		        additional_lapsed_manhours, justification
		 FROM progress_records WHERE task_id = ? AND year = ? AND month = ?`,
		taskID.String(), year, month)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return core.WeeklyProgressRecord{}, &core.NotFoundError{
			Kind: "progressRecord",
			ID:   fmt.Sprintf("%s@%04d-%02d", taskID, year, month),
		}
	}
	return rec, err
}

// LoadRecords reads all weekly records.
func (r *SQLiteRepository) LoadRecords(ctx context.Context) ([]core.WeeklyProgressRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, year, month,
		        w1_target, w1_achieved, w1_manhours,
		        w2_target, w2_achieved, w2_manhours,
		        w3_target, w3_achieved, w3_manhours,
		        w4_target, w4_achieved, w4_manhours,
		        additional_lapsed_manhours, justification
		 FROM progress_records`)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	var recs []core.WeeklyProgressRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func scanRecord(row rowScanner) (core.WeeklyProgressRecord, error) {
	var rec core.WeeklyProgressRecord
	var id string
	err := row.Scan(&id, &rec.Year, &rec.Month,
		&rec.Weeks[0].TargetedQty, &rec.Weeks[0].AchievedQty, &rec.Weeks[0].ConsumedManhours,
		&rec.Weeks[1].TargetedQty, &rec.Weeks[1].AchievedQty, &rec.Weeks[1].ConsumedManhours,
		&rec.Weeks[2].TargetedQty, &rec.Weeks[2].AchievedQty, &rec.Weeks[2].ConsumedManhours,
		&rec.Weeks[3].TargetedQty, &rec.Weeks[3].AchievedQty, &rec.Weeks[3].ConsumedManhours,
		&rec.AdditionalLapsedManhours, &rec.Justification)
	if err != nil {
		if err == sql.ErrNoRows {
			return core.WeeklyProgressRecord{}, err
		}
		return core.WeeklyProgressRecord{}, fmt.Errorf("scan record: %w", err)
	}
	if rec.TaskID, err = uuid.Parse(id); err != nil {
		return core.WeeklyProgressRecord{}, fmt.Errorf("parse record task id: %w", err)
	}
	for i := range rec.Weeks {
		rec.Weeks[i].Week = i + 1
	}
	return rec, nil
}

// PendingSyncRecord identifies a record awaiting spreadsheet sync.
type PendingSyncRecord struct {
	TaskID uuid.UUID
	Year   int
	Month  int
}

// PendingSyncRecords returns up to limit records flagged pending.
func (r *SQLiteRepository) PendingSyncRecords(ctx context.Context, limit int) ([]PendingSyncRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, year, month FROM progress_records
		 WHERE sync_status = 'pending' ORDER BY updated_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load pending sync records: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncRecord
	for rows.Next() {
		var p PendingSyncRecord
		var id string
		if err := rows.Scan(&id, &p.Year, &p.Month); err != nil {
			return nil, fmt.Errorf("scan pending record: %w", err)
		}
		if p.TaskID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse pending task id: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced flags a record as pushed to the reporting spreadsheet.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, taskID uuid.UUID, year, month int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE progress_records SET sync_status = 'synced' WHERE task_id = ? AND year = ? AND month = ?`,
		taskID.String(), year, month)
	if err != nil {
		return fmt.Errorf("mark record synced: %w", err)
	}
	return nil
}

// MarkSyncError flags a record whose spreadsheet push failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, taskID uuid.UUID, year, month int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE progress_records SET sync_status = 'error' WHERE task_id = ? AND year = ? AND month = ?`,
		taskID.String(), year, month)
	if err != nil {
		return fmt.Errorf("mark record sync error: %w", err)
	}
	slog.WarnContext(ctx, "Progress record marked with sync error",
		"task_id", taskID.String(), "year", year, "month", month)
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
