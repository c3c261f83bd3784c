package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitetrack/internal/catalog"
	"sitetrack/internal/core"
	"sitetrack/internal/progress"
	"sitetrack/internal/storage"
)

func newServices(t *testing.T, repo *storage.SQLiteRepository) (*CatalogService, *ProgressService, *catalog.Store) {
	t.Helper()
	store := catalog.NewStore()
	tracker := progress.NewTracker()
	catalogSvc := NewCatalogService(store, repo)
	progressSvc := NewProgressService(
		tracker,
		progress.NewBinder(store, tracker),
		progress.NewRecorder(tracker),
		repo, nil,
	)
	return catalogSvc, progressSvc, store
}

func newRepo(t *testing.T, dir string) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(dir, "sitetrack.db"))
	require.NoError(t, err)
	return repo
}

func seedViaServices(t *testing.T, catalogSvc *CatalogService, progressSvc *ProgressService) core.ProjectTask {
	t.Helper()
	ctx := context.Background()

	cat, err := catalogSvc.CreateCategory(ctx, core.MasterCategory{Code: "EARTH", Name: "Earthworks"})
	require.NoError(t, err)
	act, err := catalogSvc.CreateActivity(ctx, core.MasterActivity{
		CategoryID: cat.ID, Code: "EXC", Name: "Excavation", DefaultUnit: core.UnitCubicMeter,
	})
	require.NoError(t, err)
	budget := 256.0
	st, err := catalogSvc.CreateSubTask(ctx, core.MasterSubTask{
		ActivityID: act.ID, Name: "Bulk excavation", Unit: core.UnitCubicMeter, DefaultProductivity: 64,
	})
	require.NoError(t, err)

	task, err := progressSvc.BindTask(ctx, "P-100", st.ID, &progress.BindOverrides{BudgetedQuantity: &budget})
	require.NoError(t, err)

	_, _, err = progressSvc.RecordProgress(ctx, task.ID, progress.Submission{
		Year: 2025, Month: 3,
		WeeklyData: []core.WeekEntry{
			{Week: 1, TargetedQty: 60, AchievedQty: 50, ConsumedManhours: 1},
			{Week: 2, TargetedQty: 60, AchievedQty: 60, ConsumedManhours: 1.2},
		},
	})
	require.NoError(t, err)
	return task
}

func TestServices_WriteThroughAndRestore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo := newRepo(t, dir)
	catalogSvc, progressSvc, _ := newServices(t, repo)
	task := seedViaServices(t, catalogSvc, progressSvc)
	require.NoError(t, repo.Close())

	// A fresh process over the same database must see everything.
	repo2 := newRepo(t, dir)
	t.Cleanup(func() { _ = repo2.Close() })
	catalogSvc2, progressSvc2, store2 := newServices(t, repo2)

	require.NoError(t, catalogSvc2.LoadFromStorage(ctx))
	require.NoError(t, progressSvc2.LoadFromStorage(ctx))

	cats, acts, subs := store2.Counts()
	assert.Equal(t, 1, cats)
	assert.Equal(t, 1, acts)
	assert.Equal(t, 1, subs)

	restored, err := progressSvc2.Task(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, restored)

	rec, ok := progressSvc2.RecordFor(task.ID, core.Period{Year: 2025, Month: 3})
	require.True(t, ok)
	assert.Equal(t, 50.0, rec.Weeks[0].AchievedQty)

	t.Run("restored binding still blocks a rebind", func(t *testing.T) {
		budget := 1.0
		_, err := progressSvc2.BindTask(ctx, "P-100", task.SubTaskID, &progress.BindOverrides{BudgetedQuantity: &budget})
		var bound *core.AlreadyBoundError
		require.ErrorAs(t, err, &bound)
	})

	t.Run("report sees restored data", func(t *testing.T) {
		rpt := progressSvc2.MonthlyReport("P-100", core.Period{Year: 2025, Month: 3}, core.Period{Year: 2025, Month: 3})
		require.Len(t, rpt.Rows, 1)
		require.True(t, rpt.Rows[0].Cells[0].Recorded)
		assert.Equal(t, 110.0, rpt.Rows[0].TotalInstalledQuantity)
	})
}

func TestServices_MemoryBackend(t *testing.T) {
	// Nil repo and nil AMQP: everything must work purely in memory.
	catalogSvc, progressSvc, _ := newServices(t, nil)
	ctx := context.Background()

	require.NoError(t, catalogSvc.LoadFromStorage(ctx))
	require.NoError(t, progressSvc.LoadFromStorage(ctx))

	task := seedViaServices(t, catalogSvc, progressSvc)

	sum := progressSvc.Dashboard("P-100", core.Period{Year: 2025, Month: 3})
	assert.Equal(t, 1, sum.TotalTasks)
	assert.Equal(t, 110.0, sum.TotalInstalledQuantity)

	_, err := progressSvc.Task(task.ID)
	assert.NoError(t, err)
	assert.NoError(t, progressSvc.Close())
}

func TestCatalogService_ImportExport(t *testing.T) {
	catalogSvc, _, _ := newServices(t, nil)
	ctx := context.Background()

	payload := catalog.ImportPayload{
		Categories: []catalog.CategoryPayload{
			{
				Code: "STR", Name: "Structural",
				Activities: []catalog.ActivityPayload{
					{
						Code: "CONC", Name: "Concreting", DefaultUnit: "Cu.m",
						SubTasks: []catalog.SubTaskPayload{
							{Name: "Pour foundation", DefaultProductivity: 1.5, Unit: "Cu.m"},
						},
					},
				},
			},
		},
	}

	res, err := catalogSvc.Import(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CategoriesCreatedOrUpdated)

	exported := catalogSvc.Export()
	require.Len(t, exported.Categories, 1)
	assert.Equal(t, "STR", exported.Categories[0].Code)

	t.Run("hierarchy filter narrows the tree", func(t *testing.T) {
		tree := catalogSvc.Hierarchy("pour")
		require.Len(t, tree, 1)
		require.Len(t, tree[0].Activities, 1)
		assert.Len(t, tree[0].Activities[0].SubTasks, 1)
	})

	t.Run("flatten", func(t *testing.T) {
		rows, err := catalogSvc.Flatten(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}
