package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"sitetrack/internal/catalog"
	"sitetrack/internal/core"
	"sitetrack/internal/storage"
)

// CatalogService orchestrates catalog mutations across the in-memory store
// and SQLite. The store stays authoritative; every successful mutation writes
// a full snapshot through to the repository.
type CatalogService struct {
	store   *catalog.Store
	storage *storage.SQLiteRepository
}

func NewCatalogService(store *catalog.Store, repo *storage.SQLiteRepository) *CatalogService {
	return &CatalogService{
		store:   store,
		storage: repo,
	}
}

// LoadFromStorage restores the catalog from the persisted snapshot.
func (s *CatalogService) LoadFromStorage(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	tree, err := s.storage.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	s.store.Restore(tree)

	cats, acts, subs := s.store.Counts()
	slog.InfoContext(ctx, "Catalog restored from storage",
		"categories", cats, "activities", acts, "sub_tasks", subs)
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, c core.MasterCategory) (core.MasterCategory, error) {
	created, err := s.store.CreateCategory(c)
	if err != nil {
		return core.MasterCategory{}, err
	}
	s.persistCatalog(ctx)
	return created, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, upd core.MasterCategory) (core.MasterCategory, error) {
	updated, err := s.store.UpdateCategory(id, upd)
	if err != nil {
		return core.MasterCategory{}, err
	}
	s.persistCatalog(ctx)
	return updated, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteCategory(id); err != nil {
		return err
	}
	s.persistCatalog(ctx)
	return nil
}

func (s *CatalogService) CreateActivity(ctx context.Context, a core.MasterActivity) (core.MasterActivity, error) {
	created, err := s.store.CreateActivity(a)
	if err != nil {
		return core.MasterActivity{}, err
	}
	s.persistCatalog(ctx)
	return created, nil
}

func (s *CatalogService) UpdateActivity(ctx context.Context, id uuid.UUID, upd core.MasterActivity) (core.MasterActivity, error) {
	updated, err := s.store.UpdateActivity(id, upd)
	if err != nil {
		return core.MasterActivity{}, err
	}
	s.persistCatalog(ctx)
	return updated, nil
}

func (s *CatalogService) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteActivity(id); err != nil {
		return err
	}
	s.persistCatalog(ctx)
	return nil
}

func (s *CatalogService) CreateSubTask(ctx context.Context, st core.MasterSubTask) (core.MasterSubTask, error) {
	created, err := s.store.CreateSubTask(st)
	if err != nil {
		return core.MasterSubTask{}, err
	}
	s.persistCatalog(ctx)
	return created, nil
}

func (s *CatalogService) UpdateSubTask(ctx context.Context, id uuid.UUID, upd core.MasterSubTask) (core.MasterSubTask, error) {
	updated, err := s.store.UpdateSubTask(id, upd)
	if err != nil {
		return core.MasterSubTask{}, err
	}
	s.persistCatalog(ctx)
	return updated, nil
}

func (s *CatalogService) DeleteSubTask(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteSubTask(id); err != nil {
		return err
	}
	s.persistCatalog(ctx)
	return nil
}

// Hierarchy returns the assembled tree, narrowed by query when non-empty.
func (s *CatalogService) Hierarchy(query string) []core.MasterCategory {
	tree := s.store.Hierarchy()
	if query == "" {
		return tree
	}
	return catalog.FilterTree(tree, query)
}

// Flatten walks the tree into spreadsheet-shaped rows in cancellable chunks.
func (s *CatalogService) Flatten(ctx context.Context, chunkSize int) ([]catalog.FlatRow, error) {
	return catalog.Flatten(ctx, s.store.Hierarchy(), chunkSize)
}

// Import upserts a bulk payload and persists the resulting catalog. Nodes
// that fail validation are reported in the result without blocking the rest.
func (s *CatalogService) Import(ctx context.Context, payload catalog.ImportPayload) (catalog.ImportResult, error) {
	result, err := s.store.ImportBulk(payload)
	if err != nil {
		return catalog.ImportResult{}, err
	}
	s.persistCatalog(ctx)

	slog.InfoContext(ctx, "Catalog import applied",
		"categories", result.CategoriesCreatedOrUpdated,
		"activities", result.ActivitiesCreatedOrUpdated,
		"sub_tasks", result.SubTasksCreatedOrUpdated,
		"failures", len(result.Failures))
	return result, nil
}

// Export snapshots the whole catalog in import-payload shape.
func (s *CatalogService) Export() catalog.ImportPayload {
	return s.store.ExportAll()
}

func (s *CatalogService) persistCatalog(ctx context.Context) {
	if s.storage == nil {
		return
	}
	// The in-memory store already committed; a persist failure is logged, not
	// surfaced, so the API keeps serving from memory.
	if err := s.storage.ReplaceCatalog(ctx, s.store.Hierarchy()); err != nil {
		slog.ErrorContext(ctx, "Failed to persist catalog snapshot", "error", err)
	}
}
