package backend

import (
	"context"
	"fmt"
	"log/slog"

	"sitetrack/internal/amqp"
	"sitetrack/internal/catalog"
	"sitetrack/internal/progress"
	"sitetrack/internal/services"
	"sitetrack/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional; without it records simply stay flagged pending until
	// the worker's catch-up pass finds them.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	svcs, err := wireServices(ctx, sqliteRepo, amqpClient)
	if err != nil {
		sqliteRepo.Close()
		return nil, err
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	return &BackendResult{
		Services: svcs,
		Cleanup:  svcs.Progress.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	svcs, err := wireServices(context.Background(), nil, nil)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Services: svcs,
		Cleanup:  nil,
	}, nil
}

func wireServices(ctx context.Context, repo *storage.SQLiteRepository, amqpClient *amqp.Client) (Services, error) {
	store := catalog.NewStore()
	tracker := progress.NewTracker()
	binder := progress.NewBinder(store, tracker)
	recorder := progress.NewRecorder(tracker)

	catalogSvc := services.NewCatalogService(store, repo)
	progressSvc := services.NewProgressService(tracker, binder, recorder, repo, amqpClient)

	if repo != nil {
		if err := catalogSvc.LoadFromStorage(ctx); err != nil {
			return Services{}, fmt.Errorf("restore catalog: %w", err)
		}
		if err := progressSvc.LoadFromStorage(ctx); err != nil {
			return Services{}, fmt.Errorf("restore progress state: %w", err)
		}
	}

	return Services{
		Catalog:  catalogSvc,
		Progress: progressSvc,
	}, nil
}
