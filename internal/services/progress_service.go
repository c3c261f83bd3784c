package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"sitetrack/internal/amqp"
	"sitetrack/internal/core"
	"sitetrack/internal/progress"
	"sitetrack/internal/report"
	"sitetrack/internal/storage"
)

// ProgressService orchestrates task binding and weekly recording across the
// in-memory tracker, SQLite and AMQP.
type ProgressService struct {
	tracker    *progress.Tracker
	binder     *progress.Binder
	recorder   *progress.Recorder
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewProgressService(tracker *progress.Tracker, binder *progress.Binder, recorder *progress.Recorder, repo *storage.SQLiteRepository, amqpClient *amqp.Client) *ProgressService {
	return &ProgressService{
		tracker:    tracker,
		binder:     binder,
		recorder:   recorder,
		storage:    repo,
		amqpClient: amqpClient,
	}
}

// LoadFromStorage restores bound tasks and records from the repository.
func (s *ProgressService) LoadFromStorage(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	tasks, err := s.storage.LoadTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	records, err := s.storage.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	s.tracker.Restore(tasks, records)

	slog.InfoContext(ctx, "Progress state restored from storage",
		"tasks", len(tasks), "records", len(records))
	return nil
}

// BindTask instantiates a project task from a catalog sub-task and persists it.
func (s *ProgressService) BindTask(ctx context.Context, projectID string, subTaskID uuid.UUID, ov *progress.BindOverrides) (core.ProjectTask, error) {
	task, err := s.binder.Bind(projectID, subTaskID, ov)
	if err != nil {
		return core.ProjectTask{}, err
	}

	if s.storage != nil {
		// Tracker already committed; persistence failure is logged, not surfaced.
		if err := s.storage.SaveTask(ctx, task); err != nil {
			slog.ErrorContext(ctx, "Failed to persist task binding",
				"task_id", task.ID.String(), "error", err)
		}
	}
	return task, nil
}

// RecordProgress commits a weekly submission, persists it and publishes a
// sync message for the reporting worker.
func (s *ProgressService) RecordProgress(ctx context.Context, taskID uuid.UUID, sub progress.Submission) (core.ProjectTask, core.WeeklyProgressRecord, error) {
	task, rec, err := s.recorder.Record(taskID, sub)
	if err != nil {
		return core.ProjectTask{}, core.WeeklyProgressRecord{}, err
	}

	if s.storage != nil {
		if err := s.storage.SaveRecord(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to persist progress record",
				"task_id", taskID.String(), "error", err)
		}
	}

	if err := s.publishSyncMessage(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"task_id", taskID.String(), "error", err)
		// Don't fail the request, the record is committed locally
	}

	return task, rec, nil
}

// Task returns a bound task by id.
func (s *ProgressService) Task(taskID uuid.UUID) (core.ProjectTask, error) {
	return s.tracker.Task(taskID)
}

// TasksFor lists a project's bound tasks.
func (s *ProgressService) TasksFor(projectID string) []core.ProjectTask {
	return s.tracker.TasksFor(projectID)
}

// RecordFor returns the committed record for one task and period.
func (s *ProgressService) RecordFor(taskID uuid.UUID, p core.Period) (core.WeeklyProgressRecord, bool) {
	return s.tracker.RecordFor(taskID, p)
}

// MonthlyReport builds the period-by-period variance report for a project.
func (s *ProgressService) MonthlyReport(projectID string, start, end core.Period) report.MonthlyReport {
	tasks := s.tracker.TasksFor(projectID)
	records := s.tracker.RecordsFor(projectID)
	return report.BuildMonthlyReport(projectID, tasks, records, start, end)
}

// Dashboard builds the project dashboard summary for the current period.
func (s *ProgressService) Dashboard(projectID string, current core.Period) report.DashboardSummary {
	tasks := s.tracker.TasksFor(projectID)
	records := s.tracker.RecordsFor(projectID)
	return report.BuildDashboardSummary(projectID, tasks, records, current)
}

func (s *ProgressService) publishSyncMessage(ctx context.Context, rec core.WeeklyProgressRecord) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.amqpClient.PublishProgressSync(ctx, rec.TaskID.String(), rec.Year, rec.Month)
}

// Close closes both storage and AMQP connections.
func (s *ProgressService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close progress service: %v", errs)
	}
	return nil
}
