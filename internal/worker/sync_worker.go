package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"sitetrack/internal/amqp"
	"sitetrack/internal/core"
	"sitetrack/internal/log"
	"sitetrack/internal/report"
	"sitetrack/internal/sheets"
	"sitetrack/internal/storage"
)

// SyncWorker pushes recorded progress from SQLite to the reporting spreadsheet.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	writer    sheets.ReportWriter
	batchSize int
	logger    *log.Logger
}

func NewSyncWorker(storage *storage.SQLiteRepository, writer sheets.ReportWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		writer:    writer,
		batchSize: batchSize,
		logger:    log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker),
	}
}

// HandleSyncMessage processes a single progress sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ProgressSyncMessage) error {
	w.logger.InfoContext(ctx, "Processing sync message",
		log.FieldTaskID, msg.TaskID,
		log.FieldYear, msg.Year,
		log.FieldMonth, msg.Month)

	taskID, err := uuid.Parse(msg.TaskID)
	if err != nil {
		return fmt.Errorf("parse task id: %v: %w", err, amqp.ErrUnprocessable)
	}

	return w.syncRecordToSheets(ctx, taskID, msg.Year, msg.Month)
}

// ProcessPendingRecords pushes records still flagged pending.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingRecords(ctx context.Context) error {
	pending, err := w.storage.PendingSyncRecords(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "Processing pending records", "count", len(pending))

	for _, p := range pending {
		if err := w.syncRecordToSheets(ctx, p.TaskID, p.Year, p.Month); err != nil {
			w.logger.ErrorContext(ctx, "Failed to sync record",
				log.FieldTaskID, p.TaskID.String(),
				log.FieldYear, p.Year,
				log.FieldMonth, p.Month,
				log.FieldError, err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog at worker startup.
// Useful to recover from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Larger batch for startup
	pending, err := w.storage.PendingSyncRecords(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending records for startup check: %w", err)
	}

	if len(pending) == 0 {
		w.logger.InfoContext(ctx, "No pending records found on startup")
		return nil
	}

	w.logger.InfoContext(ctx, "Found pending records on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		if err := w.syncRecordToSheets(ctx, p.TaskID, p.Year, p.Month); err != nil {
			w.logger.ErrorContext(ctx, "Failed to sync record during startup",
				log.FieldTaskID, p.TaskID.String(),
				log.FieldYear, p.Year,
				log.FieldMonth, p.Month,
				log.FieldError, err)
			errorCount++
			continue
		}
		successCount++
	}

	w.logger.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) syncRecordToSheets(ctx context.Context, taskID uuid.UUID, year, month int) error {
	task, err := w.storage.GetTask(ctx, taskID)
	if err != nil {
		w.markSyncError(ctx, taskID, year, month)
		return fmt.Errorf("get task from storage: %w", permanentIfMissing(err))
	}

	rec, err := w.storage.GetRecord(ctx, taskID, year, month)
	if err != nil {
		w.markSyncError(ctx, taskID, year, month)
		return fmt.Errorf("get record from storage: %w", permanentIfMissing(err))
	}

	agg := report.Monthly(task, rec)
	progress := 0.0
	if task.BudgetedQuantity > 0 {
		progress = agg.AchievedQuantity / task.BudgetedQuantity * 100
	}

	row := sheets.ReportRow{
		ProjectID:        task.ProjectID,
		CategoryName:     task.CategoryName,
		TaskName:         task.TaskName,
		Unit:             string(task.Unit),
		Period:           fmt.Sprintf("%04d-%02d", year, month),
		TargetedQuantity: agg.TargetedQuantity,
		AchievedQuantity: agg.AchievedQuantity,
		ConsumedManhours: agg.ConsumedManhours,
		ExpectedManhours: agg.ExpectedManhours,
		VarianceQuantity: agg.VarianceQuantity,
		VarianceManhours: agg.VarianceManhours,
		ProgressPercent:  progress,
	}

	ref, err := w.writer.AppendReportRow(ctx, row)
	if err != nil {
		w.markSyncError(ctx, taskID, year, month)
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, taskID, year, month); err != nil {
		// Don't fail here, the push itself worked
		w.logger.ErrorContext(ctx, "Failed to mark as synced",
			log.FieldTaskID, taskID.String(), log.FieldError, err)
	}

	w.logger.InfoContext(ctx, "Successfully synced record",
		log.FieldTaskID, taskID.String(),
		log.FieldSheetsRef, ref,
		"task_name", task.TaskName,
		log.FieldPeriod, row.Period)

	return nil
}

func (w *SyncWorker) markSyncError(ctx context.Context, taskID uuid.UUID, year, month int) {
	if err := w.storage.MarkSyncError(ctx, taskID, year, month); err != nil {
		w.logger.ErrorContext(ctx, "Failed to mark sync error",
			log.FieldTaskID, taskID.String(), log.FieldError, err)
	}
}

// permanentIfMissing flags not-found failures as unprocessable so the AMQP
// consumer drops the delivery instead of redelivering it forever. Tasks and
// records are never deleted, so a missing row cannot heal on retry.
func permanentIfMissing(err error) error {
	var nf *core.NotFoundError
	if errors.As(err, &nf) {
		return fmt.Errorf("%v: %w", err, amqp.ErrUnprocessable)
	}
	return err
}
