// Package worker exports accepted orders' billing lines to the bookkeeping
// spreadsheet. AMQP messages trigger prompt exports; a polling fallback
// catches anything lost while the broker or worker was down.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mensa/internal/amqp"
	"mensa/internal/core"
	"mensa/internal/sheets"
	"mensa/internal/views"
)

// OrderSource is the slice of the order store the worker needs.
type OrderSource interface {
	GetOrder(ctx context.Context, id int64) (core.Order, error)
	GetPendingSyncOrders(ctx context.Context, limit int) ([]int64, error)
	MonthTotalCents(ctx context.Context, customerID, yearMonth string) (int64, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

type SyncWorker struct {
	storage   OrderSource
	billing   sheets.BillingWriter
	batchSize int
	now       func() time.Time
}

func NewSyncWorker(storage OrderSource, billing sheets.BillingWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		billing:   billing,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// HandleSyncMessage processes one order sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.OrderSyncMessage) error {
	slog.InfoContext(ctx, "Processing order sync message", "id", msg.ID)
	return w.exportOrder(ctx, msg.ID)
}

// ProcessPendingOrders exports any orders not yet synced. This is the backup
// mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingOrders(ctx context.Context) error {
	ids, err := w.storage.GetPendingSyncOrders(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending orders: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending orders", "count", len(ids))
	for _, id := range ids {
		if err := w.exportOrder(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to export order", "id", id, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains a larger pending batch at worker startup to
// recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	ids, err := w.storage.GetPendingSyncOrders(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending orders for startup check: %w", err)
	}
	if len(ids) == 0 {
		slog.InfoContext(ctx, "No pending orders found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending orders on startup, processing...", "count", len(ids))
	synced, failed := 0, 0
	for _, id := range ids {
		if err := w.exportOrder(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to export order during startup", "id", id, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(ids), "synced", synced, "errors", failed)
	return nil
}

func (w *SyncWorker) exportOrder(ctx context.Context, id int64) error {
	order, err := w.storage.GetOrder(ctx, id)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("get order from storage: %w", err)
	}

	currentYM := w.now().Format("2006-01")
	inMonth := order.Date.Format("2006-01") == currentYM
	var monthToDate int64
	if inMonth {
		monthToDate, err = w.storage.MonthTotalCents(ctx, order.CustomerID, currentYM)
		if err != nil {
			return fmt.Errorf("month total: %w", err)
		}
	}

	rows := views.BillingRowsFor(order, monthToDate, inMonth)
	if err := w.billing.AppendBillingRows(ctx, rows); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append billing rows: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The export itself worked; log and move on.
		slog.ErrorContext(ctx, "Failed to mark order synced", "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Order billing exported",
		"id", id, "customer_id", order.CustomerID, "rows", len(rows))
	return nil
}
