// Package services orchestrates the ingestion pipeline and the read-side
// projections over the order ledger and its derived views.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mensa/internal/core"
)

// Replies sent back to the ordering channel. The webhook returns these
// verbatim.
const (
	replyAccepted       = "Order processed successfully."
	replyOutsideSession = "Order received outside of valid session hours."
)

// Ledger is the write side of the order store.
type Ledger interface {
	AppendOrder(ctx context.Context, o core.Order) (int64, error)
}

// Aggregator recomputes the derived views after an order lands in the ledger.
type Aggregator interface {
	Recompute(ctx context.Context, session core.Session, appended ...core.Order) error
}

// SyncPublisher notifies the billing export worker about a new order.
type SyncPublisher interface {
	PublishOrderSync(ctx context.Context, id int64) error
}

// OrderService runs the ingestion pipeline: parse, classify, append,
// recompute. The whole append-and-recompute step runs under one mutex so
// concurrent ingestions cannot interleave ledger reads and aggregate writes.
type OrderService struct {
	mu        sync.Mutex
	ledger    Ledger
	views     Aggregator
	publisher SyncPublisher // nil when AMQP is not configured
	now       func() time.Time
}

func NewOrderService(ledger Ledger, views Aggregator, publisher SyncPublisher) *OrderService {
	return &OrderService{
		ledger:    ledger,
		views:     views,
		publisher: publisher,
		now:       time.Now,
	}
}

// IngestMessage processes one raw order message and returns the reply text
// for the sender. Rejections (malformed message, outside session hours)
// return the typed error alongside the reply; nothing is persisted for a
// rejected message.
func (s *OrderService) IngestMessage(ctx context.Context, raw string) (string, error) {
	req, err := core.ParseMessage(raw)
	if err != nil {
		slog.WarnContext(ctx, "Rejected malformed order message", "error", err)
		return fmt.Sprintf("Error processing message: %v", err), err
	}

	now := s.now()
	session := core.Classify(now)
	if !session.Active() {
		slog.WarnContext(ctx, "Rejected order outside session hours",
			"customer_id", req.CustomerID, "hour", now.Hour())
		return replyOutsideSession, core.ErrOutsideSession
	}

	order := req.Order(now, session)

	s.mu.Lock()
	id, err := s.ledger.AppendOrder(ctx, order)
	if err == nil {
		order.ID = id
		err = s.views.Recompute(ctx, session, order)
	}
	s.mu.Unlock()
	if err != nil {
		slog.ErrorContext(ctx, "Order ingestion failed", "error", err, "customer_id", req.CustomerID)
		return fmt.Sprintf("Error processing message: %v", err), err
	}

	// Best effort: a missing broker never fails an accepted order. The
	// worker's polling fallback picks the order up later.
	if s.publisher != nil {
		if err := s.publisher.PublishOrderSync(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish order sync message", "id", id, "error", err)
		}
	}

	slog.InfoContext(ctx, "Order accepted",
		"id", id, "customer_id", order.CustomerID, "session", session.String())
	return replyAccepted, nil
}
