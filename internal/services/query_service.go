package services

import (
	"context"

	"mensa/internal/core"
	"mensa/internal/views"
)

// OrderLister is the read side of the order store.
type OrderLister interface {
	ListOrders(ctx context.Context) ([]core.Order, error)
}

// ViewReader serves the derived view files.
type ViewReader interface {
	ReadKitchen(session core.Session) ([]views.KitchenRow, error)
	ReadPacking(session core.Session) ([]views.PackingRow, error)
	ReadBilling() ([]views.BillingRow, error)
}

// QueryService exposes read-only projections to the HTTP layer. Every query
// returns an empty slice, never an error, when the backing data does not
// exist; unknown session names count as no data.
type QueryService struct {
	ledger OrderLister
	views  ViewReader
}

func NewQueryService(ledger OrderLister, views ViewReader) *QueryService {
	return &QueryService{ledger: ledger, views: views}
}

// Orders returns the raw order ledger in insertion order.
func (q *QueryService) Orders(ctx context.Context) ([]core.Order, error) {
	return q.ledger.ListOrders(ctx)
}

// Kitchen returns the kitchen totals for a session named by the caller.
func (q *QueryService) Kitchen(name string) ([]views.KitchenRow, error) {
	session, ok := core.ParseSession(name)
	if !ok {
		return nil, nil
	}
	return q.views.ReadKitchen(session)
}

// Packing returns the packing manifest for a session named by the caller.
func (q *QueryService) Packing(name string) ([]views.PackingRow, error) {
	session, ok := core.ParseSession(name)
	if !ok {
		return nil, nil
	}
	return q.views.ReadPacking(session)
}

// Billing returns the full billing ledger.
func (q *QueryService) Billing() ([]views.BillingRow, error) {
	return q.views.ReadBilling()
}
