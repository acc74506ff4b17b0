package sheets

import (
	"context"

	"mensa/internal/views"
)

// Ports for outbound billing export adapters.
type (
	// BillingWriter appends billing rows to an external bookkeeping target.
	BillingWriter interface {
		AppendBillingRows(ctx context.Context, rows []views.BillingRow) error
	}
)
