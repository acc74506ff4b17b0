package memory

import (
	"context"
	"testing"

	"mensa/internal/views"
)

func TestStoreAppendAndRows(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.AppendBillingRows(ctx, []views.BillingRow{{CustomerID: "+1", Item: "Burger", PriceCents: 550}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendBillingRows(ctx, []views.BillingRow{{CustomerID: "+2", Item: "Fries", PriceCents: 200}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	rows := s.Rows()
	if len(rows) != 2 || rows[0].Item != "Burger" || rows[1].Item != "Fries" {
		t.Fatalf("rows = %+v", rows)
	}

	// Rows returns a copy; mutating it must not affect the store.
	rows[0].Item = "Tampered"
	if s.Rows()[0].Item != "Burger" {
		t.Error("Rows must return a copy")
	}
}
