package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"mensa/internal/core"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func lunchOrder(day int, customerID string) core.Order {
	return core.Order{
		CustomerID: customerID,
		Name:       "Ann",
		Location:   "TableA",
		Date:       time.Date(2025, 3, day, 12, 30, 0, 0, time.Local),
		Items:      []string{"Burger", "Fries"},
		Quantities: []int{2, 1},
		PriceCents: []int64{550, 200},
		Session:    core.SessionLunch,
	}
}

func TestAppendOrderRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := lunchOrder(14, "+1555")
	second := core.Order{
		CustomerID: "+1777",
		Name:       "Bob",
		Location:   "TableB",
		Date:       time.Date(2025, 3, 14, 12, 45, 0, 0, time.Local),
		Session:    core.SessionLunch, // zero line items is a legal order
	}

	for i, o := range []core.Order{first, second} {
		id, err := repo.AppendOrder(ctx, o)
		if err != nil {
			t.Fatalf("append order %d: %v", i, err)
		}
		if id != int64(i+1) {
			t.Errorf("order %d: id = %d", i, id)
		}
	}

	got, err := repo.ListOrders(ctx)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("orders = %d, want 2", len(got))
	}

	first.ID, second.ID = 1, 2
	for i, want := range []core.Order{first, second} {
		if !got[i].Date.Equal(want.Date) {
			t.Errorf("order %d: date = %v, want %v", i, got[i].Date, want.Date)
		}
		got[i].Date, want.Date = time.Time{}, time.Time{}
		if !reflect.DeepEqual(got[i], want) {
			t.Errorf("order %d = %+v, want %+v", i, got[i], want)
		}
	}
}

func TestListOrdersBySession(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	lunch := lunchOrder(14, "+1555")
	dinner := lunchOrder(14, "+1777")
	dinner.Date = time.Date(2025, 3, 14, 19, 0, 0, 0, time.Local)
	dinner.Session = core.SessionDinner

	for _, o := range []core.Order{lunch, dinner} {
		if _, err := repo.AppendOrder(ctx, o); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.ListOrdersBySession(ctx, core.SessionLunch)
	if err != nil {
		t.Fatalf("list by session: %v", err)
	}
	if len(got) != 1 || got[0].CustomerID != "+1555" {
		t.Errorf("lunch orders = %+v", got)
	}

	got, err = repo.ListOrdersBySession(ctx, core.SessionBreakfast)
	if err != nil {
		t.Fatalf("list by session: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("breakfast orders = %+v", got)
	}
}

func TestGetOrder(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.AppendOrder(ctx, lunchOrder(14, "+1555"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.GetOrder(ctx, id)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.CustomerID != "+1555" || len(got.Items) != 2 {
		t.Errorf("order = %+v", got)
	}

	if _, err := repo.GetOrder(ctx, 999); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("missing order error = %v", err)
	}
}

func TestMonthTotalCents(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	// Two March orders for +1555 (1300 cents each), one February order for
	// the same customer, one March order for another customer.
	february := lunchOrder(14, "+1555")
	february.Date = time.Date(2025, 2, 28, 12, 0, 0, 0, time.Local)
	other := lunchOrder(14, "+1777")

	for _, o := range []core.Order{lunchOrder(3, "+1555"), lunchOrder(14, "+1555"), february, other} {
		if _, err := repo.AppendOrder(ctx, o); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	tests := []struct {
		name       string
		customerID string
		yearMonth  string
		want       int64
	}{
		{"sums only the asked month", "+1555", "2025-03", 2600},
		{"previous month kept separate", "+1555", "2025-02", 1300},
		{"other customer not mixed in", "+1777", "2025-03", 1300},
		{"empty month", "+1555", "2025-01", 0},
		{"unknown customer", "+1999", "2025-03", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.MonthTotalCents(ctx, tt.customerID, tt.yearMonth)
			if err != nil {
				t.Fatalf("month total: %v", err)
			}
			if got != tt.want {
				t.Errorf("total = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSyncStatusLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := repo.AppendOrder(ctx, lunchOrder(10+i, "+1555"))
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		ids = append(ids, id)
	}

	pending, err := repo.GetPendingSyncOrders(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if !reflect.DeepEqual(pending, ids) {
		t.Errorf("pending = %v, want %v", pending, ids)
	}

	pending, err = repo.GetPendingSyncOrders(ctx, 2)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("limited pending = %v", pending)
	}

	if err := repo.MarkSynced(ctx, ids[0]); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if err := repo.MarkSyncError(ctx, ids[1]); err != nil {
		t.Fatalf("mark sync error: %v", err)
	}

	pending, err = repo.GetPendingSyncOrders(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if !reflect.DeepEqual(pending, ids[2:]) {
		t.Errorf("pending after marks = %v, want %v", pending, ids[2:])
	}
}
