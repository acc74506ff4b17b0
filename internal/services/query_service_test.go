package services

import (
	"context"
	"testing"

	"mensa/internal/core"
	"mensa/internal/views"
)

type fakeLister struct{ orders []core.Order }

func (f fakeLister) ListOrders(context.Context) ([]core.Order, error) { return f.orders, nil }

type fakeViews struct {
	kitchen map[core.Session][]views.KitchenRow
	packing map[core.Session][]views.PackingRow
	billing []views.BillingRow
}

func (f fakeViews) ReadKitchen(s core.Session) ([]views.KitchenRow, error) { return f.kitchen[s], nil }
func (f fakeViews) ReadPacking(s core.Session) ([]views.PackingRow, error) { return f.packing[s], nil }
func (f fakeViews) ReadBilling() ([]views.BillingRow, error)               { return f.billing, nil }

func TestQueryServiceKitchenBySessionName(t *testing.T) {
	q := NewQueryService(fakeLister{}, fakeViews{
		kitchen: map[core.Session][]views.KitchenRow{
			core.SessionLunch: {{Item: "Burger", Quantity: 3}},
		},
	})

	rows, err := q.Kitchen("lunch")
	if err != nil || len(rows) != 1 || rows[0].Item != "Burger" {
		t.Fatalf("rows=%v err=%v", rows, err)
	}

	// Unknown session names are no data, never an error.
	for _, name := range []string{"brunch", "none", "", "lunch/../etc"} {
		rows, err := q.Kitchen(name)
		if err != nil || len(rows) != 0 {
			t.Errorf("Kitchen(%q): rows=%v err=%v", name, rows, err)
		}
	}
}

func TestQueryServicePackingBySessionName(t *testing.T) {
	q := NewQueryService(fakeLister{}, fakeViews{
		packing: map[core.Session][]views.PackingRow{
			core.SessionDinner: {{Location: "TableA", Name: "Ann", CustomerID: "+1", Summary: "Burger x1"}},
		},
	})

	rows, err := q.Packing("Dinner")
	if err != nil || len(rows) != 1 {
		t.Fatalf("rows=%v err=%v", rows, err)
	}
	if rows, err := q.Packing("snack"); err != nil || len(rows) != 0 {
		t.Errorf("unknown session: rows=%v err=%v", rows, err)
	}
}

func TestQueryServiceOrdersAndBilling(t *testing.T) {
	lister := fakeLister{orders: []core.Order{{CustomerID: "+1", Session: core.SessionLunch}}}
	q := NewQueryService(lister, fakeViews{billing: []views.BillingRow{{CustomerID: "+1", Item: "Burger"}}})

	orders, err := q.Orders(context.Background())
	if err != nil || len(orders) != 1 {
		t.Fatalf("orders=%v err=%v", orders, err)
	}
	billing, err := q.Billing()
	if err != nil || len(billing) != 1 {
		t.Fatalf("billing=%v err=%v", billing, err)
	}
}
