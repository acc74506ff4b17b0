package core

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseMessage(t *testing.T) {
	req, err := ParseMessage("+1555,Ann,TableA,Burger:2:5.50,Fries:1:2.00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.CustomerID != "+1555" || req.Name != "Ann" || req.Location != "TableA" {
		t.Fatalf("header fields wrong: %+v", req)
	}
	if !reflect.DeepEqual(req.Items, []string{"Burger", "Fries"}) {
		t.Errorf("items = %v", req.Items)
	}
	if !reflect.DeepEqual(req.Quantities, []int{2, 1}) {
		t.Errorf("quantities = %v", req.Quantities)
	}
	if !reflect.DeepEqual(req.PriceCents, []int64{550, 200}) {
		t.Errorf("prices = %v", req.PriceCents)
	}
}

func TestParseMessageNoItems(t *testing.T) {
	// Three leading fields with no items is a legal, empty order.
	req, err := ParseMessage("+1555,Ann,TableA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Items) != 0 {
		t.Errorf("expected no items, got %v", req.Items)
	}
}

func TestParseMessageFailures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"too few fields", "+1555,Ann"},
		{"empty message", ""},
		{"missing price", "+1555,Ann,TableA,Burger:2"},
		{"extra separator", "+1555,Ann,TableA,Burger:2:5.50:extra"},
		{"quantity not a number", "+1555,Ann,TableA,Burger:two:5.50"},
		{"price not a number", "+1555,Ann,TableA,Burger:2:cheap"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseMessage(tc.raw)
			if !errors.Is(err, ErrBadMessage) {
				t.Fatalf("expected ErrBadMessage, got %v", err)
			}
		})
	}
}

func TestOrderRequestOrder(t *testing.T) {
	req, err := ParseMessage("+1555,Ann,TableA,Burger:2:5.50")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	now := time.Date(2025, 3, 14, 12, 30, 0, 0, time.Local)
	order := req.Order(now, SessionLunch)
	if order.Session != SessionLunch || !order.Date.Equal(now) {
		t.Fatalf("order not stamped: %+v", order)
	}
	if err := order.Validate(); err != nil {
		t.Fatalf("valid order rejected: %v", err)
	}
	if order.TotalCents() != 1100 {
		t.Errorf("total = %d, want 1100", order.TotalCents())
	}
	if order.Summary() != "Burger x2" {
		t.Errorf("summary = %q", order.Summary())
	}
}

func TestOrderSummaryPreservesItemOrder(t *testing.T) {
	o := Order{
		Items:      []string{"Fries", "Burger", "Cola"},
		Quantities: []int{3, 1, 2},
	}
	if got := o.Summary(); got != "Fries x3, Burger x1, Cola x2" {
		t.Errorf("summary = %q", got)
	}
}

func TestOrderValidate(t *testing.T) {
	base := Order{
		CustomerID: "+1555",
		Items:      []string{"Burger"},
		Quantities: []int{1},
		PriceCents: []int64{500},
		Session:    SessionDinner,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("base order invalid: %v", err)
	}

	misaligned := base
	misaligned.Quantities = nil
	if err := misaligned.Validate(); err == nil {
		t.Error("misaligned line items accepted")
	}

	noSession := base
	noSession.Session = SessionNone
	if !errors.Is(noSession.Validate(), ErrOutsideSession) {
		t.Error("order without active session accepted")
	}
}
