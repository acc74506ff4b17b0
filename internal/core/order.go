package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the timestamp format used in the billing ledger and in
// serialized order records.
const DateLayout = "2006-01-02 15:04:05"

var (
	ErrBadMessage     = errors.New("malformed order message")
	ErrInvalidPrice   = errors.New("invalid price")
	ErrOutsideSession = errors.New("outside valid session hours")
)

// Order is one accepted order. The three per-item slices are equal length
// and positionally aligned: index i describes one line item. Orders are
// immutable once appended to the ledger.
type Order struct {
	ID         int64
	CustomerID string // phone number of the sender
	Name       string
	Location   string
	Date       time.Time
	Items      []string
	Quantities []int
	PriceCents []int64
	Session    Session
}

// Validate checks the line-item alignment invariant. An order with zero
// items is legal; it contributes nothing to any aggregate.
func (o Order) Validate() error {
	if strings.TrimSpace(o.CustomerID) == "" {
		return errors.New("empty customer id")
	}
	if len(o.Items) != len(o.Quantities) || len(o.Items) != len(o.PriceCents) {
		return fmt.Errorf("misaligned line items: %d items, %d quantities, %d prices",
			len(o.Items), len(o.Quantities), len(o.PriceCents))
	}
	if !o.Session.Active() {
		return ErrOutsideSession
	}
	return nil
}

// TotalCents is the full charge of the order, quantity times price summed
// over all line items.
func (o Order) TotalCents() int64 {
	var total int64
	for i := range o.Items {
		total += int64(o.Quantities[i]) * o.PriceCents[i]
	}
	return total
}

// Summary renders the order's line items as `"Item xN"` joined by ", ",
// preserving the order items appear on the order. Used in packing manifests.
func (o Order) Summary() string {
	parts := make([]string, len(o.Items))
	for i, item := range o.Items {
		parts[i] = fmt.Sprintf("%s x%d", item, o.Quantities[i])
	}
	return strings.Join(parts, ", ")
}
