package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// OrderRequest is the structured form of an inbound order message, before
// classification and persistence assign it a session and a timestamp.
type OrderRequest struct {
	CustomerID string
	Name       string
	Location   string
	Items      []string
	Quantities []int
	PriceCents []int64
}

// ParseMessage parses a raw delimited order message. The format is
// comma-separated: phone, name, location, then one `item:quantity:price`
// triple per remaining field. Quantity must be an integer, price a decimal
// number. Any shape violation returns an error wrapping ErrBadMessage with
// a human-readable description; nothing is persisted on failure.
func ParseMessage(raw string) (OrderRequest, error) {
	parts := strings.Split(raw, ",")
	if len(parts) < 3 {
		return OrderRequest{}, fmt.Errorf("%w: expected phone, name and location followed by items", ErrBadMessage)
	}

	req := OrderRequest{
		CustomerID: strings.TrimSpace(parts[0]),
		Name:       strings.TrimSpace(parts[1]),
		Location:   strings.TrimSpace(parts[2]),
	}

	for _, field := range parts[3:] {
		item, qty, price, err := parseLineItem(field)
		if err != nil {
			return OrderRequest{}, err
		}
		req.Items = append(req.Items, item)
		req.Quantities = append(req.Quantities, qty)
		req.PriceCents = append(req.PriceCents, price)
	}

	return req, nil
}

func parseLineItem(field string) (string, int, int64, error) {
	pieces := strings.Split(field, ":")
	if len(pieces) != 3 {
		return "", 0, 0, fmt.Errorf("%w: item %q must be item:quantity:price", ErrBadMessage, strings.TrimSpace(field))
	}
	item := strings.TrimSpace(pieces[0])
	qty, err := strconv.Atoi(strings.TrimSpace(pieces[1]))
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: quantity %q is not a number", ErrBadMessage, strings.TrimSpace(pieces[1]))
	}
	cents, err := ParseDecimalToCents(pieces[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: price %q is not a number", ErrBadMessage, strings.TrimSpace(pieces[2]))
	}
	return item, qty, cents, nil
}

// Order materializes the request into an immutable Order stamped with the
// given time and session.
func (r OrderRequest) Order(at time.Time, session Session) Order {
	return Order{
		CustomerID: r.CustomerID,
		Name:       r.Name,
		Location:   r.Location,
		Date:       at,
		Items:      r.Items,
		Quantities: r.Quantities,
		PriceCents: r.PriceCents,
		Session:    session,
	}
}
