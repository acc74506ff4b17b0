// Package views derives the kitchen, packing and billing views from the
// order ledger. Derived files are disposable caches: kitchen and packing are
// recomputed from scratch and atomically replaced on every ingestion, the
// billing ledger only ever grows. The order ledger stays the single source
// of truth.
package views

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"mensa/internal/core"
)

// Ledger is the slice of the order store the engine needs.
type Ledger interface {
	ListOrdersBySession(ctx context.Context, session core.Session) ([]core.Order, error)
	MonthTotalCents(ctx context.Context, customerID, yearMonth string) (int64, error)
}

type KitchenRow struct {
	Item     string
	Quantity int
}

type PackingRow struct {
	Location   string
	Name       string
	CustomerID string
	Summary    string
}

type BillingRow struct {
	CustomerID        string
	Name              string
	Date              string // core.DateLayout
	Item              string
	PriceCents        int64
	MonthlyTotalCents int64
	HasMonthlyTotal   bool
}

type Engine struct {
	dir    string
	ledger Ledger
	now    func() time.Time
}

func NewEngine(dir string, ledger Ledger) *Engine {
	return &Engine{dir: dir, ledger: ledger, now: time.Now}
}

// Recompute rebuilds the kitchen and packing views for the session from the
// full ledger and appends billing rows for each newly ingested order. It
// rejects SessionNone: orders outside valid hours are never saved, so there
// is nothing to aggregate.
func (e *Engine) Recompute(ctx context.Context, session core.Session, appended ...core.Order) error {
	if !session.Active() {
		return fmt.Errorf("recompute %q: %w", session, core.ErrOutsideSession)
	}

	orders, err := e.ledger.ListOrdersBySession(ctx, session)
	if err != nil {
		return fmt.Errorf("load session orders: %w", err)
	}

	if err := e.writeKitchen(session, orders); err != nil {
		return err
	}
	if err := e.writePacking(session, orders); err != nil {
		return err
	}
	for _, o := range appended {
		if err := e.appendBilling(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

// writeKitchen sums quantities per item across the session's orders. Rows
// come out in first-appearance order of each item, which is deterministic
// for a given ledger.
func (e *Engine) writeKitchen(session core.Session, orders []core.Order) error {
	totals := map[string]int{}
	var names []string
	for _, o := range orders {
		for i, item := range o.Items {
			if _, seen := totals[item]; !seen {
				names = append(names, item)
			}
			totals[item] += o.Quantities[i]
		}
	}

	records := make([][]string, 0, len(names))
	for _, item := range names {
		records = append(records, []string{item, fmt.Sprintf("%d", totals[item])})
	}
	return writeCSVAtomic(e.kitchenPath(session), kitchenHeader, records)
}

// writePacking emits one row per order. Rows are grouped by delivery
// location, locations ordered by first appearance, orders within a location
// in ledger order.
func (e *Engine) writePacking(session core.Session, orders []core.Order) error {
	grouped := map[string][]core.Order{}
	var locations []string
	for _, o := range orders {
		if _, seen := grouped[o.Location]; !seen {
			locations = append(locations, o.Location)
		}
		grouped[o.Location] = append(grouped[o.Location], o)
	}

	var records [][]string
	for _, loc := range locations {
		for _, o := range grouped[loc] {
			records = append(records, []string{loc, o.Name, o.CustomerID, o.Summary()})
		}
	}
	return writeCSVAtomic(e.packingPath(session), packingHeader, records)
}

// appendBilling writes one billing row per line item of the order. The
// order is already in the ledger when this runs, so the month total is
// walked back to just before this order and advanced line by line.
func (e *Engine) appendBilling(ctx context.Context, o core.Order) error {
	rows, err := e.BillingRowsFor(ctx, o)
	if err != nil {
		return err
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		monthly := ""
		if row.HasMonthlyTotal {
			monthly = core.FormatCents(row.MonthlyTotalCents)
		}
		records = append(records, []string{
			row.CustomerID, row.Name, row.Date, row.Item, core.FormatCents(row.PriceCents), monthly,
		})
	}
	return appendCSV(e.billingPath(), billingHeader, records)
}

// BillingRowsFor derives the billing rows for one ingested order. For
// current-month orders each row carries the customer's month-to-date total
// including that line; rows from other months leave the column blank.
func (e *Engine) BillingRowsFor(ctx context.Context, o core.Order) ([]BillingRow, error) {
	currentYM := e.now().Format("2006-01")
	inMonth := o.Date.Format("2006-01") == currentYM

	var monthToDate int64
	if inMonth {
		total, err := e.ledger.MonthTotalCents(ctx, o.CustomerID, currentYM)
		if err != nil {
			return nil, fmt.Errorf("month total: %w", err)
		}
		monthToDate = total
	}
	return BillingRowsFor(o, monthToDate, inMonth), nil
}

// BillingRowsFor builds billing rows for an order whose current-month total
// up to and including the order is monthToDate. Pass inMonth=false when the
// order belongs to a different month than the current one.
func BillingRowsFor(o core.Order, monthToDate int64, inMonth bool) []BillingRow {
	date := o.Date.Format(core.DateLayout)
	running := monthToDate - o.TotalCents()

	rows := make([]BillingRow, 0, len(o.Items))
	for i, item := range o.Items {
		charge := int64(o.Quantities[i]) * o.PriceCents[i]
		row := BillingRow{
			CustomerID: o.CustomerID,
			Name:       o.Name,
			Date:       date,
			Item:       item,
			PriceCents: charge,
		}
		if inMonth {
			running += charge
			row.MonthlyTotalCents = running
			row.HasMonthlyTotal = true
		}
		rows = append(rows, row)
	}
	return rows
}

// ResetSession truncates the kitchen and packing files for the session,
// leaving the order and billing ledgers untouched. Missing files stay
// missing; reading either state yields an empty view, so the operation is
// idempotent.
func (e *Engine) ResetSession(session core.Session) error {
	if !session.Active() {
		return nil
	}
	for _, path := range []string{e.kitchenPath(session), e.packingPath(session)} {
		if err := truncateIfExists(path); err != nil {
			return fmt.Errorf("reset %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// ReadKitchen returns the kitchen totals for the session. A missing or
// truncated file is an empty view, never an error.
func (e *Engine) ReadKitchen(session core.Session) ([]KitchenRow, error) {
	if !session.Active() {
		return nil, nil
	}
	records, err := readCSV(e.kitchenPath(session), len(kitchenHeader))
	if err != nil {
		return nil, err
	}
	rows := make([]KitchenRow, 0, len(records))
	for _, rec := range records {
		qty, err := parseQuantity(rec[1])
		if err != nil {
			return nil, fmt.Errorf("kitchen row %v: %w", rec, err)
		}
		rows = append(rows, KitchenRow{Item: rec[0], Quantity: qty})
	}
	return rows, nil
}

// ReadPacking returns the packing manifest for the session.
func (e *Engine) ReadPacking(session core.Session) ([]PackingRow, error) {
	if !session.Active() {
		return nil, nil
	}
	records, err := readCSV(e.packingPath(session), len(packingHeader))
	if err != nil {
		return nil, err
	}
	rows := make([]PackingRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, PackingRow{Location: rec[0], Name: rec[1], CustomerID: rec[2], Summary: rec[3]})
	}
	return rows, nil
}

// ReadBilling returns the full billing ledger.
func (e *Engine) ReadBilling() ([]BillingRow, error) {
	records, err := readCSV(e.billingPath(), len(billingHeader))
	if err != nil {
		return nil, err
	}
	rows := make([]BillingRow, 0, len(records))
	for _, rec := range records {
		price, err := core.ParseDecimalToCents(rec[4])
		if err != nil {
			return nil, fmt.Errorf("billing row %v: %w", rec, err)
		}
		row := BillingRow{CustomerID: rec[0], Name: rec[1], Date: rec[2], Item: rec[3], PriceCents: price}
		if rec[5] != "" {
			total, err := core.ParseDecimalToCents(rec[5])
			if err != nil {
				return nil, fmt.Errorf("billing row %v: %w", rec, err)
			}
			row.MonthlyTotalCents = total
			row.HasMonthlyTotal = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (e *Engine) kitchenPath(session core.Session) string {
	return filepath.Join(e.dir, sessionFiles[session].kitchen)
}

func (e *Engine) packingPath(session core.Session) string {
	return filepath.Join(e.dir, sessionFiles[session].packing)
}

func (e *Engine) billingPath() string {
	return filepath.Join(e.dir, billingFile)
}
