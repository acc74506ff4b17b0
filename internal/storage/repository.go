// Package storage persists the order ledger in SQLite. The ledger is
// append-only: orders are inserted once and never updated or deleted, apart
// from the sync_status bookkeeping column used by the billing export worker.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mensa/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AppendOrder inserts the order and its line items in one transaction and
// returns the assigned ledger id. The order header and all items commit
// together, so the ledger never holds a partial order.
func (r *Repository) AppendOrder(ctx context.Context, o core.Order) (int64, error) {
	if err := o.Validate(); err != nil {
		return 0, fmt.Errorf("validate order: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (customer_id, name, location, ordered_at, session)
		 VALUES (?, ?, ?, ?, ?)`,
		o.CustomerID, o.Name, o.Location, o.Date.Format(core.DateLayout), o.Session.String())
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("order id: %w", err)
	}

	for i, item := range o.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, position, item, quantity, price_cents)
			 VALUES (?, ?, ?, ?, ?)`,
			id, i, item, o.Quantities[i], o.PriceCents[i])
		if err != nil {
			return 0, fmt.Errorf("insert line item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit order: %w", err)
	}

	slog.InfoContext(ctx, "Order appended to ledger",
		"id", id,
		"customer_id", o.CustomerID,
		"session", o.Session.String(),
		"items", len(o.Items),
		"total_cents", o.TotalCents())

	return id, nil
}

// ListOrders returns the full ledger in insertion order.
func (r *Repository) ListOrders(ctx context.Context) ([]core.Order, error) {
	return r.listOrders(ctx,
		`SELECT id, customer_id, name, location, ordered_at, session FROM orders ORDER BY id`)
}

// ListOrdersBySession returns the ledger filtered to one session, in
// insertion order.
func (r *Repository) ListOrdersBySession(ctx context.Context, session core.Session) ([]core.Order, error) {
	return r.listOrders(ctx,
		`SELECT id, customer_id, name, location, ordered_at, session FROM orders WHERE session = ? ORDER BY id`,
		session.String())
}

// GetOrder loads one order by ledger id.
func (r *Repository) GetOrder(ctx context.Context, id int64) (core.Order, error) {
	orders, err := r.listOrders(ctx,
		`SELECT id, customer_id, name, location, ordered_at, session FROM orders WHERE id = ?`, id)
	if err != nil {
		return core.Order{}, err
	}
	if len(orders) == 0 {
		return core.Order{}, fmt.Errorf("order %d: %w", id, sql.ErrNoRows)
	}
	return orders[0], nil
}

func (r *Repository) listOrders(ctx context.Context, query string, args ...any) ([]core.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []core.Order
	index := map[int64]int{}
	for rows.Next() {
		var (
			o       core.Order
			date    string
			session string
		)
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Name, &o.Location, &date, &session); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Date, err = time.ParseInLocation(core.DateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse order date %q: %w", date, err)
		}
		o.Session = core.Session(session)
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}

	if err := r.attachItems(ctx, orders, index); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Repository) attachItems(ctx context.Context, orders []core.Order, index map[int64]int) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT order_id, item, quantity, price_cents FROM order_items ORDER BY order_id, position`)
	if err != nil {
		return fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID int64
			item    string
			qty     int
			cents   int64
		)
		if err := rows.Scan(&orderID, &item, &qty, &cents); err != nil {
			return fmt.Errorf("scan line item: %w", err)
		}
		i, ok := index[orderID]
		if !ok {
			continue
		}
		orders[i].Items = append(orders[i].Items, item)
		orders[i].Quantities = append(orders[i].Quantities, qty)
		orders[i].PriceCents = append(orders[i].PriceCents, cents)
	}
	return rows.Err()
}

// MonthTotalCents sums quantity*price over all of a customer's line items in
// the given year-month ("2006-01"). Orders of every session count.
func (r *Repository) MonthTotalCents(ctx context.Context, customerID, yearMonth string) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(i.quantity * i.price_cents)
		 FROM orders o JOIN order_items i ON i.order_id = o.id
		 WHERE o.customer_id = ? AND substr(o.ordered_at, 1, 7) = ?`,
		customerID, yearMonth).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("month total for %s: %w", customerID, err)
	}
	return total.Int64, nil
}

// GetPendingSyncOrders returns ledger ids of orders not yet exported to the
// billing spreadsheet, oldest first.
func (r *Repository) GetPendingSyncOrders(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM orders WHERE sync_status = 'pending' ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending orders: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending order id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkSynced records a successful billing export for the order.
func (r *Repository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE orders SET sync_status = 'synced' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark order synced: %w", err)
	}
	return nil
}

// MarkSyncError flags the order as failed; errored orders are excluded from
// the pending poll and need operator attention.
func (r *Repository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE orders SET sync_status = 'error' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark order sync error: %w", err)
	}
	return nil
}
