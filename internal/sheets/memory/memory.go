// Package memory is an in-memory BillingWriter for tests and local
// development without Google credentials.
package memory

import (
	"context"
	"sync"

	"mensa/internal/views"
)

type Store struct {
	mu   sync.Mutex
	rows []views.BillingRow
}

func New() *Store {
	return &Store{}
}

func (s *Store) AppendBillingRows(_ context.Context, rows []views.BillingRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
	return nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []views.BillingRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]views.BillingRow, len(s.rows))
	copy(out, s.rows)
	return out
}
