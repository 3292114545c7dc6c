package mounttable

import (
	"context"
	"sync/atomic"
)

// Holder publishes the current Table. Readers obtain a snapshot with
// Current; reloads swap in a fresh Table without blocking them.
type Holder struct {
	current atomic.Pointer[Table]
}

// NewHolder returns a Holder publishing t, which may be nil.
func NewHolder(t *Table) *Holder {
	h := &Holder{}
	if t != nil {
		h.current.Store(t)
	}
	return h
}

// Current returns the published table, or nil if none has been stored.
func (h *Holder) Current() *Table {
	return h.current.Load()
}

// Store publishes t.
func (h *Holder) Store(t *Table) {
	h.current.Store(t)
}

// Reload loads a new table and publishes it. On failure the previous table
// stays current.
func (h *Holder) Reload(ctx context.Context, l *Loader) (*Table, error) {
	t, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	h.current.Store(t)
	return t, nil
}
