// Package store provides the append-only local record of every generated
// dork.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrStore is matched by every error returned from a Store operation.
var ErrStore = errors.New("store error")

// Entry is one persisted dork row.
type Entry struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Dork     string `json:"dork"`
}

// Store is an append-only log of category/dork pairs. There are no update
// or delete operations.
type Store interface {
	// Init creates the schema if it is absent. Safe to call repeatedly.
	Init(ctx context.Context) error

	// Append inserts one row.
	Append(ctx context.Context, category, dork string) error

	// ListAll returns every row in insertion order.
	ListAll(ctx context.Context) ([]Entry, error)

	Close() error
}

// StoreError reports a failed persistence operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrStore and the underlying cause to errors.Is.
func (e *StoreError) Unwrap() []error {
	return []error{ErrStore, e.Err}
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
