// Package store owns the streak counters and the persisted streak history.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/verte-zerg/keyjam/internal/model"
)

// ErrUnknownBackend is returned by OpenBackend for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Backend persists the full streak history.
type Backend interface {
	// Load returns the persisted history. A missing backing store is an empty history.
	Load(ctx context.Context) ([]model.StreakEvent, error)
	// Save replaces the persisted history with events, keeping their order.
	Save(ctx context.Context, events []model.StreakEvent) error
	// Clear removes all persisted history.
	Clear(ctx context.Context) error
	Close() error
}

// ChangeDetector is implemented by backends that other processes may write.
// Changed reports whether the persisted history was modified by another writer
// since this backend last loaded or saved it.
type ChangeDetector interface {
	Changed(ctx context.Context) (bool, error)
}

// OpenBackend opens a backend by name ("json", "sqlite" or "memory") at path.
func OpenBackend(kind, path string) (Backend, error) {
	switch kind {
	case "", "json":
		return NewFileBackend(path), nil
	case "sqlite":
		return OpenSQLite(path)
	case "memory":
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}
