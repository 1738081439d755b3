package store

import (
	"context"
	"sync"

	"github.com/verte-zerg/keyjam/internal/model"
)

// MemoryBackend keeps the history in process memory only.
type MemoryBackend struct {
	mu     sync.Mutex
	events []model.StreakEvent
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load implements Backend.
func (b *MemoryBackend) Load(_ context.Context) ([]model.StreakEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.StreakEvent(nil), b.events...), nil
}

// Save implements Backend.
func (b *MemoryBackend) Save(_ context.Context, events []model.StreakEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append([]model.StreakEvent(nil), events...)
	return nil
}

// Clear implements Backend.
func (b *MemoryBackend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
	return nil
}

// Close implements Backend.
func (b *MemoryBackend) Close() error {
	return nil
}
