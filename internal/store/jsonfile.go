package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/keyjam/internal/model"
)

type fileRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	StreakCount int       `json:"streakCount"`
}

// FileBackend stores the history as a JSON array in a single file.
type FileBackend struct {
	path string
	// seen is the file as of the last Load or Save; nil when it did not exist.
	seen os.FileInfo
}

// NewFileBackend returns a JSON file backend at path. The file is created on first save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the backing file path.
func (b *FileBackend) Path() string {
	return b.path
}

// Load implements Backend.
func (b *FileBackend) Load(_ context.Context) ([]model.StreakEvent, error) {
	b.seen = b.stat()
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			b.seen = nil
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	var records []fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	events := make([]model.StreakEvent, 0, len(records))
	for _, r := range records {
		events = append(events, model.StreakEvent{
			ID:          r.ID,
			Timestamp:   r.Timestamp,
			StreakCount: r.StreakCount,
		})
	}
	return events, nil
}

// Save implements Backend. The file is replaced atomically.
func (b *FileBackend) Save(_ context.Context, events []model.StreakEvent) error {
	records := make([]fileRecord, 0, len(events))
	for _, e := range events {
		records = append(records, fileRecord{
			ID:          e.ID,
			Timestamp:   e.Timestamp,
			StreakCount: e.StreakCount,
		})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "streak_events-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp history: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close history: %w", err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	b.seen = b.stat()
	return nil
}

// Clear implements Backend.
func (b *FileBackend) Clear(_ context.Context) error {
	if err := os.Remove(b.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove history: %w", err)
	}
	b.seen = nil
	return nil
}

// Changed implements ChangeDetector. Every Save renames a fresh file into
// place, so a rewrite by another process shows up as a different file.
func (b *FileBackend) Changed(_ context.Context) (bool, error) {
	info, err := os.Stat(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return b.seen != nil, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat history: %w", err)
	}
	if b.seen == nil {
		return true, nil
	}
	return !os.SameFile(b.seen, info) ||
		!info.ModTime().Equal(b.seen.ModTime()) ||
		info.Size() != b.seen.Size(), nil
}

func (b *FileBackend) stat() os.FileInfo {
	info, err := os.Stat(b.path)
	if err != nil {
		return nil
	}
	return info
}

// Close implements Backend.
func (b *FileBackend) Close() error {
	return nil
}
