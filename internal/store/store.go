package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/keyjam/internal/logging"
	"github.com/verte-zerg/keyjam/internal/model"
)

// DefaultRetention is how long recorded streaks are kept.
const DefaultRetention = 30 * 24 * time.Hour

// Options configures a Store.
type Options struct {
	// Retention drops events older than now-Retention on load and on every record.
	Retention time.Duration
	Now       func() time.Time
	NewID     func() string
	Logger    *slog.Logger
}

// Counters is a snapshot of the in-memory streak counters.
type Counters struct {
	CurrentStreak   int
	MouseBreakCount int
}

// Store keeps the streak counters in memory and the streak history in memory
// and in its Backend. Every history mutation is written through immediately.
type Store struct {
	mu        sync.RWMutex
	backend   Backend
	retention time.Duration
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger

	currentStreak   int
	mouseBreakCount int
	history         []model.StreakEvent
}

// New constructs a Store and loads the persisted history once. A backend that
// fails to load or decode yields an empty history.
func New(backend Backend, opts Options) *Store {
	s := &Store{
		backend:   backend,
		retention: opts.Retention,
		now:       opts.Now,
		newID:     opts.NewID,
		logger:    logging.OrDiscard(opts.Logger),
	}
	if s.retention <= 0 {
		s.retention = DefaultRetention
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = newEventID
	}
	s.load()
	return s
}

func (s *Store) load() {
	events, err := s.backend.Load(context.Background())
	if err != nil {
		s.logger.Warn("failed to load streak history, starting empty", "err", err)
		return
	}
	sortEvents(events)
	kept := s.prune(events, s.now())
	s.history = kept
	if len(kept) != len(events) {
		s.logger.Debug("dropped expired streak events", "count", len(events)-len(kept))
		s.persistLocked()
	}
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// IncrementKeyCount adds one to the current streak.
func (s *Store) IncrementKeyCount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentStreak++
}

// ResetKeyCount zeroes the current streak and returns its prior value. A prior
// value above model.RecordingThreshold is recorded in history and persisted.
func (s *Store) ResetKeyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := s.currentStreak
	s.currentStreak = 0
	if prior > model.RecordingThreshold {
		s.recordLocked(prior)
	}
	return prior
}

// IncrementMouseBreak adds one to the mouse break count.
func (s *Store) IncrementMouseBreak() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mouseBreakCount++
}

// CurrentStreak returns the length of the running streak.
func (s *Store) CurrentStreak() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentStreak
}

// MouseBreakCount returns how many streaks were broken by the mouse.
func (s *Store) MouseBreakCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mouseBreakCount
}

// Counters returns both counters read under one lock.
func (s *Store) Counters() Counters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counters{CurrentStreak: s.currentStreak, MouseBreakCount: s.mouseBreakCount}
}

// RecentEvents returns events recorded within the last days, oldest first.
func (s *Store) RecentEvents(days int) []model.StreakEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	now := s.now()
	cutoff := now.AddDate(0, 0, -days)
	var out []model.StreakEvent
	for _, ev := range s.history {
		if ev.Timestamp.Before(cutoff) || ev.Timestamp.After(now) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// History returns every retained event, oldest first.
func (s *Store) History() []model.StreakEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncLocked()
	return append([]model.StreakEvent(nil), s.history...)
}

// ClearAllData empties the history in memory and in the backend.
func (s *Store) ClearAllData() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	if err := s.backend.Clear(context.Background()); err != nil {
		s.logger.Warn("failed to clear persisted streak history", "err", err)
		return err
	}
	return nil
}

// Replace swaps the whole history for events, assigning ids where missing and
// applying retention, then persists it.
func (s *Store) Replace(events []model.StreakEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]model.StreakEvent, 0, len(events))
	for _, ev := range events {
		if ev.ID == "" {
			ev.ID = s.newID()
		}
		next = append(next, ev)
	}
	sortEvents(next)
	s.history = s.prune(next, s.now())
	return s.persistLocked()
}

func (s *Store) recordLocked(count int) {
	s.syncLocked()
	now := s.now()
	s.history = append(s.history, model.StreakEvent{
		ID:          s.newID(),
		Timestamp:   now,
		StreakCount: count,
	})
	sortEvents(s.history)
	s.history = s.prune(s.history, now)
	s.logger.Debug("recorded streak", "count", count, "history", len(s.history))
	// Write failures keep the in-memory history; the next mutation retries the full write.
	_ = s.persistLocked()
}

// syncLocked reloads the history when another process rewrote or cleared it,
// so a following full-history save does not resurrect cleared events.
func (s *Store) syncLocked() {
	detector, ok := s.backend.(ChangeDetector)
	if !ok {
		return
	}
	ctx := context.Background()
	changed, err := detector.Changed(ctx)
	if err != nil {
		s.logger.Warn("failed to check streak history for changes", "err", err)
		return
	}
	if !changed {
		return
	}
	events, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to reload streak history", "err", err)
		return
	}
	sortEvents(events)
	s.history = s.prune(events, s.now())
	s.logger.Debug("reloaded streak history written elsewhere", "history", len(s.history))
}

func (s *Store) persistLocked() error {
	if err := s.backend.Save(context.Background(), s.history); err != nil {
		s.logger.Warn("failed to persist streak history", "err", err, "events", len(s.history))
		return err
	}
	return nil
}

func (s *Store) prune(events []model.StreakEvent, now time.Time) []model.StreakEvent {
	cutoff := now.Add(-s.retention)
	kept := events[:0]
	for _, ev := range events {
		if ev.Timestamp.Before(cutoff) {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}

func sortEvents(events []model.StreakEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}

// newEventID returns a time-ordered UUIDv7, or a random UUID if the clock
// source fails.
func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
