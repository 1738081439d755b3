package input

import (
	"log/slog"
	"sync"

	"github.com/verte-zerg/keyjam/internal/model"
)

// Synthetic is a Monitor fed by Emit instead of an OS hook. It backs tests and
// replayed input scripts.
type Synthetic struct {
	*hookMonitor

	mu      sync.Mutex
	fail    bool
	deliver func(rawEvent)
	starts  int
}

type syntheticHook struct {
	s *Synthetic
}

func (h syntheticHook) remove() {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	h.s.deliver = nil
}

// NewSynthetic returns a Synthetic monitor. Its Start succeeds unless SetFail(true).
func NewSynthetic(logger *slog.Logger) *Synthetic {
	s := &Synthetic{}
	s.hookMonitor = newHookMonitor(injectedHook, s.install, func(raw rawEvent) (model.InEvent, bool) {
		return raw.injected, raw.injected != 0
	}, logger)
	return s
}

func (s *Synthetic) install(_ hookKind, deliver func(rawEvent)) (hook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts++
	if s.fail {
		return nil, ErrAccessibilityPermission
	}
	s.deliver = deliver
	return syntheticHook{s: s}, nil
}

// SetFail makes subsequent Start calls fail.
func (s *Synthetic) SetFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

// StartAttempts returns how many times a hook installation was attempted.
func (s *Synthetic) StartAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

// Emit delivers ev as if observed by the OS. It reports false when the
// monitor is not active and the event was discarded.
func (s *Synthetic) Emit(ev model.InEvent) bool {
	s.mu.Lock()
	deliver := s.deliver
	s.mu.Unlock()
	if deliver == nil {
		return false
	}
	deliver(rawEvent{injected: ev})
	return true
}
