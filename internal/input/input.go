// Package input observes global keyboard and pointer activity and classifies
// it into streak input events.
//
// Platform hooks are listen-only: observed events are never suppressed or
// altered for other applications.
package input

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/verte-zerg/keyjam/internal/logging"
	"github.com/verte-zerg/keyjam/internal/model"
)

var (
	// ErrAccessibilityPermission indicates the host must grant Accessibility trust.
	ErrAccessibilityPermission = errors.New("accessibility permission required for input monitoring")
	// ErrUnsupportedPlatform indicates no global input hook exists for this OS.
	ErrUnsupportedPlatform = errors.New("global input monitoring is not supported on this platform")
)

// CheckPlatform reports ErrUnsupportedPlatform when no global input hook
// exists for this OS. Permission is checked when a monitor starts.
func CheckPlatform() error {
	return platformSupported()
}

// Monitor observes one input modality.
type Monitor interface {
	// Start installs the observation and reports whether it succeeded.
	Start() bool
	// Stop removes the observation. It is safe to call at any time.
	Stop()
	// Events returns the channel of the current observation session. Each
	// successful Start opens a new channel.
	Events() <-chan model.InEvent
	State() model.MonitorState
}

const eventBuffer = 1024

type hookKind int

const (
	keyboardHook hookKind = iota + 1
	pointerHook
	injectedHook
)

func (k hookKind) String() string {
	switch k {
	case keyboardHook:
		return "keyboard"
	case pointerHook:
		return "mouse"
	default:
		return "synthetic"
	}
}

// rawEvent is the platform-neutral shape of an observed OS event.
type rawEvent struct {
	keyDown   bool
	modifiers Modifier
	pointer   PointerKind
	injected  model.InEvent
}

// hook is an installed platform observation.
type hook interface {
	remove()
}

// installFunc installs a platform hook delivering raw events of kind.
type installFunc func(kind hookKind, deliver func(rawEvent)) (hook, error)

// session is one Start..Stop observation window.
type session struct {
	events chan model.InEvent
	done   chan struct{}
	once   sync.Once
}

func newSession() *session {
	return &session{
		events: make(chan model.InEvent, eventBuffer),
		done:   make(chan struct{}),
	}
}

func (s *session) send(ev model.InEvent) {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// hookMonitor is the Monitor shared by the keyboard and mouse variants.
type hookMonitor struct {
	kind     hookKind
	install  installFunc
	classify func(rawEvent) (model.InEvent, bool)
	logger   *slog.Logger

	mu      sync.Mutex
	state   model.MonitorState
	current *session
	hook    hook
}

func newHookMonitor(kind hookKind, install installFunc, classify func(rawEvent) (model.InEvent, bool), logger *slog.Logger) *hookMonitor {
	return &hookMonitor{
		kind:     kind,
		install:  install,
		classify: classify,
		logger:   logging.OrDiscard(logger).With("monitor", kind.String()),
		current:  closedSession(),
	}
}

func closedSession() *session {
	s := newSession()
	s.close()
	return s
}

// Start implements Monitor.
func (m *hookMonitor) Start() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == model.Active {
		return true
	}

	sess := newSession()
	h, err := m.install(m.kind, func(raw rawEvent) {
		if ev, ok := m.classify(raw); ok {
			sess.send(ev)
		}
	})
	if err != nil {
		m.logger.Warn("failed to install input hook", "err", err)
		return false
	}
	m.current = sess
	m.hook = h
	m.state = model.Active
	m.logger.Debug("input hook installed")
	return true
}

// Stop implements Monitor.
func (m *hookMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != model.Active {
		return
	}
	m.current.close()
	if m.hook != nil {
		m.hook.remove()
		m.hook = nil
	}
	m.state = model.Idle
	m.logger.Debug("input hook removed")
}

// Events implements Monitor.
func (m *hookMonitor) Events() <-chan model.InEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.events
}

// State implements Monitor.
func (m *hookMonitor) State() model.MonitorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
