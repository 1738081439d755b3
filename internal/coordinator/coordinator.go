// Package coordinator owns the tracking lifecycle: it starts the input
// monitors, filters events by the foreground application, runs the streak
// engine and publishes the resulting output events to subscribers.
package coordinator

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/verte-zerg/keyjam/internal/engine"
	"github.com/verte-zerg/keyjam/internal/foreground"
	"github.com/verte-zerg/keyjam/internal/input"
	"github.com/verte-zerg/keyjam/internal/logging"
	"github.com/verte-zerg/keyjam/internal/model"
)

// State is the coordinator lifecycle state.
type State int

const (
	Stopped State = iota
	Started
)

func (s State) String() string {
	if s == Started {
		return "started"
	}
	return "stopped"
}

// DefaultSubscriberBuffer is used when Subscribe is called with a non-positive buffer.
const DefaultSubscriberBuffer = 64

// Preferences supplies the persisted tracked-app list.
type Preferences interface {
	TrackedApps() ([]string, error)
}

// Options wires the collaborators of a Coordinator.
type Options struct {
	Counters    engine.Counters
	Keyboard    input.Monitor
	Mouse       input.Monitor
	Foreground  foreground.Provider
	Preferences Preferences
	Logger      *slog.Logger
}

// Coordinator is the top-level tracking state machine.
type Coordinator struct {
	counters engine.Counters
	keyboard input.Monitor
	mouse    input.Monitor
	apps     foreground.Provider
	prefs    Preferences
	logger   *slog.Logger

	// mu guards the lifecycle fields. The processing loop never takes it.
	mu       sync.Mutex
	state    State
	stop     chan struct{}
	loopDone chan struct{}

	ctxMu sync.RWMutex
	ctx   model.StreakContext

	// step serializes transitions from the loop and from Process.
	step sync.Mutex
	// active mirrors state for Process, which never takes mu. It is cleared
	// before the loop is signalled, so events still buffered are dropped.
	active atomic.Bool

	subsMu  sync.Mutex
	subs    map[int]chan model.OutEvent
	nextSub int
}

// New returns a stopped Coordinator tracking all apps.
func New(opts Options) *Coordinator {
	return &Coordinator{
		counters: opts.Counters,
		keyboard: opts.Keyboard,
		mouse:    opts.Mouse,
		apps:     opts.Foreground,
		prefs:    opts.Preferences,
		logger:   logging.OrDiscard(opts.Logger).With("component", "coordinator"),
		ctx:      model.AllApps(),
		subs:     make(map[int]chan model.OutEvent),
	}
}

// Start loads the tracked apps and starts both monitors. It reports whether
// tracking is running. When either monitor fails, both are stopped and the
// coordinator stays Stopped; Start may be retried.
func (c *Coordinator) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Started {
		return true
	}
	if c.loopDone != nil {
		<-c.loopDone
		c.loopDone = nil
	}

	c.UpdateContext(c.trackedApps())

	keyboardOK := c.keyboard.Start()
	mouseOK := c.mouse.Start()
	if !keyboardOK || !mouseOK {
		c.logger.Warn("failed to start tracking", "keyboard", keyboardOK, "mouse", mouseOK)
		c.stopLocked()
		return false
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	c.stop = stop
	c.loopDone = done
	c.state = Started
	c.active.Store(true)
	go c.loop(c.keyboard.Events(), c.mouse.Events(), stop, done)
	c.logger.Info("tracking started", "context", c.Context().String())
	return true
}

// Stop stops both monitors and the processing loop. It does not wait for the
// loop to exit.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	wasStarted := c.state == Started
	c.stopLocked()
	if wasStarted {
		c.logger.Info("tracking stopped")
	}
}

func (c *Coordinator) stopLocked() {
	c.active.Store(false)
	c.keyboard.Stop()
	c.mouse.Stop()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.state = Stopped
}

// State returns the lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsEnabled reports whether tracking is running.
func (c *Coordinator) IsEnabled() bool {
	return c.State() == Started
}

// SetEnabled starts or stops tracking and reports the resulting enabled state.
func (c *Coordinator) SetEnabled(enabled bool) bool {
	if enabled {
		return c.Start()
	}
	c.Stop()
	return false
}

// UpdateContext restricts counting to names. An empty list tracks all apps.
func (c *Coordinator) UpdateContext(names []string) {
	next := model.TrackApps(names)
	c.ctxMu.Lock()
	c.ctx = next
	c.ctxMu.Unlock()
	c.logger.Debug("context updated", "context", next.String())
}

// Context returns the active streak context.
func (c *Coordinator) Context() model.StreakContext {
	c.ctxMu.RLock()
	defer c.ctxMu.RUnlock()
	return c.ctx
}

// Subscribe registers a new output listener. The returned function removes
// the listener and closes its channel.
func (c *Coordinator) Subscribe(buffer int) (<-chan model.OutEvent, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	ch := make(chan model.OutEvent, buffer)

	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subsMu.Lock()
			delete(c.subs, id)
			c.subsMu.Unlock()
			close(ch)
		})
	}
}

// Process runs one input event through the filter and the engine, publishes
// the output and returns it. Filtered events, and any event while tracking is
// stopped, return nil.
func (c *Coordinator) Process(ev model.InEvent) []model.OutEvent {
	c.step.Lock()
	defer c.step.Unlock()

	if !c.active.Load() || !c.shouldCount() {
		return nil
	}
	out := engine.Process(c.counters, ev)
	if out.Kind == 0 {
		c.logger.Debug("ignored unknown input event", "event", int(ev))
		return nil
	}
	batch := []model.OutEvent{out}
	if out.Kind == model.MouseBrokeStreak {
		batch = append(batch, model.OutEvent{Kind: model.Reset})
	}
	c.publish(batch)
	return batch
}

func (c *Coordinator) shouldCount() bool {
	ctx := c.Context()
	if ctx.IsAll() {
		return true
	}
	if c.apps == nil {
		return false
	}
	app, ok := c.apps.ForegroundApp()
	if !ok {
		return false
	}
	return ctx.Contains(app)
}

func (c *Coordinator) publish(batch []model.OutEvent) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for id, ch := range c.subs {
		if cap(ch)-len(ch) < len(batch) {
			c.logger.Warn("subscriber is full, dropping output", "subscriber", id, "events", len(batch))
			continue
		}
		for _, ev := range batch {
			ch <- ev
		}
	}
}

func (c *Coordinator) loop(keyboard, mouse <-chan model.InEvent, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}
		select {
		case <-stop:
			return
		case ev := <-keyboard:
			c.Process(ev)
		case ev := <-mouse:
			c.Process(ev)
		}
	}
}

func (c *Coordinator) trackedApps() []string {
	if c.prefs == nil {
		return nil
	}
	apps, err := c.prefs.TrackedApps()
	if err != nil {
		c.logger.Warn("failed to load tracked apps, tracking all apps", "err", err)
		return nil
	}
	return apps
}
