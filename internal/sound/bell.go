// Package sound plays the audible cue for long streaks broken by the mouse.
package sound

import (
	"context"
	"io"
	"log/slog"

	"github.com/verte-zerg/keyjam/internal/logging"
	"github.com/verte-zerg/keyjam/internal/model"
)

// DefaultThreshold is the streak length a break must exceed to ring.
const DefaultThreshold = 15

const bell = "\a"

// Options configures a Bell.
type Options struct {
	Threshold int
	// Disabled is consulted on every break so preference edits apply live.
	Disabled func() (bool, error)
	Logger   *slog.Logger
}

// Bell rings the terminal bell on qualifying MouseBrokeStreak events.
type Bell struct {
	out       io.Writer
	threshold int
	disabled  func() (bool, error)
	logger    *slog.Logger
}

// NewBell returns a Bell writing to out.
func NewBell(out io.Writer, opts Options) *Bell {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Bell{
		out:       out,
		threshold: threshold,
		disabled:  opts.Disabled,
		logger:    logging.OrDiscard(opts.Logger),
	}
}

// Threshold returns the effective threshold.
func (b *Bell) Threshold() int {
	return b.threshold
}

// ShouldRing reports whether ev qualifies for the cue.
func (b *Bell) ShouldRing(ev model.OutEvent) bool {
	if ev.Kind != model.MouseBrokeStreak || ev.Count <= b.threshold {
		return false
	}
	if b.disabled == nil {
		return true
	}
	off, err := b.disabled()
	if err != nil {
		b.logger.Warn("failed to read sound preference", "err", err)
		return true
	}
	return !off
}

// Notify rings when ev qualifies and reports whether it did.
func (b *Bell) Notify(ev model.OutEvent) bool {
	if !b.ShouldRing(ev) {
		return false
	}
	if _, err := io.WriteString(b.out, bell); err != nil {
		b.logger.Warn("failed to ring bell", "err", err)
		return false
	}
	b.logger.Debug("streak broken cue", "count", ev.Count)
	return true
}

// Run consumes events until ctx is done or events is closed.
func (b *Bell) Run(ctx context.Context, events <-chan model.OutEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b.Notify(ev)
		}
	}
}
