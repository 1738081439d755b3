// Package engine implements the streak transition rules.
package engine

import "github.com/verte-zerg/keyjam/internal/model"

// Counters is the counter state a transition reads and mutates.
type Counters interface {
	CurrentStreak() int
	IncrementKeyCount()
	ResetKeyCount() int
	IncrementMouseBreak()
}

// Process applies ev to c and returns the resulting output event.
//
// Key presses extend the streak. A mouse move ends a running streak and
// reports its length; with no running streak it only reports Reset.
func Process(c Counters, ev model.InEvent) model.OutEvent {
	switch ev {
	case model.CommonKeyPress, model.ShortcutKeyPress:
		c.IncrementKeyCount()
		return model.OutEvent{Kind: model.Increased}
	case model.MouseMoveStarted:
		if c.CurrentStreak() > 0 {
			prior := c.ResetKeyCount()
			c.IncrementMouseBreak()
			return model.BrokeStreak(prior)
		}
		return model.OutEvent{Kind: model.Reset}
	default:
		return model.OutEvent{}
	}
}
