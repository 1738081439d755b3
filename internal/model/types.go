// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// RecordingThreshold is the closed-streak length that must be exceeded for a
// StreakEvent to be kept in history.
const RecordingThreshold = 3

// StreakEvent records a completed streak.
type StreakEvent struct {
	ID          string
	Timestamp   time.Time
	StreakCount int
}

// InEvent is a classified input observation.
type InEvent int

const (
	// CommonKeyPress is a key-down without shortcut modifiers.
	CommonKeyPress InEvent = iota + 1
	// ShortcutKeyPress is a key-down with a shortcut modifier held.
	ShortcutKeyPress
	// MouseMoveStarted is any pointer move or drag.
	MouseMoveStarted
)

func (e InEvent) String() string {
	switch e {
	case CommonKeyPress:
		return "common-key"
	case ShortcutKeyPress:
		return "shortcut-key"
	case MouseMoveStarted:
		return "mouse-move"
	default:
		return fmt.Sprintf("in-event(%d)", int(e))
	}
}

// IsKeyPress reports whether the event came from the keyboard.
func (e InEvent) IsKeyPress() bool {
	return e == CommonKeyPress || e == ShortcutKeyPress
}

// OutKind enumerates streak output events.
type OutKind int

const (
	// Increased follows every counted key press.
	Increased OutKind = iota + 1
	// Decreased is reserved; no transition produces it.
	Decreased
	// Reset signals the streak is at zero.
	Reset
	// MouseBrokeStreak carries the length of the streak a mouse move ended.
	MouseBrokeStreak
)

func (k OutKind) String() string {
	switch k {
	case Increased:
		return "increased"
	case Decreased:
		return "decreased"
	case Reset:
		return "reset"
	case MouseBrokeStreak:
		return "mouse-broke-streak"
	default:
		return fmt.Sprintf("out-kind(%d)", int(k))
	}
}

// OutEvent is published to consumers of the streak coordinator.
type OutEvent struct {
	Kind OutKind
	// Count is the broken streak length; set only for MouseBrokeStreak.
	Count int
}

func (e OutEvent) String() string {
	if e.Kind == MouseBrokeStreak {
		return fmt.Sprintf("%s(%d)", e.Kind, e.Count)
	}
	return e.Kind.String()
}

// BrokeStreak builds a MouseBrokeStreak event.
func BrokeStreak(count int) OutEvent {
	return OutEvent{Kind: MouseBrokeStreak, Count: count}
}

// MonitorState describes whether an input monitor is observing.
type MonitorState int

const (
	// Idle monitors observe nothing.
	Idle MonitorState = iota
	// Active monitors deliver events.
	Active
)

func (s MonitorState) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}
