package input

import (
	"log/slog"

	"github.com/verte-zerg/keyjam/internal/model"
)

// PointerKind is the kind of an observed pointer event.
type PointerKind int

// Pointer event kinds.
const (
	PointerMoved PointerKind = iota + 1
	LeftDragged
	RightDragged
	OtherDragged
	ButtonDown
	ScrollWheel
)

// ClassifyPointer maps a pointer event to MouseMoveStarted. Only moves and
// left or right drags count; distance, velocity and direction are ignored.
func ClassifyPointer(kind PointerKind) (model.InEvent, bool) {
	switch kind {
	case PointerMoved, LeftDragged, RightDragged:
		return model.MouseMoveStarted, true
	default:
		return 0, false
	}
}

func classifyMouse(raw rawEvent) (model.InEvent, bool) {
	return ClassifyPointer(raw.pointer)
}

// NewMouseMonitor returns a Monitor for global pointer movement using the
// platform hook.
func NewMouseMonitor(logger *slog.Logger) Monitor {
	return newHookMonitor(pointerHook, installPlatformHook, classifyMouse, logger)
}
