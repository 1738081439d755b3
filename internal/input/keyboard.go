package input

import (
	"log/slog"

	"github.com/verte-zerg/keyjam/internal/model"
)

// Modifier is a set of keyboard modifier flags active during a key press.
type Modifier uint32

// Modifier flags.
const (
	ModCommand Modifier = 1 << iota
	ModControl
	ModOption
	ModHelp
	ModFunction
	ModShift
	ModCapsLock
)

// ShortcutModifiers turn a key press into a shortcut press.
const ShortcutModifiers = ModCommand | ModControl | ModOption | ModHelp | ModFunction

// ClassifyKeyDown classifies a key-down by its active modifiers.
func ClassifyKeyDown(mods Modifier) model.InEvent {
	if mods&ShortcutModifiers != 0 {
		return model.ShortcutKeyPress
	}
	return model.CommonKeyPress
}

func classifyKeyboard(raw rawEvent) (model.InEvent, bool) {
	if !raw.keyDown {
		return 0, false
	}
	return ClassifyKeyDown(raw.modifiers), true
}

// NewKeyboardMonitor returns a Monitor for global key-down events using the
// platform hook.
func NewKeyboardMonitor(logger *slog.Logger) Monitor {
	return newHookMonitor(keyboardHook, installPlatformHook, classifyKeyboard, logger)
}
