// Package stats summarizes and renders recorded streak history.
package stats

import (
	"fmt"
	"strings"
)

// Scope is the reporting window.
type Scope string

const (
	ScopeDay   Scope = "day"
	ScopeWeek  Scope = "week"
	ScopeMonth Scope = "month"
)

// ParseScope parses a scope name case-insensitively.
func ParseScope(value string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(value))) {
	case ScopeDay:
		return ScopeDay, nil
	case ScopeWeek, "":
		return ScopeWeek, nil
	case ScopeMonth:
		return ScopeMonth, nil
	default:
		return "", fmt.Errorf("invalid scope %q (want day, week or month)", value)
	}
}

// Days returns the window length in days.
func (s Scope) Days() int {
	switch s {
	case ScopeDay:
		return 1
	case ScopeMonth:
		return 30
	default:
		return 7
	}
}
