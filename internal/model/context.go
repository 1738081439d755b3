package model

import "strings"

// StreakContext filters input by foreground application.
// The zero value counts input from all applications.
type StreakContext struct {
	apps []string
	set  map[string]struct{}
}

// AllApps returns a context that counts every application.
func AllApps() StreakContext {
	return StreakContext{}
}

// TrackApps returns a context restricted to the named applications. Names are
// matched exactly; empty names and duplicates are dropped, keeping first
// occurrence order. An empty result is equivalent to AllApps.
func TrackApps(names []string) StreakContext {
	ctx := StreakContext{set: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := ctx.set[name]; ok {
			continue
		}
		ctx.set[name] = struct{}{}
		ctx.apps = append(ctx.apps, name)
	}
	if len(ctx.apps) == 0 {
		return AllApps()
	}
	return ctx
}

// IsAll reports whether the context applies no filter.
func (c StreakContext) IsAll() bool {
	return len(c.apps) == 0
}

// Contains reports whether app is tracked. It is case-sensitive.
func (c StreakContext) Contains(app string) bool {
	_, ok := c.set[app]
	return ok
}

// Apps returns a copy of the tracked application names.
func (c StreakContext) Apps() []string {
	return append([]string(nil), c.apps...)
}

func (c StreakContext) String() string {
	if c.IsAll() {
		return "all apps"
	}
	return strings.Join(c.apps, ", ")
}
