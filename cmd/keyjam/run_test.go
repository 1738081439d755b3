package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keyjam/internal/coordinator"
	"github.com/verte-zerg/keyjam/internal/foreground"
	"github.com/verte-zerg/keyjam/internal/input"
	"github.com/verte-zerg/keyjam/internal/model"
	"github.com/verte-zerg/keyjam/internal/store"
)

func newSyntheticCoordinator(t *testing.T) (*coordinator.Coordinator, *input.Synthetic) {
	t.Helper()
	keyboard := input.NewSynthetic(nil)
	coord := coordinator.New(coordinator.Options{
		Counters:   store.New(store.NewMemoryBackend(), store.Options{}),
		Keyboard:   keyboard,
		Mouse:      input.NewSynthetic(nil),
		Foreground: foreground.Static("Terminal"),
	})
	t.Cleanup(coord.Stop)
	return coord, keyboard
}

func TestStartTrackingSubscribesFirst(t *testing.T) {
	coord, keyboard := newSyntheticCoordinator(t)

	events, unsubscribe, started := startTracking(coord, true)
	defer unsubscribe()
	require.True(t, started)
	require.True(t, keyboard.Emit(model.CommonKeyPress))

	select {
	case ev := <-events:
		assert.Equal(t, model.Increased, ev.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the first output event")
	}
}

func TestStartTrackingDisabled(t *testing.T) {
	coord, keyboard := newSyntheticCoordinator(t)

	events, unsubscribe, started := startTracking(coord, false)
	assert.False(t, started)
	assert.False(t, coord.IsEnabled())
	assert.False(t, keyboard.Emit(model.CommonKeyPress))

	unsubscribe()
	_, ok := <-events
	assert.False(t, ok)
}
