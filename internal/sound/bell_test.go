package sound

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/keyjam/internal/model"
)

func TestShouldRing(t *testing.T) {
	b := NewBell(&bytes.Buffer{}, Options{})
	assert.Equal(t, DefaultThreshold, b.Threshold())

	cases := []struct {
		ev   model.OutEvent
		want bool
	}{
		{model.BrokeStreak(16), true},
		{model.BrokeStreak(15), false},
		{model.BrokeStreak(3), false},
		{model.OutEvent{Kind: model.Reset}, false},
		{model.OutEvent{Kind: model.Increased, Count: 40}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, b.ShouldRing(tc.ev), tc.ev.String())
	}
}

func TestNotifyRespectsPreference(t *testing.T) {
	var out bytes.Buffer
	off := true
	b := NewBell(&out, Options{Threshold: 5, Disabled: func() (bool, error) { return off, nil }})

	assert.False(t, b.Notify(model.BrokeStreak(6)))
	assert.Empty(t, out.String())

	off = false
	assert.True(t, b.Notify(model.BrokeStreak(6)))
	assert.Equal(t, "\a", out.String())
}

func TestNotifyRingsWhenPreferenceUnreadable(t *testing.T) {
	var out bytes.Buffer
	b := NewBell(&out, Options{Disabled: func() (bool, error) { return false, errors.New("bad toml") }})
	assert.True(t, b.Notify(model.BrokeStreak(20)))
}

func TestRunStopsOnClose(t *testing.T) {
	var out bytes.Buffer
	b := NewBell(&out, Options{})
	events := make(chan model.OutEvent, 3)
	events <- model.BrokeStreak(30)
	events <- model.OutEvent{Kind: model.Reset}
	events <- model.BrokeStreak(2)
	close(events)

	b.Run(context.Background(), events)
	assert.Equal(t, "\a", out.String())
}
