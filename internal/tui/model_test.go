package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keyjam/internal/model"
	"github.com/verte-zerg/keyjam/internal/store"
)

type fakeController struct {
	enabled  bool
	failNext bool
	ctx      model.StreakContext
}

func (c *fakeController) IsEnabled() bool { return c.enabled }

func (c *fakeController) SetEnabled(enabled bool) bool {
	if enabled && c.failNext {
		c.failNext = false
		return false
	}
	c.enabled = enabled
	return c.enabled
}

func (c *fakeController) Context() model.StreakContext { return c.ctx }

type fakeSource struct {
	counters store.Counters
	events   []model.StreakEvent
}

func (s *fakeSource) Counters() store.Counters { return s.counters }

func (s *fakeSource) RecentEvents(int) []model.StreakEvent { return s.events }

func TestRenderFooterFormats(t *testing.T) {
	ctrl := &fakeController{ctx: model.TrackApps([]string{"Xcode", "Terminal"})}
	src := &fakeSource{events: []model.StreakEvent{{StreakCount: 10}, {StreakCount: 21}}}
	m := NewModel(ctrl, src, nil)

	out := m.renderFooter()
	for _, want := range []string{"Today 2 streaks, avg: 15", "Best 21", "Apps Xcode, Terminal"} {
		assert.Contains(t, out, want)
	}
}

func TestOutEventUpdatesCounters(t *testing.T) {
	ctrl := &fakeController{enabled: true, ctx: model.AllApps()}
	src := &fakeSource{}
	events := make(chan model.OutEvent, 1)
	m := NewModel(ctrl, src, events)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	src.counters = store.Counters{CurrentStreak: 0, MouseBreakCount: 1}
	_, cmd := m.Update(outEventMsg(model.BrokeStreak(17)))
	require.NotNil(t, cmd, "view keeps listening for output")

	assert.Equal(t, 17, m.lastBreak)
	assert.Equal(t, now, m.lastBreakAt)
	assert.Equal(t, 1, m.counters.MouseBreakCount)

	view := m.View()
	assert.Contains(t, view, "Tracking")
	assert.Contains(t, view, "17 (now)")
}

func TestToggleKey(t *testing.T) {
	ctrl := &fakeController{enabled: true, ctx: model.AllApps()}
	m := NewModel(ctrl, &fakeSource{}, nil)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.False(t, ctrl.enabled)
	assert.Contains(t, m.View(), "Paused")

	ctrl.failNext = true
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.False(t, m.enabled)
	assert.Contains(t, m.errMsg, "Failed to start tracking")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	assert.True(t, m.enabled)
	assert.Empty(t, m.errMsg)
}

func TestQuitKey(t *testing.T) {
	m := NewModel(&fakeController{ctx: model.AllApps()}, &fakeSource{}, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWaitForEventReportsClose(t *testing.T) {
	events := make(chan model.OutEvent)
	close(events)
	assert.Equal(t, eventsClosedMsg{}, waitForEvent(events)())
}
