package statsui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keyjam/internal/model"
	"github.com/verte-zerg/keyjam/internal/stats"
)

type scopedSource struct {
	events []model.StreakEvent
	days   []int
}

func (s *scopedSource) RecentEvents(days int) []model.StreakEvent {
	s.days = append(s.days, days)
	return s.events
}

func sampleEvents() []model.StreakEvent {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return []model.StreakEvent{
		{ID: "a", Timestamp: base, StreakCount: 5},
		{ID: "b", Timestamp: base.Add(24 * time.Hour), StreakCount: 12},
		{ID: "c", Timestamp: base.Add(48 * time.Hour), StreakCount: 30},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestScopeCycles(t *testing.T) {
	src := &scopedSource{events: sampleEvents()}
	m := NewModel(src, stats.ScopeWeek)
	assert.Equal(t, stats.ScopeWeek, m.scope())

	m.Update(keyRunes("s"))
	assert.Equal(t, stats.ScopeMonth, m.scope())
	m.Update(keyRunes("s"))
	assert.Equal(t, stats.ScopeDay, m.scope())
	assert.Equal(t, []int{7, 30, 1}, src.days)
}

func TestMinStreakFilter(t *testing.T) {
	m := NewModel(&scopedSource{events: sampleEvents()}, stats.ScopeMonth)
	require.Len(t, m.history.Rows(), 3)

	m.Update(keyRunes("/"))
	require.True(t, m.filterMode)
	m.filterInput.SetValue("10")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.filterMode)
	assert.Equal(t, 10, m.minStreak)
	rows := m.history.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "30", rows[0][2], "newest first")

	m.Update(keyRunes("/"))
	m.filterInput.SetValue("-1")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.filterMode)
	assert.NotEmpty(t, m.filterError)
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.filterMode)
	assert.Equal(t, 10, m.minStreak)
}

func TestViewRendersTabs(t *testing.T) {
	m := NewModel(&scopedSource{events: sampleEvents()}, stats.ScopeMonth)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Overview")
	assert.Contains(t, view, "3 streaks, avg: 15")
	assert.Len(t, strings.Split(view, "\n"), 30)

	m.Update(keyRunes("l"))
	assert.Equal(t, tabHistory, m.activeTab)
	assert.Contains(t, m.View(), "Streak")
}

func TestEmptyHistory(t *testing.T) {
	m := NewModel(&scopedSource{}, stats.ScopeDay)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	assert.Contains(t, m.View(), "No recent streaks")
}

func TestParseMinStreak(t *testing.T) {
	n, err := parseMinStreak(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	n, err = parseMinStreak("")
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = parseMinStreak("abc")
	assert.Error(t, err)
}
