package stats

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keyjam/internal/model"
)

type fixedSource struct {
	events []model.StreakEvent
	days   int
}

func (s *fixedSource) RecentEvents(days int) []model.StreakEvent {
	s.days = days
	return s.events
}

func eventsAt(base time.Time, step time.Duration, counts ...int) []model.StreakEvent {
	out := make([]model.StreakEvent, len(counts))
	for i, c := range counts {
		out[i] = model.StreakEvent{Timestamp: base.Add(time.Duration(i) * step), StreakCount: c}
	}
	return out
}

func TestParseScope(t *testing.T) {
	for in, want := range map[string]Scope{"day": ScopeDay, "WEEK": ScopeWeek, "": ScopeWeek, " month ": ScopeMonth} {
		got, err := ParseScope(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseScope("year")
	assert.Error(t, err)

	assert.Equal(t, 1, ScopeDay.Days())
	assert.Equal(t, 7, ScopeWeek.Days())
	assert.Equal(t, 30, ScopeMonth.Days())
}

func TestSummarize(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := Summarize(eventsAt(base, time.Hour, 5, 10, 6))
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 7, s.Average)
	assert.Equal(t, 10, s.Best)
	assert.Equal(t, base.Add(2*time.Hour), s.Latest)
	assert.Equal(t, "3 streaks, avg: 7", s.String())

	assert.Equal(t, "No recent streaks", Summarize(nil).String())
}

func TestFitTrend(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	tr, ok := FitTrend(eventsAt(base, 24*time.Hour, 10, 12, 14, 16))
	require.True(t, ok)
	assert.InDelta(t, 2.0, tr.SlopePerDay, 1e-6)
	assert.InDelta(t, 10.0, tr.Start, 1e-6)
	assert.InDelta(t, 16.0, tr.End, 1e-6)

	_, ok = FitTrend(eventsAt(base, 0, 4, 9))
	assert.False(t, ok, "identical timestamps have no trend")
	_, ok = FitTrend(eventsAt(base, time.Hour, 4))
	assert.False(t, ok)
}

func TestBuildReport(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	src := &fixedSource{events: eventsAt(base, 24*time.Hour, 8, 20, 35)}

	r := BuildReport(src, ScopeMonth)
	assert.Equal(t, 30, src.days)
	assert.Equal(t, 3, r.Summary.Count)
	assert.True(t, r.HasTrend)
	assert.Greater(t, r.Trend.SlopePerDay, 0.0)

	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, r, RenderOptions{Width: 40, Height: 5}))
	out := buf.String()
	assert.Contains(t, out, "Streaks (last month)")
	assert.Contains(t, out, "3 streaks, avg: 21")
	assert.Contains(t, out, "Best: 35")
	assert.Contains(t, out, "Trend: +13.5 per day")
	assert.Contains(t, out, "Legend:")
}

func TestRenderReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, BuildReport(&fixedSource{}, ScopeDay), RenderOptions{}))
	assert.Equal(t, "Streaks (last day)\nNo recent streaks\n", buf.String())
}
