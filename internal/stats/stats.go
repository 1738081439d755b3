package stats

import (
	"fmt"
	"time"

	"github.com/verte-zerg/keyjam/internal/model"
)

// Summary aggregates a set of streak events.
type Summary struct {
	Count   int
	Average int
	Best    int
	Latest  time.Time
}

// Summarize computes the summary of events. The average is truncated.
func Summarize(events []model.StreakEvent) Summary {
	var s Summary
	if len(events) == 0 {
		return s
	}
	total := 0
	for _, ev := range events {
		total += ev.StreakCount
		if ev.StreakCount > s.Best {
			s.Best = ev.StreakCount
		}
		if ev.Timestamp.After(s.Latest) {
			s.Latest = ev.Timestamp
		}
	}
	s.Count = len(events)
	s.Average = total / len(events)
	return s
}

// String renders the one-line status used by the live view and reports.
func (s Summary) String() string {
	if s.Count == 0 {
		return "No recent streaks"
	}
	return fmt.Sprintf("%d streaks, avg: %d", s.Count, s.Average)
}

// Trend is a least-squares line fitted to streak count over time.
type Trend struct {
	// SlopePerDay is the change in streak count per day.
	SlopePerDay float64
	Start       float64
	End         float64
}

// FitTrend fits a line through (timestamp, count) for events sorted by time.
// It reports false with fewer than two events or when all timestamps are equal.
func FitTrend(events []model.StreakEvent) (Trend, bool) {
	if len(events) < 2 {
		return Trend{}, false
	}
	var meanX, meanY float64
	for _, ev := range events {
		meanX += unixSeconds(ev.Timestamp)
		meanY += float64(ev.StreakCount)
	}
	n := float64(len(events))
	meanX /= n
	meanY /= n

	var num, den float64
	for _, ev := range events {
		dx := unixSeconds(ev.Timestamp) - meanX
		num += dx * (float64(ev.StreakCount) - meanY)
		den += dx * dx
	}
	if den == 0 {
		return Trend{}, false
	}
	slope := num / den
	intercept := meanY - slope*meanX

	return Trend{
		SlopePerDay: slope * (24 * time.Hour).Seconds(),
		Start:       slope*unixSeconds(events[0].Timestamp) + intercept,
		End:         slope*unixSeconds(events[len(events)-1].Timestamp) + intercept,
	}, true
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
