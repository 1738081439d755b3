// Package generator builds sample streak histories.
package generator

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/keyjam/internal/model"
)

const (
	minSampleStreak = model.RecordingThreshold + 1
	firstHour       = 9
	lastHour        = 17
)

// MonthOptions shapes SampleMonth.
type MonthOptions struct {
	Days       int
	StartValue int
	EndValue   int
	// MaxPerDay bounds the events generated per day (at least one).
	MaxPerDay int
}

// DefaultMonth is a month trending upward from short to long streaks.
var DefaultMonth = MonthOptions{Days: 30, StartValue: 8, EndValue: 65, MaxPerDay: 3}

// Generator produces randomized streak events. Events carry no id.
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()), time.Now)
}

// NewWithSource returns a Generator with a fixed random source and clock.
func NewWithSource(src rand.Source, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rnd: rand.New(src), now: now}
}

// SampleMonth generates opts.Days days of events, oldest day first, during
// business hours. Counts follow a linear trend from StartValue to EndValue with
// up to 15% noise and never drop below a recordable streak. Events that would
// fall after now are clamped to now.
func (g *Generator) SampleMonth(opts MonthOptions) []model.StreakEvent {
	if opts.Days <= 0 {
		return nil
	}
	if opts.MaxPerDay < 1 {
		opts.MaxPerDay = 1
	}
	now := g.now()
	step := 0.0
	if opts.Days > 1 {
		step = float64(opts.EndValue-opts.StartValue) / float64(opts.Days-1)
	}

	events := make([]model.StreakEvent, 0, opts.Days*opts.MaxPerDay)
	for day := 0; day < opts.Days; day++ {
		date := now.AddDate(0, 0, -(opts.Days - 1 - day))
		base := float64(opts.StartValue) + step*float64(day)
		maxVariation := math.Max(2, base*0.15)
		perDay := 1 + g.rnd.Intn(opts.MaxPerDay)
		for i := 0; i < perDay; i++ {
			count := int(base + (g.rnd.Float64()*2-1)*maxVariation)
			ts := time.Date(date.Year(), date.Month(), date.Day(),
				firstHour+g.rnd.Intn(lastHour-firstHour+1), g.rnd.Intn(60), 0, 0, date.Location())
			if ts.After(now) {
				ts = now
			}
			events = append(events, model.StreakEvent{
				Timestamp:   ts,
				StreakCount: clampStreak(count),
			})
		}
	}
	sortByTime(events)
	return events
}

// SampleHours generates count hourly events ending at now, counting down
// from startValue at now toward endValue in the past, with +-3 noise.
func (g *Generator) SampleHours(startValue, endValue, count int) []model.StreakEvent {
	if count <= 0 {
		return nil
	}
	now := g.now()
	step := 0.0
	if count > 1 {
		step = float64(endValue-startValue) / float64(count-1)
	}
	events := make([]model.StreakEvent, 0, count)
	for i := 0; i < count; i++ {
		trend := float64(startValue) + step*float64(i)
		events = append(events, model.StreakEvent{
			Timestamp:   now.Add(-time.Duration(i) * time.Hour),
			StreakCount: clampStreak(int(trend + g.rnd.Float64()*6 - 3)),
		})
	}
	sortByTime(events)
	return events
}

func clampStreak(count int) int {
	if count < minSampleStreak {
		return minSampleStreak
	}
	return count
}

func sortByTime(events []model.StreakEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
