package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/keyjam/internal/model"
)

// EventSource supplies the recorded streaks inside a window.
type EventSource interface {
	RecentEvents(days int) []model.StreakEvent
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Scope    Scope
	Events   []model.StreakEvent
	Summary  Summary
	Trend    Trend
	HasTrend bool
}

// BuildReport loads the events of scope and prepares them for rendering.
func BuildReport(src EventSource, scope Scope) Report {
	events := src.RecentEvents(scope.Days())
	trend, ok := FitTrend(events)
	return Report{
		Scope:    scope,
		Events:   events,
		Summary:  Summarize(events),
		Trend:    trend,
		HasTrend: ok,
	}
}

// RenderOptions sizes the streak plot.
type RenderOptions struct {
	Width    int
	Height   int
	UseColor bool
}

// RenderReport prints the summary, the trend and a plot of the report.
func RenderReport(w io.Writer, r Report, opts RenderOptions) error {
	if _, err := fmt.Fprintf(w, "Streaks (last %s)\n", r.Scope); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, r.Summary.String()); err != nil {
		return err
	}
	if r.Summary.Count == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Best: %d\n", r.Summary.Best); err != nil {
		return err
	}
	if r.HasTrend {
		if _, err := fmt.Fprintf(w, "Trend: %+.1f per day (%.0f -> %.0f)\n", r.Trend.SlopePerDay, r.Trend.Start, r.Trend.End); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	chart := Chart{
		Events:   r.Events,
		Trend:    r.Trend,
		HasTrend: r.HasTrend,
		Height:   opts.Height,
		Color:    opts.UseColor,
	}
	if opts.Width > 0 {
		chart.Width = PlotWidthFor(opts.Width)
	}
	return chart.Render(w)
}
