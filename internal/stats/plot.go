package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/keyjam/internal/model"
)

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 4
	axisSeparator       = " │ "
	terminalWidthBackup = 80

	// The y axis always starts at zero and leaves headroom above the best streak.
	minUpperBound = 20
	headroom      = 5

	streakColor = "\x1b[36m"
	trendColor  = "\x1b[35m"
	colorReset  = "\x1b[0m"
)

// dotBits maps a pixel inside a 2x4 braille cell, indexed [row][column], to
// its bit in the Unicode braille block.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Chart plots streak counts over time: one dot per recorded streak on a time
// axis spanning the first to the last event, with an optional dotted trend.
type Chart struct {
	Events   []model.StreakEvent
	Trend    Trend
	HasTrend bool
	// Width is the number of plot columns, excluding the axis. Zero fits the terminal.
	Width  int
	Height int
	// Color forces ANSI colors; otherwise they are used only on a terminal.
	Color bool
}

// Render writes the chart to w. An empty chart writes nothing.
func (c Chart) Render(w io.Writer) error {
	if len(c.Events) == 0 {
		return nil
	}
	width, height := c.Width, c.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	upper := c.upperBound()
	streaks := newCanvas(width, height)
	trend := newCanvas(width, height)
	first, last := c.Events[0].Timestamp, c.Events[len(c.Events)-1].Timestamp

	for _, ev := range c.Events {
		streaks.set(streaks.column(ev.Timestamp, first, last), streaks.row(float64(ev.StreakCount), upper))
	}
	if c.HasTrend {
		x0, x1 := 0, streaks.pixelWidth()-1
		if first.Equal(last) {
			x0, x1 = x1/2, x1/2
		}
		drawLine(x0, trend.row(c.Trend.Start, upper), x1, trend.row(c.Trend.End, upper), func(x, y int) {
			if x%2 == 0 {
				trend.set(x, y)
			}
		})
	}

	color := c.Color || isTerminal(w)
	if os.Getenv("NO_COLOR") != "" {
		color = false
	}
	labels := axisLabels(height, upper)
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", axisLabelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			row.WriteString(cellText(streaks.cells[y][x], trend.cells[y][x], color))
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, timeAxis(first, last, width)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, legend(c.HasTrend, color)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func (c Chart) upperBound() float64 {
	best := 0.0
	for _, ev := range c.Events {
		best = math.Max(best, float64(ev.StreakCount))
	}
	if c.HasTrend {
		best = math.Max(best, math.Max(c.Trend.Start, c.Trend.End))
	}
	return math.Max(math.Ceil(best)+headroom, minUpperBound)
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth - utf8.RuneCountInString(axisSeparator)
	if plotWidth < minPlotWidth {
		return minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// canvas is a grid of braille cells addressed in pixels, two per column and
// four per row.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

func (c *canvas) pixelWidth() int  { return len(c.cells[0]) * 2 }
func (c *canvas) pixelHeight() int { return len(c.cells) * 4 }

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.pixelWidth() || y >= c.pixelHeight() {
		return
	}
	c.cells[y/4][x/2] |= dotBits[y%4][x%2]
}

// column places t on the time axis between first and last. A zero span puts
// every event in the middle.
func (c *canvas) column(t, first, last time.Time) int {
	maxX := c.pixelWidth() - 1
	span := last.Sub(first)
	if span <= 0 {
		return maxX / 2
	}
	return int(math.Round(float64(t.Sub(first)) / float64(span) * float64(maxX)))
}

// row maps a count onto the y axis, zero at the bottom.
func (c *canvas) row(v, upper float64) int {
	maxY := c.pixelHeight() - 1
	pos := math.Min(math.Max(v/upper, 0), 1)
	return int(math.Round((1 - pos) * float64(maxY)))
}

func cellText(streak, trend uint8, color bool) string {
	ch := string(rune(0x2800 + int(streak|trend)))
	switch {
	case !color || streak|trend == 0:
		return ch
	case streak != 0:
		return streakColor + ch + colorReset
	default:
		return trendColor + ch + colorReset
	}
}

func axisLabels(height int, upper float64) []string {
	labels := make([]string, height)
	labels[0] = fmt.Sprintf("%.0f", upper)
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.0f", upper/2)
	}
	if height > 1 {
		labels[height-1] = "0"
	}
	return labels
}

// timeAxis labels the first and last event under the plot. Spans within a
// day show clock times.
func timeAxis(first, last time.Time, width int) string {
	layout := "Jan 2"
	if last.Sub(first) < 24*time.Hour {
		layout = "15:04"
	}
	left := first.Local().Format(layout)
	right := last.Local().Format(layout)
	indent := strings.Repeat(" ", axisLabelWidth+utf8.RuneCountInString(axisSeparator))
	gap := width - len(left) - len(right)
	if first.Equal(last) || gap < 1 {
		return indent + left
	}
	return indent + left + strings.Repeat(" ", gap) + right
}

func legend(hasTrend, color bool) string {
	parts := []string{cellText(dotBits[1][0], 0, color) + " streak"}
	if hasTrend {
		parts = append(parts, cellText(0, dotBits[1][0]|dotBits[1][1], color)+" trend")
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x1 - x0)))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -int(math.Abs(float64(y1 - y0)))
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}
