package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var blankCell = string(rune(0x2800))

func renderLines(t *testing.T, c Chart) []string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestChartPlacesStreaksOnTimeAxis(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lines := renderLines(t, Chart{
		Events: eventsAt(base, 4*24*time.Hour, 4, 41),
		Width:  12,
		Height: 4,
	})

	require.Len(t, lines, 4+2)
	assert.Equal(t, "  46 │ "+strings.Repeat(blankCell, 11)+"⠠", lines[0], "top label is best streak plus headroom")
	assert.True(t, strings.HasPrefix(lines[2], "  23 │ "), lines[2])
	assert.Equal(t, "   0 │ ⠄"+strings.Repeat(blankCell, 11), lines[3], "axis starts at zero")

	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[4]), base.Local().Format("Jan 2")), lines[4])
	assert.True(t, strings.HasSuffix(lines[4], base.Add(4*24*time.Hour).Local().Format("Jan 2")), lines[4])
	assert.Equal(t, "Legend: ⠂ streak", lines[5])
}

func TestChartDrawsTrend(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	events := eventsAt(base, 24*time.Hour, 4, 12, 30, 9, 41)
	tr, ok := FitTrend(events)
	require.True(t, ok)

	withTrend := renderLines(t, Chart{Events: events, Trend: tr, HasTrend: true, Width: 20, Height: 5})
	without := renderLines(t, Chart{Events: events, Width: 20, Height: 5})

	assert.Contains(t, withTrend[len(withTrend)-1], "trend")
	assert.NotContains(t, without[len(without)-1], "trend")
	assert.Greater(t, countDots(withTrend[:5]), countDots(without[:5]))
}

func TestChartSingleEvent(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	lines := renderLines(t, Chart{Events: eventsAt(at, 0, 7), Width: 10, Height: 4})
	require.Len(t, lines, 6)
	assert.Equal(t, 1, countDots(lines[:4]))
	assert.Equal(t, at.Local().Format("15:04"), strings.TrimSpace(lines[4]))
}

func TestChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Chart{Width: 10, Height: 4}.Render(&buf))
	assert.Empty(t, buf.String())
}

func TestPlotWidthFor(t *testing.T) {
	axisWidth := axisLabelWidth + utf8.RuneCountInString(axisSeparator)
	assert.Equal(t, 80-axisWidth, PlotWidthFor(80))
	assert.Equal(t, minPlotWidth, PlotWidthFor(0))
	assert.Equal(t, minPlotWidth, PlotWidthFor(5))
}

// countDots counts non-blank braille cells in plot rows.
func countDots(rows []string) int {
	n := 0
	for _, row := range rows {
		_, cells, _ := strings.Cut(row, axisSeparator)
		for _, r := range cells {
			if r > 0x2800 && r <= 0x28FF {
				n++
			}
		}
	}
	return n
}
