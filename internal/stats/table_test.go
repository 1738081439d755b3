package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keyjam/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"App", "Streak", "Breaks"}
	rows := [][]string{
		{"Xcode", "42", "12"},
		{"ターミナル", "8", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	require.Len(t, lines, 3)
	assert.Equal(t, "App        Streak Breaks", lines[0])
	assert.Equal(t, "Xcode          42     12", lines[1])
	assert.Equal(t, "ターミナル      8      3", lines[2], "wide runes count as two columns")
}

func TestRenderHistoryNewestFirst(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []model.StreakEvent{
		{ID: "a", Timestamp: now.Add(-48 * time.Hour), StreakCount: 7},
		{ID: "b", Timestamp: now.Add(-2 * time.Hour), StreakCount: 31},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderHistory(&buf, events, now))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "When"))
	assert.Contains(t, lines[1], "2 hours ago")
	assert.True(t, strings.HasSuffix(lines[1], "31"))
	assert.Contains(t, lines[2], "2 days ago")
	assert.True(t, strings.HasSuffix(lines[2], " 7"))
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHistory(&buf, nil, time.Now()))
	assert.Equal(t, "No streaks recorded.\n", buf.String())
}
