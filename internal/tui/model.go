// Package tui provides the Bubble Tea live streak view.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/keyjam/internal/model"
	"github.com/verte-zerg/keyjam/internal/stats"
	"github.com/verte-zerg/keyjam/internal/store"
)

// Controller is the tracking lifecycle driven by the view.
type Controller interface {
	IsEnabled() bool
	SetEnabled(enabled bool) bool
	Context() model.StreakContext
}

// Source supplies counters and recorded streaks.
type Source interface {
	Counters() store.Counters
	RecentEvents(days int) []model.StreakEvent
}

type outEventMsg model.OutEvent

type eventsClosedMsg struct{}

type tickMsg time.Time

const refreshInterval = time.Second

// Model implements the Bubble Tea live view.
type Model struct {
	ctrl   Controller
	source Source
	events <-chan model.OutEvent
	now    func() time.Time

	keys keyMap
	help help.Model

	width  int
	height int

	counters    store.Counters
	today       stats.Summary
	enabled     bool
	lastBreak   int
	lastBreakAt time.Time
	errMsg      string
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	activeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	pausedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	cardStyle      = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs the live view. events is an output subscription of the
// coordinator; the view stops listening when it is closed.
func NewModel(ctrl Controller, source Source, events <-chan model.OutEvent) *Model {
	m := &Model{
		ctrl:   ctrl,
		source: source,
		events: events,
		now:    time.Now,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tick())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			m.toggle()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		return m, nil
	case outEventMsg:
		m.handleOutEvent(model.OutEvent(msg))
		return m, waitForEvent(m.events)
	case eventsClosedMsg:
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tick()
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderCards(),
		"",
		m.renderFooter(),
	)
	if m.errMsg != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, errorStyle.Render(m.errMsg))
	}
	content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.help.View(m.keys))
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) toggle() {
	want := !m.ctrl.IsEnabled()
	m.enabled = m.ctrl.SetEnabled(want)
	if want && !m.enabled {
		m.errMsg = "Failed to start tracking. Grant Accessibility permission and press p to retry."
		return
	}
	m.errMsg = ""
}

func (m *Model) handleOutEvent(ev model.OutEvent) {
	if ev.Kind == model.MouseBrokeStreak {
		m.lastBreak = ev.Count
		m.lastBreakAt = m.now()
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.counters = m.source.Counters()
	m.today = stats.Summarize(m.source.RecentEvents(1))
	m.enabled = m.ctrl.IsEnabled()
}

func (m *Model) renderHeader() string {
	status := pausedStyle.Render("Paused")
	if m.enabled {
		status = activeStyle.Render("Tracking")
	}
	return titleStyle.Render("keyjam") + "  " + status
}

func (m *Model) renderCards() string {
	last := "-"
	if !m.lastBreakAt.IsZero() {
		last = fmt.Sprintf("%d (%s)", m.lastBreak, humanize.RelTime(m.lastBreakAt, m.now(), "ago", "from now"))
	}
	cards := []string{
		metricCard("Streak", fmt.Sprintf("%d", m.counters.CurrentStreak)),
		metricCard("Mouse breaks", fmt.Sprintf("%d", m.counters.MouseBreakCount)),
		metricCard("Last break", last),
	}
	if m.width > 0 && m.width < 60 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m *Model) renderFooter() string {
	segments := []string{"Today " + m.today.String()}
	if m.today.Count > 0 {
		segments = append(segments, fmt.Sprintf("Best %d", m.today.Best))
	}
	segments = append(segments, "Apps "+m.ctrl.Context().String())
	return footerStyle.Render(strings.Join(segments, "  ·  "))
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func waitForEvent(events <-chan model.OutEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return outEventMsg(ev)
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
