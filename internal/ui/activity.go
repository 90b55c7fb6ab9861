package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stockroom/internal/logtail"
)

type activityMsg struct {
	lines []string
	err   error
}

// refreshActivity reads the tail of the application log.
func (m *Model) refreshActivity() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, ActivityLineLimit)
		if err != nil {
			return activityMsg{err: err}
		}
		return activityMsg{lines: logtail.FormatLines(lines)}
	}
}

func (m *Model) resizeActivity() {
	w, h := max(m.width-4, 10), max(m.height-4, 3)
	if m.activity.Width == 0 {
		m.activity = viewport.New(w, h)
	}
	m.activity.Width = w
	m.activity.Height = h
	m.activity.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
}

func (m *Model) handleActivity(msg activityMsg) {
	m.resizeActivity()
	if msg.err != nil {
		m.activity.SetContent("Unable to read " + m.logPath + ": " + msg.err.Error())
		return
	}
	if len(msg.lines) == 0 {
		m.activity.SetContent("No activity yet")
		return
	}
	m.activity.SetContent(strings.Join(msg.lines, "\n"))
	m.activity.GotoBottom()
}

func (m Model) handleActivityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Activity):
		m.screen = screenProducts
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshActivity()
	}
	var cmd tea.Cmd
	m.activity, cmd = m.activity.Update(msg)
	return m, cmd
}

func (m Model) renderActivity() string {
	title := "Activity · " + truncateMiddle(m.logPath, max(m.width-20, 10))
	return m.renderTitledBox(title, m.activity.View(), m.width, m.height-2, true)
}
