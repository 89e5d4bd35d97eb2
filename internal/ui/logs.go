package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/posters/internal/logtail"
)

// Log refresh constants
const (
	logRefreshInterval = 2 * time.Second
)

// logState holds all log-related state.
type logState struct {
	lines       []string
	err         error
	follow      bool
	lastRefresh time.Time
}

type logLinesMsg struct {
	lines []string
	err   error
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(maxInt(m.width-4, 1), maxInt(m.height-5, 1))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport updates the log viewport with current content.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	if m.logViewport.Width == 0 {
		m.initLogViewport()
	}

	// Box height = m.height - 3 (header, cmdbar, status bar below)
	// Box inner = box height - 2 (top and bottom borders) = m.height - 5
	m.logViewport.Width = maxInt(m.width-4, 1)
	m.logViewport.Height = maxInt(m.height-5, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Panel))

	m.logViewport.SetContent(m.renderLogContent())

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	bg := NewBgStyle(m.theme.Panel)
	styles := m.theme.Styles()
	contentHeight := m.height - 3 // header + cmdbar + status bar below

	box := m.renderBox("Application Log", m.logViewport.View(), m.width, contentHeight, true)
	return box + "\n" + m.renderLogStatus(styles, bg)
}

// renderLogStatus renders the log status bar.
func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	if m.logState.err != nil {
		return bg.Render("Log unavailable: "+m.logState.err.Error(), styles.DangerText)
	}

	autoTail := "off"
	if m.logState.follow {
		autoTail = "on"
	}
	status := fmt.Sprintf("%s lines auto-tail %s", formatCount(len(m.logState.lines)), autoTail)

	parts := []string{bg.Render(status, styles.FaintText)}
	if m.logPath != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.logPath, 50), styles.AccentText))
	}

	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return strings.Join(parts, sep)
}

// renderLogContent renders the colorized log lines.
func (m Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.Panel)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if m.logPath == "" {
		return bg.FillLine(bg.Render("Logging to file is disabled", styles.MutedText), width)
	}
	if len(m.logState.lines) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	var b strings.Builder
	for i, line := range m.logState.lines {
		lineContent := bg.Render(fmt.Sprintf("%4d │ ", i+1), styles.FaintText) +
			m.colorizeLine(line, styles, bg)
		b.WriteString(bg.FillLine(lineContent, width))
		if i < len(m.logState.lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// colorizeLine renders one JSON log line as "time LVL [component] message k=v".
func (m Model) colorizeLine(line string, styles Styles, bg BgStyle) string {
	entry, ok := logtail.Parse(line)
	if !ok {
		return bg.Render(line, styles.Text)
	}

	var parts []string
	if !entry.Time.IsZero() {
		parts = append(parts, bg.Render(entry.Time.Local().Format("15:04:05"), styles.MutedText))
	}
	if tag := entry.LevelTag(); tag != "" {
		parts = append(parts, bg.Render(tag, m.levelStyle(entry.Level, styles)))
	}
	if entry.Component != "" {
		parts = append(parts, bg.Render("["+entry.Component+"]", styles.AccentText))
	}
	if entry.Message != "" {
		parts = append(parts, bg.Render(entry.Message, styles.Text))
	}
	for _, f := range entry.Fields {
		parts = append(parts, bg.Render(f.Key+"=", styles.FaintText)+bg.Render(f.Value, styles.MutedText))
	}
	return bg.Join(parts, " ")
}

// levelStyle returns the style for a log level.
func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "info":
		return styles.SuccessText
	case "warn":
		return styles.WarningText
	case "error", "fatal", "panic":
		return styles.DangerText
	case "debug", "trace":
		return styles.InfoText
	default:
		return styles.Text
	}
}

// handleLogsKey processes keyboard input for logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, m.refreshLogsCmd()
		}
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewGrid
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true
	case key.Matches(msg, m.keys.Down):
		m.logViewport.LineDown(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.Up):
		m.logViewport.LineUp(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.ViewDown()
		m.logState.follow = false
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.ViewUp()
		m.logState.follow = false
	}
	return m, nil
}

// refreshLogsCmd reads the tail of the log file, throttled to
// logRefreshInterval.
func (m *Model) refreshLogsCmd() tea.Cmd {
	if m.logPath == "" {
		return nil
	}
	if time.Since(m.logState.lastRefresh) < logRefreshInterval {
		return nil
	}
	m.logState.lastRefresh = time.Now()

	path := m.logPath
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.lines = msg.lines
	}
	m.updateLogViewport()
}
