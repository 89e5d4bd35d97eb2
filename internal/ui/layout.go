package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// minCellWidth is the narrowest grid card before columns are dropped.
	minCellWidth = 24

	// cellHeight is the number of lines one grid card occupies, borders included.
	cellHeight = 4

	// chromeHeight covers the header, command bar and footer lines.
	chromeHeight = 3
)

// Paging.
const (
	// prefetchRows is how close to the last loaded row the visible window may
	// get before the next page is requested.
	prefetchRows = 2
)

// Log display limits.
const (
	// LogTailLines is the number of log lines read per refresh.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is the housekeeping tick for status expiry and log follow.
	DefaultUIInterval = time.Second

	// statusTTL is how long an action result stays in the footer.
	statusTTL = 6 * time.Second
)

// renderBox draws content inside a rounded border with a title in the top edge.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	border := m.theme.Border
	if focused {
		border = m.theme.BorderFocus
	}
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(border))
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent)).Bold(true)

	inner := maxInt(width-2, 0)
	label := ""
	if title != "" {
		label = " " + truncate(title, maxInt(inner-4, 1)) + " "
	}
	fill := maxInt(inner-1-lipgloss.Width(label), 0)
	top := borderStyle.Render("╭─") + titleStyle.Render(label) + borderStyle.Render(strings.Repeat("─", fill)+"╮")

	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, true, true, true).
		BorderForeground(lipgloss.Color(border)).
		Width(inner).
		Height(maxInt(height-2, 0)).
		Render(content)

	return top + "\n" + body
}
