package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/posters/internal/posters"
	"github.com/five82/posters/internal/state"
)

// gridColumns returns the column count that fits the terminal, never more
// than the preferred count.
func (m Model) gridColumns() int {
	fit := m.width / minCellWidth
	return maxInt(minInt(m.columns, fit), 1)
}

// visibleRows returns how many grid rows fit between header and footer.
func (m Model) visibleRows() int {
	return maxInt((m.height-chromeHeight)/cellHeight, 1)
}

func (m Model) totalRows() int {
	cols := m.gridColumns()
	return (len(m.snapshot.Items) + cols - 1) / cols
}

// ensureVisible scrolls the grid so the selected row is on screen.
func (m *Model) ensureVisible() {
	row := m.selected / m.gridColumns()
	visible := m.visibleRows()
	if row < m.scrollRow {
		m.scrollRow = row
	}
	if row >= m.scrollRow+visible {
		m.scrollRow = row - visible + 1
	}
	maxScroll := maxInt(m.totalRows()-visible, 0)
	if m.scrollRow > maxScroll {
		m.scrollRow = maxScroll
	}
}

// shouldPrefetch reports whether the grid is close enough to the end of the
// loaded items to request the next page. Failures wait for an explicit retry.
func (m Model) shouldPrefetch() bool {
	snap := m.snapshot
	if m.pager == nil || !m.ready || snap.Loading() || snap.EndReached() || snap.Err != nil {
		return false
	}
	lastRow := m.totalRows() - 1
	bottom := m.scrollRow + m.visibleRows() - 1
	probe := maxInt(m.selected/m.gridColumns(), bottom)
	return lastRow-probe <= prefetchRows
}

func (m Model) prefetchCmd() tea.Cmd {
	if !m.shouldPrefetch() {
		return nil
	}
	return m.loadPageCmd()
}

func (m Model) selectedWallpaper() (posters.Wallpaper, bool) {
	items := m.snapshot.Items
	if m.selected < 0 || m.selected >= len(items) {
		return posters.Wallpaper{}, false
	}
	return items[m.selected], true
}

// handleGridKey processes keyboard input for the grid view.
func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Retry) {
		if m.snapshot.Loading() || m.snapshot.EndReached() {
			return m, nil
		}
		if m.snapshot.Err != nil {
			m.setStatus("Retrying...", false)
		}
		return m, m.loadPageCmd()
	}

	count := len(m.snapshot.Items)
	if count == 0 {
		return m, nil
	}

	cols := m.gridColumns()
	page := cols * m.visibleRows()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected-cols >= 0 {
			m.selected -= cols
		}
	case key.Matches(msg, m.keys.Down):
		m.selected = minInt(m.selected+cols, count-1)
	case key.Matches(msg, m.keys.Left):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Right):
		if m.selected < count-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	case key.Matches(msg, m.keys.PageUp):
		m.selected = maxInt(m.selected-page, 0)
	case key.Matches(msg, m.keys.PageDown):
		m.selected = minInt(m.selected+page, count-1)
	case key.Matches(msg, m.keys.Open):
		if wp, ok := m.selectedWallpaper(); ok {
			m.openDetail(wp)
		}
		return m, nil
	case key.Matches(msg, m.keys.Save):
		return m.startAction(actionSave)
	case key.Matches(msg, m.keys.Apply):
		return m.startAction(actionApply)
	case key.Matches(msg, m.keys.Share):
		if wp, ok := m.selectedWallpaper(); ok {
			m.openDetail(wp)
			m.showShare = true
		}
		return m, nil
	default:
		return m, nil
	}

	m.ensureVisible()
	return m, m.prefetchCmd()
}

// renderGrid renders the visible window of wallpaper cards.
func (m Model) renderGrid() string {
	height := maxInt(m.height-chromeHeight, cellHeight)
	styles := m.theme.Styles()
	snap := m.snapshot

	if len(snap.Items) == 0 {
		var msg string
		switch {
		case snap.Loading() || (snap.Err == nil && !snap.EndReached()):
			msg = m.spinner.View() + " " + styles.Text.Render("Loading wallpapers...")
		case snap.Err != nil:
			msg = styles.DangerText.Render(snap.ErrorMessage()) + "\n\n" +
				styles.MutedText.Render("Press ") + styles.AccentText.Render("r") +
				styles.MutedText.Render(" to retry")
		default:
			msg = styles.MutedText.Render("No wallpapers found")
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
	}

	cols := m.gridColumns()
	cellWidth := m.width / cols
	visible := m.visibleRows()

	rows := make([]string, 0, visible)
	for r := m.scrollRow; r < m.scrollRow+visible && r < m.totalRows(); r++ {
		cells := make([]string, 0, cols)
		for c := 0; c < cols; c++ {
			idx := r*cols + c
			if idx >= len(snap.Items) {
				break
			}
			cells = append(cells, m.renderCell(snap.Items[idx], cellWidth, idx == m.selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.NewStyle().Height(height).MaxHeight(height).Render(strings.Join(rows, "\n"))
}

// renderCell renders one wallpaper card.
func (m Model) renderCell(wp posters.Wallpaper, width int, selected bool) string {
	styles := m.theme.Styles()
	inner := maxInt(width-4, 1)

	border := m.theme.Border
	titleStyle := styles.Text.Bold(true)
	if selected {
		border = m.theme.BorderFocus
		titleStyle = styles.Selected.Bold(true)
	}

	title := titleStyle.Render(padRight(truncate(displayTitle(wp.DisplayName()), inner), inner))
	id := styles.FaintText.Render(truncate("#"+wp.ID, inner))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(maxInt(width-2, 1)).
		Render(title + "\n" + id)
}

// renderFooter renders the single status line under the grid.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot
	sep := bg.Spaces(2)

	var parts []string
	if n := len(snap.Items); n > 0 {
		parts = append(parts, bg.Render(formatCount(m.selected+1)+"/"+formatCount(n), styles.MutedText))
	}

	switch {
	case snap.Status == state.StatusLoadingMore:
		parts = append(parts, bg.Render(m.spinner.View()+" Loading more...", styles.InfoText))
	case snap.Err != nil && len(snap.Items) > 0:
		parts = append(parts,
			bg.Render(truncate(snap.ErrorMessage(), maxInt(m.width/2, 20)), styles.DangerText)+sep+
				bg.Render("r", styles.AccentText)+bg.Render(" retry", styles.MutedText))
	case snap.EndReached() && len(snap.Items) > 0:
		parts = append(parts, bg.Render("end of collection", styles.FaintText))
	}

	if m.busy != "" {
		parts = append(parts, bg.Render(m.spinner.View()+" "+m.busy, styles.WarningText))
	}
	if m.status.text != "" {
		style := styles.SuccessText
		if m.status.isErr {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(truncate(m.status.text, maxInt(m.width/2, 20)), style))
	}

	return styles.Footer.Width(m.width).Render(strings.Join(parts, sep))
}
