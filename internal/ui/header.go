package ui

import (
	"fmt"
	"strings"
	"time"
)

// renderHeader renders the status bar with load state and counts.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	snap := m.snapshot

	parts := []string{bg.Render("posters", styles.Logo)}

	// Load status badge
	parts = append(parts, styles.StatusStyle(m.statusLabel()).Render(strings.ToUpper(m.statusLabel())))

	countLabel := "Wallpapers:"
	if compact {
		countLabel = "N:"
	}
	parts = append(parts,
		bg.Render(countLabel, styles.MutedText)+bg.Space()+
			bg.Render(formatCount(len(snap.Items)), styles.Text),
	)
	parts = append(parts,
		bg.Render("Pages:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", snap.Cursor), styles.Text),
	)

	if ts := formatTimestamp(snap.LastUpdated); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if snap.IsOffline() {
		parts = append(parts,
			bg.Render("OFFLINE", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(fmt.Sprintf("%d failed loads", snap.ConsecutiveFailures), styles.WarningText))
	}

	if snap.Err != nil && !compact {
		errText := truncate(snap.Err.Error(), 60)
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(errText, styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// statusLabel returns the theme status key for the current load state.
func (m Model) statusLabel() string {
	switch {
	case m.snapshot.IsOffline():
		return "offline"
	case m.snapshot.Err != nil && !m.snapshot.Loading():
		return "error"
	default:
		return m.snapshot.Status.String()
	}
}

// formatTimestamp formats the last update time with relative indicator.
func formatTimestamp(at time.Time) string {
	if at.IsZero() {
		return ""
	}

	timeSince := time.Since(at)
	timeStr := at.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < 24*time.Hour {
		timeStr += " (" + humanizeDuration(timeSince) + " ago)"
	}

	return timeStr
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var hints []hint
	switch m.currentView {
	case ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		hints = []hint{
			{"f", followLabel},
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"L", "Grid"},
		}
	default:
		hints = []hint{
			{"hjkl", "Navigate"},
			{"enter", "Open"},
			{"d", "Save"},
			{"a", "Apply"},
			{"s", "Share"},
			{"r", "Retry"},
			{"L", "Logs"},
		}
	}
	hints = append(hints, hint{"?", "More"})

	bar := bg.Hints(hints, styles) + bg.Spaces(2) +
		bg.Render("T", styles.AccentText) + bg.Sep(":") + bg.Render(m.theme.Name, styles.FaintText)
	return styles.Header.Width(m.width).Render(bar)
}
