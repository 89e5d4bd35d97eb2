package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/posters/internal/deeplink"
	"github.com/five82/posters/internal/posters"
)

func (m *Model) openDetail(wp posters.Wallpaper) {
	m.detail = &wp
	m.showShare = false
}

func (m *Model) closeDetail() {
	m.detail = nil
	m.showShare = false
}

// handleDetailKey processes keyboard input while the detail overlay is open.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Open):
		m.closeDetail()
	case key.Matches(msg, m.keys.Save):
		return m.startAction(actionSave)
	case key.Matches(msg, m.keys.Apply):
		return m.startAction(actionApply)
	case key.Matches(msg, m.keys.Share):
		m.showShare = !m.showShare
	}
	return m, nil
}

// startAction runs save or apply for the wallpaper in focus: the open
// overlay if any, otherwise the grid selection.
func (m Model) startAction(kind actionKind) (tea.Model, tea.Cmd) {
	if m.actions == nil {
		return m, nil
	}
	if m.busy != "" {
		m.setStatus("Busy: "+m.busy, true)
		return m, nil
	}

	var wp posters.Wallpaper
	if m.detail != nil {
		wp = *m.detail
	} else {
		selected, ok := m.selectedWallpaper()
		if !ok {
			return m, nil
		}
		wp = selected
	}

	name := displayTitle(wp.DisplayName())
	switch kind {
	case actionApply:
		m.busy = "Applying " + name
	default:
		m.busy = "Saving " + name
	}
	return m, m.actionCmd(kind, wp)
}

func (m *Model) handleActionResult(msg actionResultMsg) {
	m.busy = ""
	name := displayTitle(msg.wp.DisplayName())

	if msg.err != nil {
		verb := "save"
		if msg.kind == actionApply {
			verb = "apply"
		}
		m.log.Error().Err(msg.err).Str("id", msg.wp.ID).Msgf("failed to %s wallpaper", verb)
		m.setStatus(fmt.Sprintf("Could not %s %s: %v", verb, name, msg.err), true)
		return
	}

	switch msg.kind {
	case actionApply:
		m.setStatus("Wallpaper set: "+name, false)
	default:
		text := "Saved to " + truncateMiddle(msg.path, 60)
		if msg.size > 0 {
			text += " (" + formatBytes(msg.size) + ")"
		}
		m.setStatus(text, false)
	}
}

// renderDetail renders the wallpaper overlay.
func (m Model) renderDetail() string {
	wp := *m.detail
	styles := m.theme.Styles()
	width := minInt(maxInt(m.width-8, 40), 90)
	inner := width - 6

	row := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return styles.MutedText.Render(padRight(label, 9)) +
			styles.Text.Render(truncateMiddle(value, maxInt(inner-9, 8)))
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(truncate(displayTitle(wp.DisplayName()), inner)))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", minInt(inner, 30))))
	b.WriteString("\n\n")
	b.WriteString(row("ID", wp.ID) + "\n")
	b.WriteString(row("Preview", wp.PreviewURL) + "\n")
	b.WriteString(row("Full", wp.FullURL) + "\n")

	if m.showShare {
		b.WriteString("\n")
		if m.actions != nil {
			if link, err := m.actions.ShareURL(wp.ID); err != nil {
				b.WriteString(styles.DangerText.Render("share link: "+err.Error()) + "\n")
			} else {
				b.WriteString(row("Share", link) + "\n")
			}
		}
		b.WriteString(row("App link", deeplink.AppLink(wp.ID)) + "\n")
	}

	b.WriteString("\n")
	if m.busy != "" {
		b.WriteString(styles.WarningText.Render(m.spinner.View()+" "+m.busy) + "\n")
	} else if m.status.text != "" {
		style := styles.SuccessText
		if m.status.isErr {
			style = styles.DangerText
		}
		b.WriteString(style.Render(truncate(m.status.text, inner)) + "\n")
	}

	hints := []hint{{"d", "Save"}, {"a", "Apply"}, {"s", "Share"}, {"esc", "Close"}}
	segments := make([]string, 0, len(hints))
	for _, h := range hints {
		segments = append(segments, styles.AccentText.Render(h.key)+styles.MutedText.Render(":"+h.desc))
	}
	b.WriteString(strings.Join(segments, "  "))

	return m.placeModal(b.String(), width)
}
