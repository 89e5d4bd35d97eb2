package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// helpTitles names the groups returned by keyMap.FullHelp, in order.
var helpTitles = []string{"Navigation", "Wallpaper", "Logs", "General"}

// renderHelp renders the shortcut overlay from the key map.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))

	for i, group := range m.keys.FullHelp() {
		title := "More"
		if i < len(helpTitles) {
			title = helpTitles[i]
		}
		b.WriteString("\n\n")
		b.WriteString(styles.AccentText.Bold(true).Render(title))
		for _, binding := range group {
			h := binding.Help()
			b.WriteString("\n")
			b.WriteString(styles.HelpKey.Render(h.Key) + styles.Text.Render(h.Desc))
		}
	}

	return m.placeModal(b.String(), 40)
}

// placeModal centers content in a bordered box over the whole screen.
func (m Model) placeModal(content string, width int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(width).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
