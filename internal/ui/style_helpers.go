package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders segments that share one background color. lipgloss resets
// the background between separately styled strings, so every space and
// separator is rendered with the background too.
type BgStyle struct {
	bg    lipgloss.Color
	fill  lipgloss.Style
	space string
}

// NewBgStyle creates a helper for the given background color.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	fill := lipgloss.NewStyle().Background(bg)
	return BgStyle{bg: bg, fill: fill, space: fill.Render(" ")}
}

// Render applies style to text and keeps the background under its spaces.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	styled := style.Background(b.bg)
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = styled.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

// Space returns a single styled space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n styled spaces.
func (b BgStyle) Spaces(n int) string {
	return b.fill.Render(strings.Repeat(" ", n))
}

// Sep returns sep on the background.
func (b BgStyle) Sep(sep string) string {
	return b.fill.Render(sep)
}

// Join joins parts with a styled separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

// FillLine pads rendered content to width with the background color.
func (b BgStyle) FillLine(content string, width int) string {
	return b.fill.Width(width).Render(content)
}

// hint is one "key:action" entry of a command bar.
type hint struct {
	key, desc string
}

// Hints renders hints as "key:desc" pairs separated by two spaces.
func (b BgStyle) Hints(hints []hint, styles Styles) string {
	colon := b.Sep(":")
	segments := make([]string, 0, len(hints))
	for _, h := range hints {
		segments = append(segments, b.Render(h.key, styles.AccentText)+colon+b.Render(h.desc, styles.MutedText))
	}
	return strings.Join(segments, b.Spaces(2))
}
