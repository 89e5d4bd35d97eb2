package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Colors are hex strings understood by lipgloss.
type Theme struct {
	Name string

	Background string // behind overlays
	Surface    string // header, command bar and footer
	Panel      string // log viewport

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string // selected card and focused boxes

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// StatusColors colors the header badge. Keys are state.Status.String()
	// values plus "error" and "offline".
	StatusColors map[string]string
}

// Styles contains the lipgloss styles derived from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style
	HelpKey  lipgloss.Style

	statusColors map[string]string
	badgeText    string
}

// Styles builds the style set for t.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	bar := func(color string) lipgloss.Style {
		return fg(color).Background(lipgloss.Color(t.Surface)).Padding(0, 1)
	}

	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header:   bar(t.Text),
		Footer:   bar(t.Muted),
		Logo:     fg(t.Warning).Bold(true),
		Selected: fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),
		HelpKey:  fg(t.Warning).Width(12),

		statusColors: t.StatusColors,
		badgeText:    t.Background,
	}
}

// StatusStyle returns the badge style for a load status label.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	color, ok := s.statusColors[status]
	if !ok {
		color = s.statusColors["idle"]
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.badgeText)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground returns a copy whose text styles all paint bgColor, so
// segments joined on a bar never show the terminal background between them.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Footer, &out.Logo,
	} {
		*st = st.Background(bg)
	}
	return out
}

var themes = map[string]Theme{
	"Dracula": draculaTheme(),
	"Slate":   slateTheme(),
	"Nord":    nordTheme(),
}

var themeOrder = []string{"Dracula", "Slate", "Nord"}

// GetTheme returns a theme by name, falling back to Dracula.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["Dracula"]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	return themeOrder
}

// https://draculatheme.com/spec
func draculaTheme() Theme {
	return Theme{
		Name:       "Dracula",
		Background: "#191A21",
		Surface:    "#282A36",
		Panel:      "#21222C",

		SelectionBg:   "#44475A",
		SelectionText: "#F8F8F2",

		Border:      "#44475A",
		BorderFocus: "#BD93F9", // purple

		Text:    "#F8F8F2",
		Muted:   "#6272A4", // comment
		Faint:   "#44475A",
		Accent:  "#BD93F9",
		Success: "#50FA7B",
		Warning: "#FFB86C",
		Danger:  "#FF5555",
		Info:    "#8BE9FD",

		StatusColors: map[string]string{
			"idle":         "#6272A4",
			"loading":      "#8BE9FD",
			"loading more": "#BD93F9",
			"end reached":  "#50FA7B",
			"error":        "#FF5555",
			"offline":      "#FFB86C",
		},
	}
}

// Tailwind slate with sky accents.
func slateTheme() Theme {
	return Theme{
		Name:       "Slate",
		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		Panel:      "#1e293b", // slate-800

		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc",

		Border:      "#334155", // slate-700
		BorderFocus: "#38bdf8", // sky-400

		Text:    "#f1f5f9",
		Muted:   "#94a3b8",
		Faint:   "#64748b",
		Accent:  "#38bdf8",
		Success: "#22c55e",
		Warning: "#f59e0b",
		Danger:  "#ef4444",
		Info:    "#06b6d4",

		StatusColors: map[string]string{
			"idle":         "#64748b",
			"loading":      "#38bdf8",
			"loading more": "#8b5cf6",
			"end reached":  "#22c55e",
			"error":        "#dc2626",
			"offline":      "#ea580c",
		},
	}
}

// https://www.nordtheme.com/docs/colors-and-palettes
func nordTheme() Theme {
	return Theme{
		Name:       "Nord",
		Background: "#242933",
		Surface:    "#2E3440", // nord0
		Panel:      "#3B4252", // nord1

		SelectionBg:   "#434C5E", // nord2
		SelectionText: "#ECEFF4",

		Border:      "#4C566A", // nord3
		BorderFocus: "#88C0D0", // nord8

		Text:    "#ECEFF4",
		Muted:   "#D8DEE9",
		Faint:   "#4C566A",
		Accent:  "#88C0D0",
		Success: "#A3BE8C",
		Warning: "#EBCB8B",
		Danger:  "#BF616A",
		Info:    "#81A1C1",

		StatusColors: map[string]string{
			"idle":         "#4C566A",
			"loading":      "#81A1C1",
			"loading more": "#B48EAD",
			"end reached":  "#A3BE8C",
			"error":        "#BF616A",
			"offline":      "#D08770",
		},
	}
}
