package ui

import "testing"

func TestNextTheme_CyclesInOrder(t *testing.T) {
	names := ThemeNames()
	if len(names) < 2 || names[0] != "Dracula" {
		t.Fatalf("ThemeNames() = %v, want Dracula first and at least two themes", names)
	}

	for i, name := range names {
		want := names[(i+1)%len(names)]
		if got := NextTheme(name); got != want {
			t.Errorf("NextTheme(%q) = %q, want %q", name, got, want)
		}
	}
	if got := NextTheme("Unknown"); got != "Dracula" {
		t.Fatalf("NextTheme(Unknown) = %q, want Dracula", got)
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Errorf("GetTheme(%q).Name = %q", name, got)
		}
	}
	if got := GetTheme("Unknown").Name; got != "Dracula" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Dracula (fallback)", got)
	}
}

func TestThemesDefineEveryColor(t *testing.T) {
	statuses := []string{"idle", "loading", "loading more", "end reached", "error", "offline"}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		colors := map[string]string{
			"Background": th.Background, "Surface": th.Surface, "Panel": th.Panel,
			"SelectionBg": th.SelectionBg, "SelectionText": th.SelectionText,
			"Border": th.Border, "BorderFocus": th.BorderFocus,
			"Text": th.Text, "Muted": th.Muted, "Faint": th.Faint, "Accent": th.Accent,
			"Success": th.Success, "Warning": th.Warning, "Danger": th.Danger, "Info": th.Info,
		}
		for field, v := range colors {
			if v == "" {
				t.Errorf("theme %s: %s is empty", name, field)
			}
		}
		for _, k := range statuses {
			if th.StatusColors[k] == "" {
				t.Errorf("theme %s has no color for status %q", name, k)
			}
		}
	}
}
