package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string // empty means no file is written
		want    Prefs
	}{
		{name: "missing file", want: Default()},
		{name: "theme only", content: "theme = \"Slate\"\n", want: Prefs{Theme: "Slate", Columns: defaultColumns}},
		{name: "theme and columns", content: "theme = \"Slate\"\ncolumns = 5\n", want: Prefs{Theme: "Slate", Columns: 5}},
		{name: "blank theme", content: "theme = \"  \"\n", want: Default()},
		{name: "columns clamped", content: "columns = 40\n", want: Prefs{Theme: defaultTheme, Columns: MaxColumns}},
		{name: "negative columns", content: "columns = -2\n", want: Prefs{Theme: defaultTheme, Columns: MinColumns}},
		{name: "malformed", content: "not valid toml {{{\n", want: Default()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatalf("WriteFile: %v", err)
				}
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Load = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLoad_DefaultLocationUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "posters")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte("columns = 2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Columns != 2 {
		t.Fatalf("Columns = %d, want 2", p.Columns)
	}
}

func TestLoad_UnreadablePathUsesDefaults(t *testing.T) {
	// A directory where the file should be cannot be read as preferences.
	dir := t.TempDir()

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Default() {
		t.Fatalf("Load = %#v, want defaults", p)
	}
}

func TestSave_RoundTripsAndCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "prefs.toml")

	want := Prefs{Theme: "Slate", Columns: 4}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got != want {
		t.Fatalf("loaded = %#v, want %#v", got, want)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("directory holds %d entries, want only prefs.toml", len(entries))
	}
}

func TestSave_NormalizesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")

	if err := Save(path, Prefs{Theme: "", Columns: 99}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, _ := Load(path)
	if got.Theme != defaultTheme || got.Columns != MaxColumns {
		t.Fatalf("loaded = %#v, want theme %q and %d columns", got, defaultTheme, MaxColumns)
	}
}

func TestClampColumns(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, defaultColumns},
		{-3, MinColumns},
		{1, 1},
		{4, 4},
		{99, MaxColumns},
	}
	for _, tt := range tests {
		if got := ClampColumns(tt.in); got != tt.want {
			t.Errorf("ClampColumns(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
