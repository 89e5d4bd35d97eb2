// Package prefs persists the browser's look: theme and grid width.
// Preferences live in ~/.config/posters/prefs.toml and are rewritten whenever
// the user changes them from the UI.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/posters/internal/logging"
)

// Prefs holds user preferences for the browser.
type Prefs struct {
	Theme   string `toml:"theme"`
	Columns int    `toml:"columns"`
}

const (
	defaultPrefsPath = "~/.config/posters/prefs.toml"
	defaultTheme     = "Dracula"
	defaultColumns   = 3

	// MinColumns and MaxColumns bound the grid width.
	MinColumns = 1
	MaxColumns = 6
)

// Default returns the preferences used when nothing is saved.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, Columns: defaultColumns}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path (or the default location). A missing or
// broken file yields defaults and a nil error.
func Load(path string) (Prefs, error) {
	log := logging.NewLogger("prefs")

	resolved, err := resolvePath(path)
	if err != nil {
		log.Warn().Err(err).Msg("cannot resolve preferences path, using defaults")
		return Default(), nil
	}

	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return Default(), nil
	case err != nil:
		log.Warn().Err(err).Str("path", resolved).Msg("cannot read preferences, using defaults")
		return Default(), nil
	}

	p := Default()
	if err := toml.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("path", resolved).Msg("ignoring malformed preferences")
		return Default(), nil
	}
	return p.normalized(), nil
}

// Save writes p to path, creating parent directories. The file is replaced
// atomically.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	data, err := toml.Marshal(p.normalized())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// ClampColumns bounds n to the supported grid widths; zero means the default.
func ClampColumns(n int) int {
	switch {
	case n == 0:
		return defaultColumns
	case n < MinColumns:
		return MinColumns
	case n > MaxColumns:
		return MaxColumns
	default:
		return n
	}
}

func (p Prefs) normalized() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	p.Columns = ClampColumns(p.Columns)
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return logging.ExpandPath(path)
}
