//go:build darwin

package wallpaper

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

type finder struct{ run runner }

// New returns the Setter for macOS.
func New() Setter {
	return &finder{run: execRun}
}

func (f *finder) Set(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(abs)
	script := fmt.Sprintf(`tell application "Finder" to set desktop picture to POSIX file "%s"`, quoted)
	if err := f.run(ctx, "osascript", "-e", script); err != nil {
		return fmt.Errorf("set wallpaper: %w", err)
	}
	return nil
}
