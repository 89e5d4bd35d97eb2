// Package wallpaper applies an image file as the desktop background.
package wallpaper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrUnsupported is returned when the desktop environment cannot be driven.
var ErrUnsupported = errors.New("setting the wallpaper is not supported on this desktop")

// Setter sets the desktop wallpaper.
type Setter interface {
	Set(ctx context.Context, path string) error
}

// runner executes an external command.
type runner func(ctx context.Context, name string, args ...string) error

func execRun(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

type unsupported struct{ reason string }

func (u unsupported) Set(context.Context, string) error {
	if u.reason == "" {
		return ErrUnsupported
	}
	return fmt.Errorf("%w: %s", ErrUnsupported, u.reason)
}
