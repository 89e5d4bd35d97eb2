//go:build linux || freebsd || openbsd || netbsd

package wallpaper

import "os"

// New returns the Setter for the current desktop session.
func New() Setter {
	return &freedesktop{getenv: os.Getenv, run: execRun}
}
