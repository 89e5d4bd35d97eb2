//go:build !linux && !freebsd && !openbsd && !netbsd && !darwin && !windows

package wallpaper

import "runtime"

// New returns a Setter that always fails with ErrUnsupported.
func New() Setter {
	return unsupported{reason: runtime.GOOS}
}
