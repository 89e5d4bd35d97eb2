//go:build windows

package wallpaper

import (
	"context"
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	spiSetDeskWallpaper = 0x0014
	spifUpdateIniFile   = 0x01
	spifSendChange      = 0x02
)

var procSystemParametersInfo = windows.NewLazySystemDLL("user32.dll").NewProc("SystemParametersInfoW")

type win32 struct{}

// New returns the Setter for Windows.
func New() Setter {
	return win32{}
}

func (win32) Set(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	p, err := windows.UTF16PtrFromString(abs)
	if err != nil {
		return fmt.Errorf("encode path: %w", err)
	}
	if err := procSystemParametersInfo.Find(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	ret, _, callErr := procSystemParametersInfo.Call(
		uintptr(spiSetDeskWallpaper),
		0,
		uintptr(unsafe.Pointer(p)),
		uintptr(spifUpdateIniFile|spifSendChange),
	)
	if ret == 0 {
		return fmt.Errorf("set wallpaper: SystemParametersInfoW: %w", callErr)
	}
	return nil
}
