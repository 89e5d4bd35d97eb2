package wallpaper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

type fakeRunner struct {
	calls []call
	fail  map[string]error // keyed by "name firstArg..."
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, call{name: name, args: args})
	key := name + " " + strings.Join(args, " ")
	for prefix, err := range f.fail {
		if strings.HasPrefix(key, prefix) {
			return err
		}
	}
	return nil
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFreedesktop_GNOMESetsLightAndDark(t *testing.T) {
	r := &fakeRunner{}
	s := &freedesktop{getenv: envMap(map[string]string{"XDG_CURRENT_DESKTOP": "ubuntu:GNOME"}), run: r.run}

	require.NoError(t, s.Set(context.Background(), "/tmp/walls/a b.jpg"))
	require.Len(t, r.calls, 3)
	assert.Equal(t, "gsettings", r.calls[0].name)
	assert.Equal(t, []string{"set", "org.gnome.desktop.background", "picture-uri", "file:///tmp/walls/a%20b.jpg"}, r.calls[0].args)
	assert.Equal(t, "picture-uri-dark", r.calls[1].args[2])
}

func TestFreedesktop_OptionalFailuresIgnored(t *testing.T) {
	r := &fakeRunner{fail: map[string]error{
		"gsettings set org.gnome.desktop.background picture-uri-dark": errors.New("no such key"),
	}}
	s := &freedesktop{getenv: envMap(map[string]string{"XDG_CURRENT_DESKTOP": "GNOME"}), run: r.run}
	assert.NoError(t, s.Set(context.Background(), "/tmp/a.jpg"))
}

func TestFreedesktop_RequiredFailureReturned(t *testing.T) {
	r := &fakeRunner{fail: map[string]error{"xfconf-query": errors.New("exit status 1")}}
	s := &freedesktop{getenv: envMap(map[string]string{"XDG_CURRENT_DESKTOP": "XFCE"}), run: r.run}

	err := s.Set(context.Background(), "/tmp/a.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestFreedesktop_FallsBackToDesktopSession(t *testing.T) {
	r := &fakeRunner{}
	s := &freedesktop{getenv: envMap(map[string]string{"DESKTOP_SESSION": "plasma"}), run: r.run}

	require.NoError(t, s.Set(context.Background(), "/tmp/a.jpg"))
	require.Len(t, r.calls, 1)
	assert.Equal(t, "dbus-send", r.calls[0].name)
	last := r.calls[0].args[len(r.calls[0].args)-1]
	assert.True(t, strings.HasPrefix(last, "string:"))
	assert.Contains(t, last, `"file:///tmp/a.jpg"`)
}

func TestDesktopCommands(t *testing.T) {
	tests := []struct {
		env     string
		wayland bool
		want    string
	}{
		{"gnome", true, "gsettings"},
		{"unity", false, "gsettings"},
		{"x-cinnamon", false, "gsettings"},
		{"kde", false, "dbus-send"},
		{"xfce", false, "xfconf-query"},
		{"sway", true, "swaymsg"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cmds, err := desktopCommands(tt.env, tt.wayland, "/tmp/a.jpg")
			require.NoError(t, err)
			require.NotEmpty(t, cmds)
			assert.Equal(t, tt.want, cmds[0].name)
		})
	}
}

func TestDesktopCommands_Unsupported(t *testing.T) {
	for _, tc := range []struct {
		env     string
		wayland bool
	}{
		{"", false},
		{"hyprland", true},
		{"i3", false},
	} {
		_, err := desktopCommands(tc.env, tc.wayland, "/tmp/a.jpg")
		assert.ErrorIsf(t, err, ErrUnsupported, "env %q", tc.env)
	}
}

func TestUnsupportedSetter(t *testing.T) {
	err := unsupported{reason: "plan9"}.Set(context.Background(), "/tmp/a.jpg")
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), "plan9")
}
