package wallpaper

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// command is one external invocation; optional commands may fail silently.
type command struct {
	name     string
	args     []string
	optional bool
}

const kdeScript = `var all = desktops();
for (var i = 0; i < all.length; i++) {
    var d = all[i];
    d.wallpaperPlugin = "org.kde.image";
    d.currentConfigGroup = Array("Wallpaper", "org.kde.image", "General");
    d.writeConfig("Image", %q);
}`

// freedesktop drives Linux and BSD desktops through their command-line tools.
type freedesktop struct {
	getenv func(string) string
	run    runner
}

func (f *freedesktop) Set(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	cmds, err := desktopCommands(f.desktopEnv(), f.getenv("WAYLAND_DISPLAY") != "", abs)
	if err != nil {
		return err
	}
	for _, c := range cmds {
		if err := f.run(ctx, c.name, c.args...); err != nil && !c.optional {
			return fmt.Errorf("set wallpaper: %w", err)
		}
	}
	return nil
}

func (f *freedesktop) desktopEnv() string {
	env := f.getenv("XDG_CURRENT_DESKTOP")
	if env == "" {
		env = f.getenv("DESKTOP_SESSION")
	}
	return strings.ToLower(env)
}

// desktopCommands picks the commands that set path as the wallpaper for the
// given desktop environment.
func desktopCommands(env string, wayland bool, path string) ([]command, error) {
	fileURI := (&url.URL{Scheme: "file", Path: path}).String()
	gnome := []command{
		{name: "gsettings", args: []string{"set", "org.gnome.desktop.background", "picture-uri", fileURI}},
		{name: "gsettings", args: []string{"set", "org.gnome.desktop.background", "picture-uri-dark", fileURI}, optional: true},
		{name: "gsettings", args: []string{"set", "org.gnome.desktop.background", "picture-options", "zoom"}, optional: true},
	}

	switch {
	case strings.Contains(env, "gnome"), strings.Contains(env, "unity"),
		strings.Contains(env, "mutter"), strings.Contains(env, "budgie"):
		return gnome, nil
	case strings.Contains(env, "cinnamon"):
		return []command{
			{name: "gsettings", args: []string{"set", "org.cinnamon.desktop.background", "picture-uri", fileURI}},
		}, nil
	case strings.Contains(env, "kde"), strings.Contains(env, "plasma"):
		return []command{{name: "dbus-send", args: []string{
			"--session", "--dest=org.kde.plasmashell", "--type=method_call",
			"/PlasmaShell", "org.kde.PlasmaShell.evaluateScript",
			"string:" + fmt.Sprintf(kdeScript, fileURI),
		}}}, nil
	case strings.Contains(env, "xfce"):
		return []command{{name: "xfconf-query", args: []string{
			"--channel", "xfce4-desktop",
			"--property", "/backdrop/screen0/monitor0/workspace0/last-image",
			"--set", path,
		}}}, nil
	case strings.Contains(env, "sway"):
		return []command{{name: "swaymsg", args: []string{"output", "*", "bg", path, "fill"}}}, nil
	case env == "":
		return nil, fmt.Errorf("%w: desktop environment not detected", ErrUnsupported)
	case wayland:
		return nil, fmt.Errorf("%w: wayland compositor %q", ErrUnsupported, env)
	default:
		return nil, fmt.Errorf("%w: desktop environment %q", ErrUnsupported, env)
	}
}
