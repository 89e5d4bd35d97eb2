package deeplink

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// Scheme is the custom URI scheme handled by the application.
	Scheme = "postersapp"

	// DefaultShareBaseURL is the web redirect page that forwards to the app.
	DefaultShareBaseURL = "https://arpg2418.github.io/posters-redirect/"

	queryParam = "wallpaperId"
)

// ErrNoIdentifier is returned when a link carries no wallpaper id.
var ErrNoIdentifier = errors.New("link has no wallpaper id")

// Parse extracts a wallpaper id from a deep link. It accepts
// postersapp://wallpaper/<id>, share URLs carrying ?wallpaperId=<id>, and bare ids.
func Parse(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoIdentifier
	}
	if !strings.Contains(raw, "://") {
		if strings.ContainsAny(raw, "/?#") {
			return "", fmt.Errorf("parse link %q: %w", raw, ErrNoIdentifier)
		}
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", raw, err)
	}
	if id := strings.TrimSpace(u.Query().Get(queryParam)); id != "" {
		return id, nil
	}
	if !strings.EqualFold(u.Scheme, Scheme) {
		return "", fmt.Errorf("parse link %q: %w", raw, ErrNoIdentifier)
	}

	// postersapp://wallpaper/<id> puts "wallpaper" in the host slot. The id is
	// the last escaped segment, so an escaped "/" stays part of it.
	p := strings.Trim(u.EscapedPath(), "/")
	if p == "" {
		return "", fmt.Errorf("parse link %q: %w", raw, ErrNoIdentifier)
	}
	id, err := url.PathUnescape(p[strings.LastIndex(p, "/")+1:])
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", raw, err)
	}
	if id == "wallpaper" && u.Host == "" {
		return "", fmt.Errorf("parse link %q: %w", raw, ErrNoIdentifier)
	}
	return id, nil
}

// AppLink returns the custom-scheme link for id.
func AppLink(id string) string {
	return Scheme + "://wallpaper/" + url.PathEscape(id)
}

// ShareURL builds the web share link for id. An empty base uses
// DefaultShareBaseURL.
func ShareURL(base, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrNoIdentifier
	}
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultShareBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse share base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("share base url %q must be absolute", base)
	}
	q := u.Query()
	q.Set(queryParam, id)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
