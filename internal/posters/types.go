package posters

import (
	"path"
	"strings"
)

// Wallpaper mirrors one entry returned by the posters backend.
type Wallpaper struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnailUrl"`
	PreviewURL   string `json:"previewUrl"`
	FullURL      string `json:"fullUrl"`
}

// DisplayName returns the name to show for the wallpaper, falling back to the ID.
func (w Wallpaper) DisplayName() string {
	if name := strings.TrimSpace(w.Name); name != "" {
		return name
	}
	return w.ID
}

// FileExt returns the extension of the full-resolution image URL, if any.
func (w Wallpaper) FileExt() string {
	raw := w.FullURL
	if idx := strings.IndexAny(raw, "?#"); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.ToLower(path.Ext(raw))
}

// BestImageURL returns the highest resolution URL the wallpaper carries.
func (w Wallpaper) BestImageURL() string {
	for _, candidate := range []string{w.FullURL, w.PreviewURL, w.ThumbnailURL} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}
