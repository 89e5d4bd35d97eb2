package posters

import (
	"encoding/json"
	"testing"
)

func TestWallpaper_DecodesBackendFieldNames(t *testing.T) {
	raw := `{"id":"42","name":"Nebula","thumbnailUrl":"t","previewUrl":"p","fullUrl":"f"}`
	var wp Wallpaper
	if err := json.Unmarshal([]byte(raw), &wp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := Wallpaper{ID: "42", Name: "Nebula", ThumbnailURL: "t", PreviewURL: "p", FullURL: "f"}
	if wp != want {
		t.Fatalf("decoded = %#v, want %#v", wp, want)
	}
}

func TestWallpaper_DisplayNameFallsBackToID(t *testing.T) {
	if got := (Wallpaper{ID: "7", Name: "  "}).DisplayName(); got != "7" {
		t.Fatalf("DisplayName = %q, want 7", got)
	}
	if got := (Wallpaper{ID: "7", Name: "Dune"}).DisplayName(); got != "Dune" {
		t.Fatalf("DisplayName = %q, want Dune", got)
	}
}

func TestWallpaper_FileExt(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn/x/full.PNG", ".png"},
		{"https://cdn/x/full.jpg?w=100#top", ".jpg"},
		{"https://cdn/x/full", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := (Wallpaper{FullURL: tt.url}).FileExt(); got != tt.want {
			t.Errorf("FileExt(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestWallpaper_BestImageURL(t *testing.T) {
	if got := (Wallpaper{PreviewURL: "p", ThumbnailURL: "t"}).BestImageURL(); got != "p" {
		t.Fatalf("BestImageURL = %q, want p", got)
	}
	if got := (Wallpaper{FullURL: "f", PreviewURL: "p"}).BestImageURL(); got != "f" {
		t.Fatalf("BestImageURL = %q, want f", got)
	}
	if got := (Wallpaper{}).BestImageURL(); got != "" {
		t.Fatalf("BestImageURL = %q, want empty", got)
	}
}
