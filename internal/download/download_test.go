package download

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/posters/internal/posters"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestDownloader(t *testing.T) (*Downloader, string, string) {
	t.Helper()
	root := t.TempDir()
	dl := filepath.Join(root, "wallpapers")
	gallery := filepath.Join(root, "Pictures", "Posters")
	d, err := New(Options{DownloadDir: dl, GalleryDir: gallery})
	require.NoError(t, err)
	return d, dl, gallery
}

func TestNew_RequiresDirs(t *testing.T) {
	_, err := New(Options{GalleryDir: "g"})
	assert.Error(t, err)
	_, err = New(Options{DownloadDir: "d"})
	assert.Error(t, err)
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"65f1c0de", false},
		{"poster_01", false},
		{"", true},
		{"  ", true},
		{"../etc", true},
		{"a/b", true},
		{`a\b`, true},
	}
	for _, tt := range tests {
		err := ValidateID(tt.id)
		if tt.wantErr {
			assert.Errorf(t, err, "ValidateID(%q)", tt.id)
		} else {
			assert.NoErrorf(t, err, "ValidateID(%q)", tt.id)
		}
	}
}

func TestFetch_ReencodesAsJPEG(t *testing.T) {
	var hits atomic.Int32
	body := pngBytes(t, 12, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/full.png", r.URL.Path)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer server.Close()

	d, _, gallery := newTestDownloader(t)
	wp := posters.Wallpaper{ID: "abc", FullURL: server.URL + "/full.png", PreviewURL: server.URL + "/preview.png"}

	path, err := d.SaveToGallery(context.Background(), wp)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(gallery, "abc.jpg"), path)

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	_, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	// Second save reuses the file.
	again, err := d.SaveToGallery(context.Background(), wp)
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, int32(1), hits.Load())

	entries, err := os.ReadDir(gallery)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should be cleaned up")
}

func TestSaveForWallpaper_UsesDownloadDir(t *testing.T) {
	body := pngBytes(t, 4, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer server.Close()

	d, dl, _ := newTestDownloader(t)
	path, err := d.SaveForWallpaper(context.Background(), posters.Wallpaper{ID: "w1", PreviewURL: server.URL + "/p"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dl, "w1.jpg"), path)
}

func TestFetch_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		default:
			_, _ = w.Write([]byte("not an image"))
		}
	}))
	defer server.Close()

	d, dl, _ := newTestDownloader(t)

	_, err := d.SaveForWallpaper(context.Background(), posters.Wallpaper{ID: "x"})
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = d.SaveForWallpaper(context.Background(), posters.Wallpaper{ID: "../x", FullURL: server.URL})
	assert.Error(t, err)

	_, err = d.SaveForWallpaper(context.Background(), posters.Wallpaper{ID: "x", FullURL: server.URL + "/missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	_, err = d.SaveForWallpaper(context.Background(), posters.Wallpaper{ID: "x", FullURL: server.URL + "/garbage"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode image")

	_, statErr := os.Stat(filepath.Join(dl, "x.jpg"))
	assert.True(t, os.IsNotExist(statErr))
}
