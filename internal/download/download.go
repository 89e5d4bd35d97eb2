// Package download saves wallpapers to disk as full-quality JPEG files.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/five82/posters/internal/logging"
	"github.com/five82/posters/internal/posters"
)

const (
	defaultTimeout = 2 * time.Minute
	maxImageBytes  = 64 << 20
	jpegQuality    = 100
)

// ErrNoImage is returned when a wallpaper has no downloadable URL.
var ErrNoImage = errors.New("wallpaper has no image url")

var downloads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "posters_downloads_total",
	Help: "Wallpaper downloads by outcome",
}, []string{"outcome"}) // "ok", "cached", "error"

// Options configures a Downloader.
type Options struct {
	HTTPClient  *http.Client
	DownloadDir string // private copies used for applying wallpapers
	GalleryDir  string // user-visible saved wallpapers
	UserAgent   string
}

// Downloader fetches wallpaper images and re-encodes them as JPEG.
type Downloader struct {
	http        *http.Client
	downloadDir string
	galleryDir  string
	userAgent   string
	log         zerolog.Logger
}

// New creates a Downloader. Directories are created on first use.
func New(opts Options) (*Downloader, error) {
	if strings.TrimSpace(opts.DownloadDir) == "" {
		return nil, errors.New("download dir is required")
	}
	if strings.TrimSpace(opts.GalleryDir) == "" {
		return nil, errors.New("gallery dir is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "posters/0.1"
	}
	return &Downloader{
		http:        client,
		downloadDir: opts.DownloadDir,
		galleryDir:  opts.GalleryDir,
		userAgent:   ua,
		log:         logging.NewLogger("download"),
	}, nil
}

// SaveToGallery stores wp in the gallery dir and returns the file path.
func (d *Downloader) SaveToGallery(ctx context.Context, wp posters.Wallpaper) (string, error) {
	return d.Fetch(ctx, wp, d.galleryDir)
}

// SaveForWallpaper stores wp in the private download dir and returns the file path.
func (d *Downloader) SaveForWallpaper(ctx context.Context, wp posters.Wallpaper) (string, error) {
	return d.Fetch(ctx, wp, d.downloadDir)
}

// ValidateID rejects ids that cannot be used as a file name.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("invalid id: empty")
	}
	if strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, filepath.Separator) {
		return fmt.Errorf("invalid id %q: contains illegal characters", id)
	}
	return nil
}

// Path returns where wp is stored inside dir.
func Path(dir, id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(dir, id+".jpg"), nil
}

// Fetch downloads wp into destDir as <id>.jpg and returns the path. A file
// that already exists is reused without a request.
func (d *Downloader) Fetch(ctx context.Context, wp posters.Wallpaper, destDir string) (string, error) {
	dest, err := Path(destDir, wp.ID)
	if err != nil {
		return "", err
	}
	src := wp.BestImageURL()
	if src == "" {
		return "", fmt.Errorf("download %s: %w", wp.ID, ErrNoImage)
	}

	if _, err := os.Stat(dest); err == nil {
		downloads.WithLabelValues("cached").Inc()
		d.log.Debug().Str("id", wp.ID).Str("path", dest).Msg("reusing downloaded wallpaper")
		return dest, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", destDir, err)
	}

	start := time.Now()
	if err := d.download(ctx, src, dest); err != nil {
		downloads.WithLabelValues("error").Inc()
		d.log.Error().Err(err).Str("id", wp.ID).Str("url", src).Msg("download failed")
		return "", fmt.Errorf("download %s: %w", wp.ID, err)
	}

	downloads.WithLabelValues("ok").Inc()
	d.log.Info().Str("id", wp.ID).Str("path", dest).Dur("duration", time.Since(start)).Msg("wallpaper saved")
	return dest, nil
}

func (d *Downloader) download(ctx context.Context, src, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("get image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get image: status %d", resp.StatusCode)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxImageBytes), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".posters-*.jpg")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode jpeg: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("move into place: %w", err)
	}
	return nil
}
