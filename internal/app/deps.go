package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/posters/internal/cache"
	"github.com/five82/posters/internal/config"
	"github.com/five82/posters/internal/deeplink"
	"github.com/five82/posters/internal/download"
	"github.com/five82/posters/internal/logging"
	"github.com/five82/posters/internal/posters"
	"github.com/five82/posters/internal/wallpaper"
)

const userAgent = "posters/0.1"

// Dependencies holds the components shared by the browser and the one-shot
// commands.
type Dependencies struct {
	Config     config.Config
	Client     *posters.Client
	Downloader *download.Downloader
	Setter     wallpaper.Setter

	cache *cache.Redis
	log   zerolog.Logger

	mu     sync.Mutex
	notify func(deeplink.Event)
}

// NewDependencies builds the client, optional Redis cache, downloader and
// wallpaper setter described by cfg. An unreachable cache is logged and
// skipped.
func NewDependencies(ctx context.Context, cfg config.Config) (*Dependencies, error) {
	d := &Dependencies{
		Config: cfg,
		Setter: wallpaper.New(),
		log:    logging.NewLogger("app"),
	}

	opts := posters.Options{
		BaseURL:           cfg.APIBaseURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		MaxRetries:        cfg.MaxRetries,
		UserAgent:         userAgent,
		CacheTTL:          cfg.CacheTTL,
	}
	if cfg.CacheEnabled() {
		rc, err := cache.Dial(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			d.log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("response cache disabled")
		} else {
			d.cache = rc
			opts.Cache = rc
		}
	}

	client, err := posters.NewClient(opts)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("init client: %w", err)
	}
	d.Client = client

	downloader, err := download.New(download.Options{
		DownloadDir: cfg.DownloadDir,
		GalleryDir:  cfg.GalleryDir,
		UserAgent:   userAgent,
	})
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("init downloader: %w", err)
	}
	d.Downloader = downloader

	return d, nil
}

// Close releases the cache connection, if any.
func (d *Dependencies) Close() {
	if d.cache == nil {
		return
	}
	if err := d.cache.Close(); err != nil {
		d.log.Warn().Err(err).Msg("close cache")
	}
	d.cache = nil
}

// OnEvent registers fn to receive save and apply events.
func (d *Dependencies) OnEvent(fn func(deeplink.Event)) {
	d.mu.Lock()
	d.notify = fn
	d.mu.Unlock()
}

func (d *Dependencies) emit(ev deeplink.Event) {
	d.mu.Lock()
	fn := d.notify
	d.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// Resolve turns an id, app link or share URL into a wallpaper.
func (d *Dependencies) Resolve(ctx context.Context, ref string) (posters.Wallpaper, error) {
	id, err := deeplink.Parse(ref)
	if err != nil {
		return posters.Wallpaper{}, err
	}
	return d.Client.FetchWallpaper(ctx, id)
}

// Save downloads wp into the gallery directory.
func (d *Dependencies) Save(ctx context.Context, wp posters.Wallpaper) (string, error) {
	path, err := d.Downloader.SaveToGallery(ctx, wp)
	if err != nil {
		return "", err
	}
	d.log.Info().Str("id", wp.ID).Str("path", path).Msg("wallpaper saved")
	d.emit(deeplink.Event{Type: deeplink.EventSaved, ID: wp.ID, Name: wp.DisplayName(), Path: path})
	return path, nil
}

// Apply downloads wp and sets it as the desktop wallpaper.
func (d *Dependencies) Apply(ctx context.Context, wp posters.Wallpaper) (string, error) {
	path, err := d.Downloader.SaveForWallpaper(ctx, wp)
	if err != nil {
		return "", err
	}
	if err := d.Setter.Set(ctx, path); err != nil {
		return "", fmt.Errorf("set wallpaper: %w", err)
	}
	d.log.Info().Str("id", wp.ID).Str("path", path).Msg("wallpaper applied")
	d.emit(deeplink.Event{Type: deeplink.EventApplied, ID: wp.ID, Name: wp.DisplayName(), Path: path})
	return path, nil
}

// ShareURL returns the public link for id.
func (d *Dependencies) ShareURL(id string) (string, error) {
	return deeplink.ShareURL(d.Config.ShareBaseURL, id)
}
