package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/five82/posters/internal/config"
	"github.com/five82/posters/internal/deeplink"
	"github.com/five82/posters/internal/logging"
	"github.com/five82/posters/internal/prefs"
	"github.com/five82/posters/internal/state"
	"github.com/five82/posters/internal/ui"
)

// Options configure the posters application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/posters/prefs.toml
	Link       string // app link, share URL or id opened once the browser starts
	Debug      bool
}

// Run boots the browser until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var initialID string
	if link := strings.TrimSpace(opts.Link); link != "" {
		initialID, err = deeplink.Parse(link)
		if err != nil {
			return fmt.Errorf("open %q: %w", link, err)
		}
	}

	logPath, logFile, err := setupFileLogging(cfg, opts.Debug)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	log := logging.NewLogger("app")

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	pager := state.NewPager(deps.Client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.ListenAddr != "" {
		listener := deeplink.NewListener(cfg.ListenAddr, func(id string) {
			go func() { _ = pager.FetchByID(gctx, id) }()
		})
		deps.OnEvent(listener.Broadcast)
		g.Go(func() error {
			if err := listener.Serve(gctx); err != nil {
				// Another instance may own the port; browsing still works.
				log.Warn().Err(err).Str("addr", cfg.ListenAddr).Msg("deep-link listener unavailable")
			}
			return nil
		})
	}

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			if err := serveMetrics(gctx, cfg.MetricsAddr); err != nil {
				log.Warn().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics server unavailable")
			}
			return nil
		})
	}

	g.Go(func() error {
		// Quitting the UI stops everything else.
		defer cancel()
		return ui.Run(ui.Options{
			Context:   gctx,
			Pager:     pager,
			Actions:   deps,
			ThemeName: userPrefs.Theme,
			Columns:   userPrefs.Columns,
			PrefsPath: prefsPath,
			LogPath:   logPath,
			InitialID: initialID,
		})
	})

	log.Info().
		Str("api", cfg.APIBaseURL).
		Str("listen", cfg.ListenAddr).
		Bool("cache", cfg.CacheEnabled()).
		Msg("posters started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
