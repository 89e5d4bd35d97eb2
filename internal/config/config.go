package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the runtime settings for posters.
type Config struct {
	APIBaseURL        string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	MaxRetries        int
	ListenAddr        string // empty disables the deep-link listener
	MetricsAddr       string // empty disables /metrics
	DownloadDir       string
	GalleryDir        string
	ShareBaseURL      string

	LogLevel string
	LogFile  string

	RedisAddr     string // empty disables the response cache
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

const (
	defaultConfigPath        = "~/.config/posters/config.toml"
	defaultAPIBaseURL        = "https://posters-backend-ibn4.onrender.com/"
	defaultRequestTimeout    = 90 * time.Second
	defaultRequestsPerSecond = 5
	defaultMaxRetries        = 2
	defaultListenAddr        = "127.0.0.1:49453"
	defaultDownloadDir       = "~/.local/share/posters/wallpapers"
	defaultGalleryDir        = "~/Pictures/Posters"
	defaultShareBaseURL      = "https://arpg2418.github.io/posters-redirect/"
	defaultLogLevel          = "info"
	defaultLogFile           = "~/.local/state/posters/posters.log"
	defaultCacheTTL          = 10 * time.Minute
)

type rawConfig struct {
	APIBaseURL            string   `toml:"api_base_url"`
	RequestTimeoutSeconds *int     `toml:"request_timeout_seconds"`
	RequestsPerSecond     *float64 `toml:"requests_per_second"`
	MaxRetries            *int     `toml:"max_retries"`
	ListenAddr            *string  `toml:"listen_addr"`
	MetricsAddr           string   `toml:"metrics_addr"`
	DownloadDir           string   `toml:"download_dir"`
	GalleryDir            string   `toml:"gallery_dir"`
	ShareBaseURL          string   `toml:"share_base_url"`

	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"log"`

	Cache struct {
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       int    `toml:"redis_db"`
		TTLSeconds    *int   `toml:"ttl_seconds"`
	} `toml:"cache"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL:        defaultAPIBaseURL,
		RequestTimeout:    defaultRequestTimeout,
		RequestsPerSecond: defaultRequestsPerSecond,
		MaxRetries:        defaultMaxRetries,
		ListenAddr:        defaultListenAddr,
		DownloadDir:       mustExpand(defaultDownloadDir),
		GalleryDir:        mustExpand(defaultGalleryDir),
		ShareBaseURL:      defaultShareBaseURL,
		LogLevel:          defaultLogLevel,
		LogFile:           mustExpand(defaultLogFile),
		CacheTTL:          defaultCacheTTL,
	}
}

// Load reads the config at path (or the default location), falling back to
// defaults when the file is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if raw.RequestTimeoutSeconds != nil {
		if *raw.RequestTimeoutSeconds <= 0 {
			return Config{}, fmt.Errorf("request_timeout_seconds must be positive, got %d", *raw.RequestTimeoutSeconds)
		}
		cfg.RequestTimeout = time.Duration(*raw.RequestTimeoutSeconds) * time.Second
	}
	if raw.RequestsPerSecond != nil {
		if *raw.RequestsPerSecond < 0 {
			return Config{}, fmt.Errorf("requests_per_second must not be negative, got %v", *raw.RequestsPerSecond)
		}
		cfg.RequestsPerSecond = *raw.RequestsPerSecond
	}
	if raw.MaxRetries != nil {
		if *raw.MaxRetries < 0 {
			return Config{}, fmt.Errorf("max_retries must not be negative, got %d", *raw.MaxRetries)
		}
		cfg.MaxRetries = *raw.MaxRetries
	}
	if raw.ListenAddr != nil {
		cfg.ListenAddr = strings.TrimSpace(*raw.ListenAddr)
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	if v := strings.TrimSpace(raw.DownloadDir); v != "" {
		cfg.DownloadDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.GalleryDir); v != "" {
		cfg.GalleryDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ShareBaseURL); v != "" {
		cfg.ShareBaseURL = v
	}

	if v := strings.ToLower(strings.TrimSpace(raw.Log.Level)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.Log.File); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	cfg.RedisAddr = strings.TrimSpace(raw.Cache.RedisAddr)
	cfg.RedisPassword = raw.Cache.RedisPassword
	cfg.RedisDB = raw.Cache.RedisDB
	if raw.Cache.TTLSeconds != nil {
		cfg.CacheTTL = time.Duration(*raw.Cache.TTLSeconds) * time.Second
	}

	return cfg, nil
}

// CacheEnabled reports whether responses should be cached in Redis.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != "" && c.CacheTTL > 0
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
