package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, defaultAPIBaseURL)
	}
	if cfg.RequestTimeout != 90*time.Second {
		t.Fatalf("RequestTimeout = %v, want 90s", cfg.RequestTimeout)
	}
	if cfg.ListenAddr != defaultListenAddr {
		t.Fatalf("ListenAddr = %q, want %q", cfg.ListenAddr, defaultListenAddr)
	}
	if cfg.MaxRetries != 2 || cfg.RequestsPerSecond != 5 {
		t.Fatalf("MaxRetries = %d RequestsPerSecond = %v, want 2 and 5", cfg.MaxRetries, cfg.RequestsPerSecond)
	}
	if want := filepath.Join(home, ".local/share/posters/wallpapers"); cfg.DownloadDir != want {
		t.Fatalf("DownloadDir = %q, want %q", cfg.DownloadDir, want)
	}
	if want := filepath.Join(home, "Pictures/Posters"); cfg.GalleryDir != want {
		t.Fatalf("GalleryDir = %q, want %q", cfg.GalleryDir, want)
	}
	if cfg.CacheEnabled() {
		t.Fatalf("CacheEnabled = true without redis_addr")
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_base_url = "  http://localhost:8080/api  "
request_timeout_seconds = 15
requests_per_second = 0.5
max_retries = 0
listen_addr = "  127.0.0.1:5000 "
metrics_addr = "127.0.0.1:9464"
download_dir = "  ~/walls  "
gallery_dir = "/srv/gallery"
share_base_url = "https://example.com/s/"

[log]
level = " DEBUG "
file = "~/logs/posters.log"

[cache]
redis_addr = "localhost:6379"
redis_db = 3
ttl_seconds = 30
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080/api" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.RequestTimeout != 15*time.Second || cfg.RequestsPerSecond != 0.5 || cfg.MaxRetries != 0 {
		t.Fatalf("timeout/rps/retries = %v/%v/%d", cfg.RequestTimeout, cfg.RequestsPerSecond, cfg.MaxRetries)
	}
	if cfg.ListenAddr != "127.0.0.1:5000" || cfg.MetricsAddr != "127.0.0.1:9464" {
		t.Fatalf("ListenAddr = %q MetricsAddr = %q", cfg.ListenAddr, cfg.MetricsAddr)
	}
	if cfg.DownloadDir != filepath.Join(home, "walls") {
		t.Fatalf("DownloadDir = %q, want it under HOME %q", cfg.DownloadDir, home)
	}
	if cfg.GalleryDir != "/srv/gallery" {
		t.Fatalf("GalleryDir = %q", cfg.GalleryDir)
	}
	if cfg.LogLevel != "debug" || !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogLevel = %q LogFile = %q", cfg.LogLevel, cfg.LogFile)
	}
	if !cfg.CacheEnabled() || cfg.RedisDB != 3 || cfg.CacheTTL != 30*time.Second {
		t.Fatalf("cache = %q db %d ttl %v", cfg.RedisAddr, cfg.RedisDB, cfg.CacheTTL)
	}
}

func TestLoad_EmptyListenAddrDisablesListener(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `listen_addr = ""`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ListenAddr != "" {
		t.Fatalf("ListenAddr = %q, want empty", cfg.ListenAddr)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
api_base_url = "   "
download_dir = ""
[log]
level = ""
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg.APIBaseURL != def.APIBaseURL || cfg.DownloadDir != def.DownloadDir || cfg.LogLevel != def.LogLevel {
		t.Fatalf("cfg = %#v, want defaults", cfg)
	}
}

func TestLoad_RejectsOutOfRangeNumbers(t *testing.T) {
	tests := map[string]string{
		"zero timeout":     `request_timeout_seconds = 0`,
		"negative retries": `max_retries = -1`,
		"negative rps":     `requests_per_second = -2.0`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("Load returned nil error for %q", body)
			}
		})
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	_, err := Load(writeConfig(t, `api_base_url = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestDefaultPath_UnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got := DefaultPath()
	if got != filepath.Join(home, ".config/posters/config.toml") {
		t.Fatalf("DefaultPath = %q", got)
	}
}
