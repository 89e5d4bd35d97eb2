package app

import (
	"io"
	"os"

	"github.com/five82/posters/internal/config"
	"github.com/five82/posters/internal/logging"
)

// setupFileLogging routes logs to the rotated log file while the TUI owns the
// terminal. It returns the resolved path and the file to close on exit.
func setupFileLogging(cfg config.Config, debug bool) (string, io.Closer, error) {
	path, err := logging.ExpandPath(cfg.LogFile)
	if err != nil {
		return "", nil, err
	}
	file, err := logging.RotatingFile(path)
	if err != nil {
		return "", nil, err
	}
	logging.Setup(logging.Config{Level: level(cfg, debug), Output: file})
	return path, file, nil
}

// SetupConsoleLogging sends human-readable logs to stderr for one-shot
// commands. Only warnings and errors are shown unless debug is set.
func SetupConsoleLogging(debug bool) {
	lvl := logging.LevelWarn
	if debug {
		lvl = logging.LevelDebug
	}
	logging.Setup(logging.Config{Level: lvl, Pretty: true, Output: os.Stderr})
}

func level(cfg config.Config, debug bool) logging.LogLevel {
	if debug {
		return logging.LevelDebug
	}
	if cfg.LogLevel == "" {
		return logging.LevelInfo
	}
	return logging.LogLevel(cfg.LogLevel)
}
