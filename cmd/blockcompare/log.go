package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/lixenwraith/blockcompare/config"
)

// newLogger creates a logger with timestamp formatting
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45")
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// openLogOutput picks where logs go while the terminal is owned by the board
// An explicit path always wins, verbose without a path logs under the user cache dir
func openLogOutput(path string, verbose bool) (io.Writer, func() error, error) {
	if path == "" && !verbose {
		return io.Discard, func() error { return nil }, nil
	}
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, nil, errors.Wrap(err, "locate cache dir")
		}
		path = filepath.Join(dir, "blockcompare", "blockcompare.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, errors.Wrapf(err, "create log dir for %s", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open log %s", path)
	}
	return f, f.Close, nil
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	configKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns log.Default when no logger is attached
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext returns the defaults when no config is attached
func configFromContext(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey).(*config.Config); ok {
		return c
	}
	return config.Default()
}
