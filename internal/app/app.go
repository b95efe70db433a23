package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/vk/varcar/internal/ctxlog"
	"github.com/vk/varcar/internal/source"
)

var (
	// ErrValidationFailed is returned when broken chains or white colors
	// remain and failing was not disabled.
	ErrValidationFailed = errors.New("validation failed")

	// ErrRegression is returned when a recorded run is worse than the
	// previous run of the same document.
	ErrRegression = errors.New("validation regressed since the previous run")
)

// defaultDebounce delays watch-mode revalidation after the last file event.
const defaultDebounce = 200 * time.Millisecond

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	source *source.Client

	now      func() time.Time
	debounce time.Duration
}

// NewApp creates an App writing results to outW and logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		source:   source.New(cfg.S3),
		now:      time.Now,
		debounce: defaultDebounce,
	}
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
