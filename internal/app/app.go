// Package app wires configuration into an engine session, the sources, the
// sink and the pipeline runner.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"songlake/internal/config"
	"songlake/internal/domain"
	"songlake/internal/engine"
	"songlake/internal/pipeline"
	"songlake/internal/sink"
	"songlake/internal/source"
	"songlake/internal/storage"
)

// Deps holds the external dependencies that main() must provide.
type Deps struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// App holds an open engine session configured for one output location.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	session *engine.Session
}

// Open validates the configuration and opens the engine session.
func Open(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	session, err := engine.Open(ctx, engine.Options{
		Threads:     cfg.Threads,
		MemoryLimit: cfg.MemoryLimit,
		Credentials: cfg.Credentials,
		Locations:   cfg.Locations(),
	}, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("open engine: %w", err)
	}
	return &App{cfg: cfg, logger: deps.Logger, session: session}, nil
}

// Runner builds the pipeline runner over the session.
func (a *App) Runner(ctx context.Context) (*pipeline.Runner, error) {
	match, err := a.cfg.Match()
	if err != nil {
		return nil, err
	}
	purger, err := storage.NewPurger(ctx, a.cfg.Output, a.cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("output storage: %w", err)
	}

	db := a.session.DB()
	return pipeline.NewRunner(db,
		source.NewSongSource(db, a.cfg.Input, a.cfg.SongGlob),
		source.NewLogSource(db, a.cfg.Input, a.cfg.LogGlob),
		sink.NewParquetSink(db, a.cfg.Output, a.cfg.Compression, purger, a.logger),
		pipeline.Options{
			TimeZone:    a.cfg.TimeZone,
			Match:       match,
			Concurrency: a.cfg.Concurrency,
		},
		a.logger,
	), nil
}

// Reader returns a reader over the configured output location.
func (a *App) Reader() *sink.Reader {
	return sink.NewReader(a.session.DB(), a.cfg.Output)
}

// Close releases the session.
func (a *App) Close() error {
	return a.session.Close()
}

// RunOnce performs one complete run in a fresh session.
func RunOnce(ctx context.Context, deps Deps) (*domain.RunReport, error) {
	a, err := Open(ctx, deps)
	if err != nil {
		return nil, err
	}
	defer a.Close() //nolint:errcheck

	r, err := a.Runner(ctx)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx)
}

// NewLogger creates the process logger from cfg, writing to w.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
