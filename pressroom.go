// Package pressroom is an article backend built with Go and Echo. It serves
// articles, categories and authors in a nested JSON envelope, counts a view
// on every article lookup, ranks articles by views and renders code blocks
// as HTML. Articles live in SQLite by default or in PostgreSQL when a
// database URL is configured.
package pressroom

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/logging"
	"github.com/eringen/pressroom/postgres"
)

// App is the central pressroom application. It wires together the
// repository, lookup service, feed cache, handlers and middleware.
type App struct {
	Config  Config
	Echo    *echo.Echo
	Repo    content.Repository
	Service *content.Service
	Feeds   *FeedCache

	metrics      *appMetrics
	registry     *prometheus.Registry
	limiter      *RateLimiter
	customRoutes []func(*App)
	closers      []func() error
}

// New creates a new pressroom App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	if a.registry == nil {
		a.registry = newRegistry()
	}
	return a
}

// Init opens the store unless one was supplied, then sets up the service,
// middleware and routes. It must be called once before Start or before
// serving a.Echo directly.
func (a *App) Init(ctx context.Context) error {
	if a.Repo == nil {
		repo, err := a.openRepository(ctx)
		if err != nil {
			return err
		}
		a.Repo = repo
	}

	a.metrics = newAppMetrics(a.registry)
	a.Service = content.NewService(a.Repo,
		content.WithIncrementMode(a.Config.ViewIncrement),
		content.WithViewHook(a.metrics.viewHook(a.Config.ViewIncrement)),
	)
	a.Feeds = NewFeedCache(a.Repo, a.Config.FeedCacheTTL)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) openRepository(ctx context.Context) (content.Repository, error) {
	if a.Config.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, a.Config.DatabaseURL, postgres.PoolConfig{})
		if err != nil {
			return nil, fmt.Errorf("pressroom: init postgres: %w", err)
		}
		store := postgres.New(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("pressroom: %w", err)
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		logging.Info(ctx).Msg("using postgres store")
		return store, nil
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("pressroom: init store: %w", err)
	}
	a.closers = append(a.closers, store.Close)
	logging.Info(ctx).Str("path", a.Config.DatabasePath).Msg("using sqlite store")
	return store, nil
}

// Start listens on Config.Addr and blocks until the server stops. A server
// stopped by Shutdown returns nil.
func (a *App) Start() error {
	logging.Info(context.Background()).Str("addr", a.Config.Addr).Msg("starting server")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
// Repositories passed through WithRepository are left open.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
