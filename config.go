package pressroom

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eringen/pressroom/content"
)

// Config holds all configuration for a pressroom server.
type Config struct {
	Name        string // Site name used in the feed (default "Pressroom")
	URL         string // Canonical URL (default "http://localhost:1337")
	Description string // Feed description
	Version     string // Reported in telemetry and /healthz

	Addr         string // Listen address (default ":1337")
	DatabasePath string // SQLite path (default "data/pressroom.db")
	DatabaseURL  string // PostgreSQL DSN; when set SQLite is not used

	ViewIncrement      content.IncrementMode // atomic (default) or snapshot
	RateLimitPerMinute int                   // Per-IP /api budget; 0 disables
	FeedCacheTTL       time.Duration         // Feed and sitemap cache TTL (default 5min)
	FeedSize           int                   // Items in /feed.xml (default 20)

	Environment  string // "development" enables console logging
	OTLPEndpoint string // OTLP/HTTP collector; empty disables trace export
	ServiceName  string // default "pressroom"
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Pressroom"
	}
	if c.URL == "" {
		c.URL = "http://localhost:1337"
	}
	if c.Addr == "" {
		c.Addr = ":1337"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/pressroom.db"
	}
	if c.ViewIncrement == "" {
		c.ViewIncrement = content.IncrementAtomic
	}
	if c.FeedCacheTTL == 0 {
		c.FeedCacheTTL = 5 * time.Minute
	}
	if c.FeedSize == 0 {
		c.FeedSize = 20
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.ServiceName == "" {
		c.ServiceName = "pressroom"
	}
	if c.Version == "" {
		c.Version = "dev"
	}
}

// IsDevelopment reports whether the server runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig reads configuration from the environment. Files named in
// envFiles (default ".env") are loaded first when they exist; variables
// already set in the environment win.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	mode, err := content.ParseIncrementMode(os.Getenv("VIEW_INCREMENT"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid VIEW_INCREMENT: %w", err)
	}
	rate, err := envInt("RATE_LIMIT_PER_MINUTE", 0)
	if err != nil {
		return Config{}, err
	}
	feedSize, err := envInt("FEED_SIZE", 0)
	if err != nil {
		return Config{}, err
	}
	var ttl time.Duration
	if v := os.Getenv("FEED_CACHE_TTL"); v != "" {
		if ttl, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("invalid FEED_CACHE_TTL: %w", err)
		}
	}

	cfg := Config{
		Name:               os.Getenv("PRESSROOM_NAME"),
		URL:                os.Getenv("PRESSROOM_URL"),
		Description:        os.Getenv("PRESSROOM_DESCRIPTION"),
		Addr:               os.Getenv("PRESSROOM_ADDR"),
		DatabasePath:       os.Getenv("DATABASE_PATH"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ViewIncrement:      mode,
		RateLimitPerMinute: rate,
		FeedCacheTTL:       ttl,
		FeedSize:           feedSize,
		Environment:        os.Getenv("ENVIRONMENT"),
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:        os.Getenv("OTEL_SERVICE_NAME"),
	}
	cfg.setDefaults()
	return cfg, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithRepository makes the App use repo instead of opening a store from
// the configuration. The caller keeps ownership of repo.
func WithRepository(repo content.Repository) Option {
	return func(a *App) {
		a.Repo = repo
	}
}

// WithRegistry sets the Prometheus registry used for /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}
