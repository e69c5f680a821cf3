package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/pressroom"
	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/logging"
	"github.com/eringen/pressroom/telemetry"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe()
	case "seed":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: pressroom seed <fixtures.json>")
			os.Exit(1)
		}
		err = runSeed(os.Args[2])
	case "healthcheck":
		err = runHealthcheck()
	case "version":
		fmt.Printf("pressroom %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (pressroom.Config, error) {
	cfg, err := pressroom.LoadConfig()
	if err != nil {
		return cfg, err
	}
	cfg.Version = version
	logging.Init(cfg.IsDevelopment())
	return cfg, nil
}

func runServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	otelShutdown, err := telemetry.Init(ctx, telemetry.Options{
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		logging.Warn(ctx).Err(err).Msg("failed to initialize OpenTelemetry, continuing without tracing")
		otelShutdown = func(context.Context) error { return nil }
	}

	app := pressroom.New(cfg)
	if err := app.Init(ctx); err != nil {
		return err
	}
	defer app.Close()

	logging.Info(ctx).
		Str("addr", cfg.Addr).
		Str("view_increment", string(cfg.ViewIncrement)).
		Int("rate_limit_per_minute", cfg.RateLimitPerMinute).
		Msg("configuration loaded")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(app.Start)

	g.Go(func() error {
		<-gCtx.Done()
		logging.Info(ctx).Msg("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.Info(context.Background()).Msg("server exited properly")
	return nil
}

func runSeed(path string) error {
	ctx := context.Background()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fx, err := pressroom.ReadFixtures(f)
	if err != nil {
		return err
	}

	app := pressroom.New(cfg)
	if err := app.Init(ctx); err != nil {
		return err
	}
	defer app.Close()

	seeder, ok := app.Repo.(content.Seeder)
	if !ok {
		return errors.New("configured store does not support seeding")
	}
	if err := pressroom.Seed(ctx, seeder, fx); err != nil {
		return err
	}
	app.Feeds.Invalidate()
	return nil
}

// runHealthcheck probes /healthz of a locally running server, for container
// health checks in images without curl.
func runHealthcheck() error {
	addr := pressroom.EnvOr("PRESSROOM_ADDR", ":1337")
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/healthz")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}

func printUsage() {
	fmt.Println(`pressroom - An article backend with view counting, built with Go and Echo

Usage:
  pressroom <command> [arguments]

Commands:
  serve                Start the HTTP server
  seed <fixtures.json> Load authors, categories and articles into the store
  healthcheck          Probe /healthz of a local server
  version              Print the pressroom version
  help                 Show this help message

Configuration is read from the environment and an optional .env file.`)
}
