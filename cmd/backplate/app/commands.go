package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stationhouse/backplate/internal/cache"
	"github.com/stationhouse/backplate/internal/logsink"
	"github.com/stationhouse/backplate/internal/server"
	"github.com/stationhouse/backplate/internal/storage"
	"github.com/stationhouse/backplate/pkg/logging"
)

// NewServeCommand creates the serve command.
func (a *App) NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		Short:   "Start the HTTP server",
		Long: `Start the backplate HTTP server.

Features:
  - Swagger UI (/docs) and ReDoc (/redoc) documentation pages
  - Rendered README (/README) and static assets (/static)
  - Liveness and readiness probes (/healthz, /readyz)
  - Optional Postgres-backed log store (/logs) and Redis-backed KV demo
  - Rate limiting, CORS, and API key authentication (optional)
  - Request logging and panic recovery
  - Graceful shutdown with connection draining`,
		Example: `  # Start on default port 8000
  backplate serve

  # Start on custom port with authentication
  backplate serve --port 3000 --auth

  # Enable CORS for specific origins
  backplate serve --cors-origins "https://example.com,https://app.example.com"

  # Enable the Postgres log store and Redis cache
  DB_ENABLED=true CACHE_ENABLED=true backplate serve`,
		RunE: a.runServe,
	}

	// Server configuration flags (defaults come from env/.env/config file)
	cmd.Flags().Int("port", a.config.Port, "Server port")
	cmd.Flags().String("host", a.config.Host, "Bind address")

	// CORS flags
	cmd.Flags().Bool("cors", a.config.CORSEnabled, "Enable CORS")
	cmd.Flags().StringSlice("cors-origins", a.config.CORSOrigins, "Allowed CORS origins (comma-separated)")

	// Authentication flags
	cmd.Flags().Bool("auth", a.config.AuthEnabled, "Enable API key authentication")
	cmd.Flags().String("auth-header", a.config.AuthHeader, "Authentication header name")

	// Performance flags
	cmd.Flags().Int("rate-limit", a.config.RateLimit, "Requests per minute per IP (0 to disable)")

	// Documentation flags
	cmd.Flags().String("static-dir", a.config.StaticDir, "Directory served under /static")
	cmd.Flags().String("readme", a.config.ReadmePath, "Markdown file served at /README")

	// Timeout flags
	cmd.Flags().Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", 10*time.Second, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", 120*time.Second, "HTTP idle timeout")

	// Features flags
	cmd.Flags().Bool("metrics", a.config.MetricsEnabled, "Enable metrics endpoint")

	return cmd
}

// runServe starts the HTTP server and any enabled backing services.
func (a *App) runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := a.parseServerConfig(cmd)

	var opts []server.Option
	var sink *logsink.Sink
	var store *storage.Store
	var cacheSvc *cache.Service

	// Postgres store and log sink (optional)
	if a.config.DBEnabled {
		st, err := storage.New(ctx, storage.DefaultConfig(a.config.DatabaseURL), a.logger)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		store = st
		if err := store.Migrate(ctx); err != nil {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = store.Close(closeCtx)
			return fmt.Errorf("running migrations: %w", err)
		}

		// Tee application logs into the store from here on.
		sink = logsink.New(store, a.logger)
		logger := NewLoggerWithSink(a.config, sink)
		a.logger = &logger

		opts = append(opts, server.WithStore(store))
	}

	// Redis cache (optional)
	if a.config.CacheEnabled {
		svc, err := cache.New(ctx, cache.DefaultConfig(a.config.CacheURL), a.logger)
		if err != nil {
			return fmt.Errorf("connecting to cache: %w", err)
		}
		cacheSvc = svc
		opts = append(opts, server.WithCache(cacheSvc))
	}

	srv := server.New(cfg, a.logger, opts...)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	log := logging.Component(a.logger, "serve")
	log.Info().
		Str("addr", addr).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Bool("db", store != nil).
		Bool("cache", cacheSvc != nil).
		Msg(logging.Start + " starting HTTP server")

	group, groupCtx := errgroup.WithContext(ctx)

	if sink != nil {
		group.Go(func() error {
			return sink.Run(groupCtx)
		})
	}

	group.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		// Fresh context: the parent is already cancelled at this point.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		log.Info().Msg(logging.Start + " shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := group.Wait()

	// Close backing services after handlers have drained.
	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if store != nil {
		if closeErr := store.Close(closeCtx); closeErr != nil {
			log.Warn().Err(closeErr).Msg(logging.Fail + " database close failed")
		}
	}
	if cacheSvc != nil {
		if closeErr := cacheSvc.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg(logging.Fail + " cache close failed")
		}
	}

	if err != nil {
		return err
	}

	log.Info().Msg(logging.OK + " server stopped gracefully")
	return nil
}

// parseServerConfig builds the server configuration from app config and flags.
func (a *App) parseServerConfig(cmd *cobra.Command) server.Config {
	cfg := server.DefaultConfig()

	cfg.Host = mustGetString(cmd, "host")
	cfg.Port = mustGetInt(cmd, "port")
	cfg.Title = a.config.Title
	cfg.Version = a.version

	cfg.StaticDir = mustGetString(cmd, "static-dir")
	cfg.ReadmePath = mustGetString(cmd, "readme")
	cfg.SwaggerJSURL = a.config.SwaggerJSURL
	cfg.SwaggerCSSURL = a.config.SwaggerCSSURL
	cfg.RedocJSURL = a.config.RedocJSURL

	cfg.CORSEnabled = mustGetBool(cmd, "cors")
	cfg.CORSOrigins = mustGetStringSlice(cmd, "cors-origins")

	cfg.AuthEnabled = mustGetBool(cmd, "auth")
	cfg.AuthHeader = mustGetString(cmd, "auth-header")
	cfg.AuthAPIKey = a.config.APIKey

	cfg.RateLimit = mustGetInt(cmd, "rate-limit")
	cfg.MetricsEnabled = mustGetBool(cmd, "metrics")

	cfg.ReadTimeout = mustGetDuration(cmd, "read-timeout")
	cfg.WriteTimeout = mustGetDuration(cmd, "write-timeout")
	cfg.IdleTimeout = mustGetDuration(cmd, "idle-timeout")

	return cfg
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("backplate %s\n", a.version)
			fmt.Printf("  commit:   %s\n", a.commit)
			fmt.Printf("  built:    %s\n", a.date)
			fmt.Printf("  built by: %s\n", a.builtBy)
		},
	}
}

// mustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetStringSlice retrieves a string slice flag value or panics if the flag doesn't exist.
func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetDuration retrieves a duration flag value or panics if the flag doesn't exist.
func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
