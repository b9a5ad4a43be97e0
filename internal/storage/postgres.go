// Package storage provides the optional Postgres-backed store for backplate.
// The store is entirely config-gated: when the database is disabled the server
// runs without it and the readiness probe reports db_ready=false.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/stationhouse/backplate/pkg/logging"
)

// Config holds Postgres connection settings.
type Config struct {
	DSN             string
	MaxConnections  int32
	MinConnections  int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
	ApplicationName string
}

// DefaultConfig returns pool settings suitable for the starter template.
func DefaultConfig(dsn string) Config {
	return Config{
		DSN:             dsn,
		MaxConnections:  8,
		MinConnections:  0,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		ConnectTimeout:  5 * time.Second,
		ApplicationName: "backplate",
	}
}

// Store is a pgxpool-backed Postgres store.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// New opens a Postgres store and verifies connectivity with a ping.
func New(ctx context.Context, cfg Config, logger *zerolog.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("postgres dsn required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = cfg.MaxConnections
	}
	if cfg.MinConnections >= 0 {
		poolCfg.MinConns = cfg.MinConnections
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.ApplicationName != "" {
		if poolCfg.ConnConfig.RuntimeParams == nil {
			poolCfg.ConnConfig.RuntimeParams = make(map[string]string)
		}
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}

	dbLog := logging.Component(logger, "db")

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	store := &Store{pool: pool, log: dbLog}

	if err := store.Ping(ctx); err != nil {
		pool.Close()
		dbLog.Error().Err(err).Msg(logging.Fail + " ping failed")
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	dbLog.Info().Bool("ready", true).Msg(logging.OK + " connected")
	return store, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("postgres store not initialized")
	}
	return s.pool.Ping(ctx)
}

// Close releases the connection pool, honoring the context deadline.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.pool == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		s.pool.Close()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		s.log.Info().Msg(logging.OK + " closed")
		return nil
	}
}

// Migrate applies the schema the starter template needs. Safe to call on
// every startup.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS log_records (
    id BIGSERIAL PRIMARY KEY,
    ts TIMESTAMPTZ NOT NULL DEFAULT now(),
    level TEXT NOT NULL,
    component TEXT NOT NULL DEFAULT '',
    message TEXT NOT NULL,
    request_id TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS log_records_ts_idx ON log_records (ts DESC);
CREATE INDEX IF NOT EXISTS log_records_level_idx ON log_records (level);
`)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	s.log.Info().Msg(logging.OK + " migrations applied")
	return nil
}
