// Package cache provides the optional Redis-backed cache service for
// backplate. Like the database, it is config-gated: when disabled the server
// runs without it and readiness reports cache_ready=false.
package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stationhouse/backplate/pkg/errors"
	"github.com/stationhouse/backplate/pkg/logging"
)

// Config holds Redis connection settings.
type Config struct {
	// URL is a redis:// connection URL.
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns connection settings suitable for the template.
func DefaultConfig(url string) Config {
	return Config{
		URL:          url,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Service wraps a Redis client with the template's logging convention.
type Service struct {
	client *redis.Client
	log    zerolog.Logger
}

// New connects to Redis and verifies connectivity with a ping.
func New(ctx context.Context, cfg Config, logger *zerolog.Logger) (*Service, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	cacheLog := logging.Component(logger, "cache")
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		cacheLog.Error().Err(err).Msg(logging.Fail + " ping failed")
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	cacheLog.Info().Bool("ready", true).Msg(logging.OK + " connected")
	return &Service{client: client, log: cacheLog}, nil
}

// Ping verifies the cache is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("cache service not initialized")
	}
	return s.client.Ping(ctx).Err()
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", errors.NewNotFoundError("key", key)
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return val, nil
}

// Set stores value under key with the given TTL (zero means no expiry).
func (s *Service) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Close releases the client.
func (s *Service) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	err := s.client.Close()
	if err == nil {
		s.log.Info().Msg(logging.OK + " closed")
	}
	return err
}
