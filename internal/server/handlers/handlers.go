// Package handlers provides HTTP request handlers for the Backplate API.
package handlers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/stationhouse/backplate/internal/storage"
)

// LogStore is the subset of the Postgres store the handlers use.
type LogStore interface {
	Ping(ctx context.Context) error
	QueryLogs(ctx context.Context, query storage.LogQuery) (storage.LogPage, error)
	LogStatsSummary(ctx context.Context) (storage.LogStats, error)
	LogComponents(ctx context.Context) ([]string, error)
}

// KeyValueCache is the subset of the cache service the handlers use.
type KeyValueCache interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Config carries the handler-facing subset of the server configuration.
type Config struct {
	Title   string
	Version string

	ReadmePath        string
	SwaggerJSURL      string
	SwaggerCSSURL     string
	RedocJSURL        string
	SchemaURL         string
	OAuth2RedirectURL string
}

// Handlers provides access to all HTTP handlers. The store and cache are nil
// when the corresponding service is disabled.
type Handlers struct {
	config    Config
	store     LogStore
	cache     KeyValueCache
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance.
func New(
	cfg Config,
	store LogStore,
	cacheSvc KeyValueCache,
	logger *zerolog.Logger,
	startTime time.Time,
) *Handlers {
	return &Handlers{
		config:    cfg,
		store:     store,
		cache:     cacheSvc,
		logger:    logger,
		startTime: startTime,
	}
}
