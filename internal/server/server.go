// Package server provides the HTTP server implementation for the Backplate API.
package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/stationhouse/backplate/internal/cache"
	"github.com/stationhouse/backplate/internal/storage"
	"github.com/stationhouse/backplate/pkg/logging"
)

// Server holds the HTTP server state and dependencies. The store and cache
// are nil when the corresponding backing service is disabled.
type Server struct {
	config    Config
	logger    *zerolog.Logger
	store     *storage.Store
	cache     *cache.Service
	startTime time.Time
}

// Option configures optional server dependencies.
type Option func(*Server)

// WithStore attaches the Postgres store. A nil store means the database
// service is disabled and its endpoints answer 503.
func WithStore(store *storage.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithCache attaches the Redis cache service. A nil cache means the cache
// service is disabled and its endpoints answer 503.
func WithCache(svc *cache.Service) Option {
	return func(s *Server) {
		s.cache = svc
	}
}

// New creates a new server instance with the given configuration.
func New(cfg Config, logger *zerolog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = logging.Default()
	}

	server := &Server{
		config:    cfg,
		logger:    logger,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(server)
	}

	log := logging.Component(logger, "server")
	log.Debug().
		Bool("db", server.store != nil).
		Bool("cache", server.cache != nil).
		Msg("server instance created")

	return server
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
