package server

import (
	"net/http"
	"strings"

	"github.com/stationhouse/backplate/internal/server/handlers"
	"github.com/stationhouse/backplate/internal/server/middleware"
	"github.com/stationhouse/backplate/internal/server/response"
)

// oauth2RedirectPath is where the Swagger UI popup returns after an OAuth2
// authorization flow.
const oauth2RedirectPath = "/docs/oauth2-redirect"

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	// A disabled service must stay a nil interface, not a typed nil pointer,
	// so the handlers' nil checks keep working.
	var store handlers.LogStore
	if s.store != nil {
		store = s.store
	}
	var cacheSvc handlers.KeyValueCache
	if s.cache != nil {
		cacheSvc = s.cache
	}

	h := handlers.New(
		handlers.Config{
			Title:             s.config.Title,
			Version:           s.config.Version,
			ReadmePath:        s.config.ReadmePath,
			SwaggerJSURL:      s.config.SwaggerJSURL,
			SwaggerCSSURL:     s.config.SwaggerCSSURL,
			RedocJSURL:        s.config.RedocJSURL,
			SchemaURL:         s.config.SchemaURL,
			OAuth2RedirectURL: oauth2RedirectPath,
		},
		store,
		cacheSvc,
		s.logger,
		s.startTime,
	)

	var metrics *middleware.Metrics
	if s.config.MetricsEnabled {
		metrics = middleware.NewMetrics("backplate", s.config.Version)
	}

	s.registerRoutes(mux, h, metrics)

	return s.applyMiddleware(mux, metrics)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers, metrics *middleware.Metrics) {
	// Root redirects to the interactive documentation. The pattern "/" also
	// catches every unregistered path, so anything else is a 404.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			response.NotFound(w, "Not found", r.URL.Path)
			return
		}
		http.Redirect(w, r, "/docs", http.StatusTemporaryRedirect)
	})

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Documentation pages
	mux.HandleFunc("/docs", onlyGet(h.HandleDocs))
	mux.HandleFunc(oauth2RedirectPath, onlyGet(h.HandleOAuth2Redirect))
	mux.HandleFunc("/redoc", onlyGet(h.HandleRedoc))
	mux.HandleFunc("/README", onlyGet(h.HandleReadme))

	// Static assets served byte-for-byte from disk
	mux.Handle("/static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir(s.config.StaticDir))))

	// Health endpoints
	mux.HandleFunc("/healthz", onlyGet(h.HandleHealthz))
	mux.HandleFunc("/readyz", onlyGet(h.HandleReadyz))

	// OpenAPI specification endpoints
	mux.HandleFunc("/openapi.json", onlyGet(h.HandleOpenAPIJSON))
	mux.HandleFunc("/openapi.yaml", onlyGet(h.HandleOpenAPIYAML))

	// Example endpoints
	mux.HandleFunc("/example", onlyGet(h.HandleExample))
	mux.HandleFunc("/example/kv/", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/example/kv/")
		if key == "" || strings.Contains(key, "/") {
			response.NotFound(w, "Not found", r.URL.Path)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.HandleKVGet(w, r, key)
		case http.MethodPut:
			h.HandleKVPut(w, r, key)
		default:
			response.MethodNotAllowed(w, r.Method)
		}
	})

	// Log store endpoints
	mux.HandleFunc("/logs", onlyGet(h.HandleLogs))
	mux.HandleFunc("/logs/stats", onlyGet(h.HandleLogStats))
	mux.HandleFunc("/logs/components", onlyGet(h.HandleLogComponents))

	// Prometheus metrics endpoint (optional)
	if metrics != nil {
		mux.Handle("/metrics", metrics.Handler())
	}
}

// applyMiddleware wraps handler with the middleware chain. Wrapping is
// innermost first, so recovery ends up outermost.
func (s *Server) applyMiddleware(handler http.Handler, metrics *middleware.Metrics) http.Handler {
	cfg := s.config

	// Request instrumentation (if enabled)
	if metrics != nil {
		handler = metrics.Middleware()(handler)
	}

	// Rate limiting (if enabled)
	if cfg.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, s.logger)
		handler = middleware.RateLimit(rateLimiter)(handler)
	}

	// Authentication (if enabled)
	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.HeaderName = cfg.AuthHeader
		authConfig.APIKey = cfg.AuthAPIKey
		handler = middleware.Auth(authConfig, s.logger)(handler)
	}

	// CORS (if enabled)
	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Logging, security headers, request ID, recovery (always enabled)
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.SecurityHeaders(middleware.DefaultSecurityConfig())(handler)
	handler = middleware.RequestID()(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

// onlyGet guards a handler against non-GET methods.
func onlyGet(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		next(w, r)
	}
}
