package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stationhouse/backplate/pkg/logging"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled     bool
	APIKey      string
	HeaderName  string
	PublicPaths []string
}

// DefaultAuthConfig returns default authentication configuration.
// Documentation pages, the rendered README, static assets, health probes,
// and the schema stay public so the explorer keeps working when auth is on.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		Enabled:    false,
		APIKey:     os.Getenv("API_KEY"),
		HeaderName: "X-API-Key",
		PublicPaths: []string{
			"/",
			"/docs",
			"/docs/oauth2-redirect",
			"/redoc",
			"/README",
			"/healthz",
			"/readyz",
			"/openapi.json",
			"/openapi.yaml",
		},
	}
}

// Auth middleware validates API keys for protected endpoints. Both the
// configured header and "Authorization: Bearer <key>" are accepted.
func Auth(config AuthConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	authLog := logging.Component(logger, "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			if isPublicPath(r.URL.Path, config.PublicPaths) {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := extractAPIKey(r, config)

			if apiKey == "" || apiKey != config.APIKey {
				authLog.Warn().
					Str("path", r.URL.Path).
					Str("ip", r.RemoteAddr).
					Bool("key_provided", apiKey != "").
					Msg(logging.Fail + " authentication failed")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"data":null,"error":{"code":"UNAUTHORIZED","message":"Invalid or missing API key","details":"Provide a valid API key in the ` + config.HeaderName + ` header"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isPublicPath checks if a path is public. Static assets are matched by
// prefix; everything else exactly.
func isPublicPath(path string, publicPaths []string) bool {
	if strings.HasPrefix(path, "/static/") {
		return true
	}
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// extractAPIKey extracts the API key from the request.
func extractAPIKey(r *http.Request, config AuthConfig) string {
	// Try custom header first (X-API-Key)
	apiKey := r.Header.Get(config.HeaderName)
	if apiKey != "" {
		return apiKey
	}

	// Try Authorization header
	auth := r.Header.Get("Authorization")
	if auth != "" {
		// Support both "Bearer <key>" and raw key
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer ")
		}
		return auth
	}

	return ""
}
