package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stationhouse/backplate/pkg/logging"
)

func authHandler(cfg AuthConfig, t *testing.T) http.Handler {
	t.Helper()
	return Auth(cfg, logging.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthDisabledAllowsAll(t *testing.T) {
	cfg := DefaultAuthConfig()
	handler := authHandler(cfg, t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/logs", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsMissingKey(t *testing.T) {
	cfg := DefaultAuthConfig()
	cfg.Enabled = true
	cfg.APIKey = "secret"
	handler := authHandler(cfg, t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/logs", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthAcceptsHeaderKey(t *testing.T) {
	cfg := DefaultAuthConfig()
	cfg.Enabled = true
	cfg.APIKey = "secret"
	handler := authHandler(cfg, t)

	req := httptest.NewRequest("GET", "/logs", nil)
	req.Header.Set("X-API-Key", "secret")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	cfg := DefaultAuthConfig()
	cfg.Enabled = true
	cfg.APIKey = "secret"
	handler := authHandler(cfg, t)

	req := httptest.NewRequest("GET", "/logs", nil)
	req.Header.Set("Authorization", "Bearer secret")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsWrongKey(t *testing.T) {
	cfg := DefaultAuthConfig()
	cfg.Enabled = true
	cfg.APIKey = "secret"
	handler := authHandler(cfg, t)

	req := httptest.NewRequest("GET", "/logs", nil)
	req.Header.Set("X-API-Key", "wrong")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthPublicPaths(t *testing.T) {
	cfg := DefaultAuthConfig()
	cfg.Enabled = true
	cfg.APIKey = "secret"
	handler := authHandler(cfg, t)

	public := []string{
		"/docs",
		"/docs/oauth2-redirect",
		"/redoc",
		"/README",
		"/healthz",
		"/readyz",
		"/openapi.json",
		"/static/swagger-ui.css",
	}

	for _, path := range public {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
			assert.Equal(t, http.StatusOK, w.Code, "expected %s to be public", path)
		})
	}
}
