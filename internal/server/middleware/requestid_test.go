package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stationhouse/backplate/pkg/logging"
)

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	var captured string
	handler := requestIDWithGenerator(func() string { return "generated-id" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = logging.RequestID(r.Context())
		}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "generated-id", captured)
	assert.Equal(t, "generated-id", w.Header().Get(RequestIDHeader))
}

func TestRequestIDHonorsIncomingHeader(t *testing.T) {
	var captured string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = logging.RequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "client-id")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "client-id", captured)
	assert.Equal(t, "client-id", w.Header().Get(RequestIDHeader))
}

func TestRequestIDRandomness(t *testing.T) {
	assert.NotEqual(t, newRequestID(), newRequestID())
	assert.Len(t, newRequestID(), 32)
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(SecurityConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
}

func TestSecurityHeadersOverride(t *testing.T) {
	handler := SecurityHeaders(SecurityConfig{FrameOptions: "SAMEORIGIN"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
