// Package middleware provides HTTP middleware for the backplate server.
// It includes request ID propagation, structured request logging, panic
// recovery, security headers, CORS, authentication, and rate limiting.
package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/stationhouse/backplate/pkg/logging"
)

// Chain combines multiple middleware functions into a single middleware.
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Logger logs HTTP requests following the project logging convention:
// a [▶] start line when the request arrives and a [✔] done line on
// completion, both tagged component=http and carrying rid, method, path,
// status, latency and size fields. 4xx responses log at warn, 5xx at error.
func Logger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	httpLog := logging.Component(logger, "http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rid := logging.RequestID(r.Context())

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			httpLog.Info().
				Str("rid", rid).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("ip", r.RemoteAddr).
				Str("ua", r.UserAgent()).
				Msg(logging.Start + " start")

			next.ServeHTTP(wrapped, r)

			latency := time.Since(start)
			event := httpLog.Info()
			marker := logging.OK
			switch {
			case wrapped.statusCode >= 500:
				event = httpLog.Error()
				marker = logging.Fail
			case wrapped.statusCode >= 400:
				event = httpLog.Warn()
			}

			event.
				Str("rid", rid).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapped.statusCode).
				Dur("latency_ms", latency).
				Int("size", wrapped.written).
				Msg(marker + " done")
		})
	}
}

// Recovery recovers from panics and returns a 500 JSON envelope.
func Recovery(logger *zerolog.Logger) func(http.Handler) http.Handler {
	httpLog := logging.Component(logger, "http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					httpLog.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg(logging.Fail + " panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					// Write error response; if this fails, connection is likely broken
					if _, writeErr := w.Write([]byte(`{"data":null,"error":{"code":"INTERNAL_ERROR","message":"Internal server error","details":"An unexpected error occurred"}}`)); writeErr != nil {
						httpLog.Error().Err(writeErr).Msg("Failed to write panic recovery error response")
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and size.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}
