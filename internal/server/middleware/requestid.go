package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stationhouse/backplate/pkg/logging"
)

// RequestIDHeader is the header used to propagate request IDs.
const RequestIDHeader = "X-Request-Id"

// idGenerator produces request IDs; swapped out in tests.
type idGenerator func() string

// RequestID attaches a request ID to each request. An incoming X-Request-Id
// header is honored; otherwise a random ID is generated. The ID is stored in
// the request context (and the context logger) and echoed in the response.
func RequestID() func(http.Handler) http.Handler {
	return requestIDWithGenerator(newRequestID)
}

func requestIDWithGenerator(generator idGenerator) func(http.Handler) http.Handler {
	if generator == nil {
		generator = newRequestID
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if requestID == "" {
				requestID = generator()
			}

			ctx := logging.WithRequestID(r.Context(), requestID)
			w.Header().Set(RequestIDHeader, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRequestID() string {
	var buffer [16]byte
	if _, err := rand.Read(buffer[:]); err == nil {
		return hex.EncodeToString(buffer[:])
	}
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
