package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stationhouse/backplate/pkg/logging"
)

// TestChain verifies first added is outermost middleware.
func TestChainExecutionOrder(t *testing.T) {
	var executionLog []string

	m1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			executionLog = append(executionLog, "start-1")
			next.ServeHTTP(w, r)
			executionLog = append(executionLog, "end-1")
		})
	}

	m2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			executionLog = append(executionLog, "start-2")
			next.ServeHTTP(w, r)
			executionLog = append(executionLog, "end-2")
		})
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		executionLog = append(executionLog, "handler")
		w.WriteHeader(http.StatusOK)
	})

	chained := Chain(m1, m2)(handler)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	chained.ServeHTTP(w, req)

	assert.Equal(t, []string{"start-1", "start-2", "handler", "end-2", "end-1"}, executionLog)
}

func TestLoggerEmitsStartAndDone(t *testing.T) {
	tl := logging.NewTestLogger(t)

	handler := Logger(tl.Logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))

	req := httptest.NewRequest("GET", "/README", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Contains(t, tl.Output(), logging.Start+" start")
	assert.Contains(t, tl.Output(), logging.OK+" done")
	assert.Contains(t, tl.Output(), `"component":"http"`)
	assert.Contains(t, tl.Output(), `"path":"/README"`)
	assert.Contains(t, tl.Output(), `"status":200`)
	assert.Contains(t, tl.Output(), `"size":5`)
}

func TestLoggerEscalatesLevelOnErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{"success stays info", 200, `"level":"info"`},
		{"client error warns", 404, `"level":"warn"`},
		{"server error logs error", 500, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := logging.NewTestLogger(t)

			handler := Logger(tl.Logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			req := httptest.NewRequest("GET", "/x", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			lines := tl.Lines()
			assert.Len(t, lines, 2)
			assert.Contains(t, lines[1], tt.level)
		})
	}
}

func TestRecovery(t *testing.T) {
	tl := logging.NewTestLogger(t)

	handler := Recovery(tl.Logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Contains(t, tl.Output(), logging.Fail+" panic recovered")
}

func TestRecoveryPassesThrough(t *testing.T) {
	tl := logging.NewTestLogger(t)

	handler := Recovery(tl.Logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Empty(t, tl.Output())
}
