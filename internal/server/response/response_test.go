package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationhouse/backplate/pkg/errors"
)

func decode(t *testing.T, body []byte) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestOK(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]any{"message": "hello"})

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	resp := decode(t, w.Body.Bytes())
	assert.Nil(t, resp.Error)
	assert.Equal(t, "hello", resp.Data.(map[string]any)["message"])
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w *httptest.ResponseRecorder)
		status   int
		code     string
	}{
		{"bad request", func(w *httptest.ResponseRecorder) { BadRequest(w, "bad", "detail") }, 400, "BAD_REQUEST"},
		{"unauthorized", func(w *httptest.ResponseRecorder) { Unauthorized(w, "nope", "") }, 401, "UNAUTHORIZED"},
		{"not found", func(w *httptest.ResponseRecorder) { NotFound(w, "missing", "") }, 404, "NOT_FOUND"},
		{"method not allowed", func(w *httptest.ResponseRecorder) { MethodNotAllowed(w, "PATCH") }, 405, "METHOD_NOT_ALLOWED"},
		{"rate limited", func(w *httptest.ResponseRecorder) { RateLimited(w, "slow down") }, 429, "RATE_LIMITED"},
		{"internal", func(w *httptest.ResponseRecorder) { InternalError(w, assert.AnError) }, 500, "INTERNAL_ERROR"},
		{"unavailable", func(w *httptest.ResponseRecorder) { ServiceUnavailable(w, "db down") }, 503, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w.Body.Bytes())
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	InternalError(w, errors.New("secret database password leaked"))

	assert.NotContains(t, w.Body.String(), "secret")
}

func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", errors.NewNotFoundError("README", "README.md"), 404},
		{"validation", errors.NewValidationError("page", "must be positive"), 400},
		{"service", errors.NewServiceError("cache", "disabled", nil), 503},
		{"unknown", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
