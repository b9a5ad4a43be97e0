package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stationhouse/backplate/internal/server/response"
	"github.com/stationhouse/backplate/pkg/errors"
)

// kvRequest is the body of PUT /example/kv/{key}.
type kvRequest struct {
	Value      string `json:"value"`
	TTLSeconds int    `json:"ttl_seconds"`
}

// HandleExample handles GET /example.
// @Summary Example greeting
// @Description Minimal endpoint demonstrating the response envelope
// @Tags example
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /example [get].
func (h *Handlers) HandleExample(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"message": "Hello from " + h.config.Title,
		"version": h.config.Version,
	})
}

// HandleKVGet handles GET /example/kv/{key}.
// @Summary Read a cached value
// @Tags example
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 404 {object} response.Response{error=response.Error}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /example/kv/{key} [get].
func (h *Handlers) HandleKVGet(w http.ResponseWriter, r *http.Request, key string) {
	if h.cache == nil {
		response.ServiceUnavailable(w, "Cache service is disabled")
		return
	}

	value, err := h.cache.Get(r.Context(), key)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, map[string]any{
		"key":   key,
		"value": value,
	})
}

// HandleKVPut handles PUT /example/kv/{key}.
// @Summary Store a value in the cache
// @Tags example
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /example/kv/{key} [put].
func (h *Handlers) HandleKVPut(w http.ResponseWriter, r *http.Request, key string) {
	if h.cache == nil {
		response.ServiceUnavailable(w, "Cache service is disabled")
		return
	}

	var body kvRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	if body.Value == "" {
		response.ErrorFromType(w, errors.NewValidationError("value", "must not be empty"))
		return
	}
	if body.TTLSeconds < 0 {
		response.ErrorFromType(w, errors.NewValidationError("ttl_seconds", "must not be negative"))
		return
	}

	ttl := time.Duration(body.TTLSeconds) * time.Second
	if err := h.cache.Set(r.Context(), key, body.Value, ttl); err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, map[string]any{
		"key":    key,
		"stored": true,
	})
}
