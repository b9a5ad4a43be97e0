package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/stationhouse/backplate/internal/server/response"
)

// readinessTimeout bounds each backing-service ping so a dead dependency
// cannot stall the probe.
const readinessTimeout = 2 * time.Second

// HandleHealthz handles GET /healthz.
// @Summary Health check
// @Description Health check endpoint (liveness probe)
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /healthz [get].
func (h *Handlers) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":     "healthy",
		"service":    h.config.Title,
		"version":    h.config.Version,
		"go_version": runtime.Version(),
		"uptime_s":   int64(time.Since(h.startTime).Seconds()),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadyz handles GET /readyz. Readiness is the conjunction of every
// enabled backing service answering a ping; disabled services do not count
// against it.
// @Summary Readiness check
// @Description Readiness check including database and cache status
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 503 {object} response.Response{data=object}
// @Router /readyz [get].
func (h *Handlers) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	dbEnabled := h.store != nil
	dbReady := !dbEnabled || h.store.Ping(ctx) == nil

	cacheEnabled := h.cache != nil
	cacheReady := !cacheEnabled || h.cache.Ping(ctx) == nil

	ready := dbReady && cacheReady

	payload := map[string]any{
		"ready": ready,
		"db": map[string]any{
			"enabled": dbEnabled,
			"ready":   dbReady,
		},
		"cache": map[string]any{
			"enabled": cacheEnabled,
			"ready":   cacheReady,
		},
	}

	if !ready {
		response.JSON(w, http.StatusServiceUnavailable, response.Success(payload))
		return
	}
	response.OK(w, payload)
}
