package handlers

import (
	"net/http"
	"strconv"

	"github.com/stationhouse/backplate/internal/server/response"
	"github.com/stationhouse/backplate/internal/storage"
	"github.com/stationhouse/backplate/pkg/errors"
)

func newQueryError(param, raw string) error {
	return errors.NewValidationError(param, "not a valid integer: "+raw)
}

// respondStoreError maps a log store failure to a response. Anything that is
// not a validation error means the database is unreachable, which the log
// endpoints report as 503.
func respondStoreError(w http.ResponseWriter, err error) {
	if errors.IsValidation(err) {
		response.ErrorFromType(w, err)
		return
	}
	response.ServiceUnavailable(w, "Database service is unavailable")
}

// HandleLogs handles GET /logs.
// @Summary List stored log records
// @Description Paginated log records with optional level, component, and keyword filters
// @Tags monitoring
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Records per page" default(50)
// @Param level query string false "Filter by level"
// @Param component query string false "Filter by component tag"
// @Param search query string false "Keyword search in messages"
// @Success 200 {object} response.Response{data=storage.LogPage}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /logs [get].
func (h *Handlers) HandleLogs(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		response.ServiceUnavailable(w, "Database service is disabled")
		return
	}

	query, err := parseLogQuery(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	page, err := h.store.QueryLogs(r.Context(), query)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	response.OK(w, page)
}

// HandleLogStats handles GET /logs/stats.
// @Summary Log record statistics
// @Description Record counts by level, total count, and latest timestamp
// @Tags monitoring
// @Produce json
// @Success 200 {object} response.Response{data=storage.LogStats}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /logs/stats [get].
func (h *Handlers) HandleLogStats(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		response.ServiceUnavailable(w, "Database service is disabled")
		return
	}

	stats, err := h.store.LogStatsSummary(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	response.OK(w, stats)
}

// HandleLogComponents handles GET /logs/components.
// @Summary Distinct component tags
// @Tags monitoring
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /logs/components [get].
func (h *Handlers) HandleLogComponents(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		response.ServiceUnavailable(w, "Database service is disabled")
		return
	}

	components, err := h.store.LogComponents(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"components": components,
	})
}

// parseLogQuery builds a storage.LogQuery from request query parameters.
// Validation of ranges happens in Normalize so the rules live in one place.
func parseLogQuery(r *http.Request) (storage.LogQuery, error) {
	q := r.URL.Query()

	query := storage.LogQuery{
		Level:     q.Get("level"),
		Component: q.Get("component"),
		Search:    q.Get("search"),
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return storage.LogQuery{}, newQueryError("page", raw)
		}
		query.Page = page
	}
	if raw := q.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return storage.LogQuery{}, newQueryError("page_size", raw)
		}
		query.PageSize = size
	}

	return query.Normalize()
}
