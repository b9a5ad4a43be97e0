package handlers

import (
	"bytes"
	"net/http"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/stationhouse/backplate/internal/server/response"
	"github.com/stationhouse/backplate/pkg/logging"
)

// markdown is the renderer used for the README page. GFM matches how the
// file displays on the repository host.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// HandleReadme serves the project README rendered as HTML.
// @Summary Rendered project README
// @Description Reads the markdown source from disk and converts it to HTML
// @Tags meta
// @Produce html
// @Success 200 {string} string "Rendered README"
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /README [get].
func (h *Handlers) HandleReadme(w http.ResponseWriter, _ *http.Request) {
	source, err := os.ReadFile(h.config.ReadmePath)
	if err != nil {
		if os.IsNotExist(err) {
			response.NotFound(w, "README.md file not found", "")
			return
		}
		response.InternalError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := markdown.Convert(source, &buf); err != nil {
		log := logging.Component(h.logger, "readme")
		log.Error().Err(err).Str("path", h.config.ReadmePath).Msg(logging.Fail + " markdown conversion failed")
		response.InternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
