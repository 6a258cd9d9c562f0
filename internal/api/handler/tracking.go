package handler

import (
	"net/http"

	"safecity/backend/internal/config"
	"safecity/backend/internal/tracking"

	"github.com/gin-gonic/gin"
)

// Track serves /api/track?newCase=... (the redirect target after submitting)
// and /api/track?caseNumber=...; the lookup runs as soon as a code is present.
func (h *Handler) Track(c *gin.Context) {
	code := c.Query(config.TrackingCaseParam)
	if code == "" {
		code = c.Query("caseNumber")
	}
	h.track(c, code)
}

func (h *Handler) TrackByPath(c *gin.Context) {
	h.track(c, c.Param("caseNumber"))
}

func (h *Handler) track(c *gin.Context, code string) {
	res := h.Tracker.Lookup(c.Request.Context(), code)
	res.Localize(func(key string) string { return h.text(c, key) })

	status := http.StatusOK
	switch res.Outcome {
	case tracking.OutcomeNotFound:
		status = http.StatusNotFound
	case tracking.OutcomeError:
		status = http.StatusBadGateway
	}
	c.JSON(status, res)
}
