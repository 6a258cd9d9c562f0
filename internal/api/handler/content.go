package handler

import (
	"net/http"

	"safecity/backend/internal/logger"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListNotices(c *gin.Context) {
	notices, err := h.Store.ListNotices(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list notices: %v", err)
		h.fail(c, http.StatusBadGateway, "load.failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notices": notices})
}

func (h *Handler) ListBlogs(c *gin.Context) {
	blogs, err := h.Store.ListBlogs(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list blogs: %v", err)
		h.fail(c, http.StatusBadGateway, "load.failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs})
}
