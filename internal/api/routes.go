// Package api assembles the HTTP surface.
package api

import (
	"net/http"

	"safecity/backend/internal/api/handler"

	"github.com/gin-gonic/gin"
)

func SetupRouter(h *handler.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Reports
	api.GET("/reports", h.ListReports)
	api.GET("/reports/stats", h.ReportStats)
	api.GET("/reports/recent", h.RecentReports)
	api.POST("/reports", h.CreateReport)

	// Tracking
	api.GET("/track", h.Track)
	api.GET("/track/:caseNumber", h.TrackByPath)

	// Report wizard
	api.POST("/wizard", h.StartWizard)
	api.GET("/wizard/:id", h.GetWizard)
	api.PATCH("/wizard/:id/draft", h.UpdateDraft)
	api.POST("/wizard/:id/next", h.NextStep)
	api.POST("/wizard/:id/back", h.PrevStep)
	api.POST("/wizard/:id/anonymous", h.ToggleAnonymous)
	api.POST("/wizard/:id/submit", h.SubmitWizard)
	api.DELETE("/wizard/:id", h.DiscardWizard)

	// Community content
	api.GET("/notices", h.ListNotices)
	api.GET("/blogs", h.ListBlogs)

	r.GET("/ws/reports", h.ServeFeed)

	return r
}
