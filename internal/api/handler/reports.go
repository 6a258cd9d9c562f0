package handler

import (
	"net/http"

	"safecity/backend/internal/config"
	"safecity/backend/internal/dashboard"
	"safecity/backend/internal/logger"
	"safecity/backend/internal/models"
	"safecity/backend/internal/wizard"

	"github.com/gin-gonic/gin"
)

// ListReports returns every report, optionally narrowed by ?q=.
func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.Store.ListReports(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list reports: %v", err)
		h.fail(c, http.StatusBadGateway, "load.failed")
		return
	}

	filtered := dashboard.Filter(reports, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"reports": filtered, "count": len(filtered)})
}

// ReportStats backs the overview cards.
func (h *Handler) ReportStats(c *gin.Context) {
	reports, err := h.Store.ListReports(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list reports for stats: %v", err)
		h.fail(c, http.StatusBadGateway, "load.failed")
		return
	}

	stats := dashboard.Summarize(reports)
	c.JSON(http.StatusOK, gin.H{"stats": stats, "metrics": dashboard.Metrics(stats)})
}

func (h *Handler) RecentReports(c *gin.Context) {
	reports, err := h.Store.ListReports(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list recent reports: %v", err)
		h.fail(c, http.StatusBadGateway, "load.failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": dashboard.Recent(reports, config.RecentReportsLimit)})
}

// CreateReport files a report in one call, bypassing the wizard.
func (h *Handler) CreateReport(c *gin.Context) {
	var in models.CreateReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, http.StatusBadRequest, "request.invalid")
		return
	}

	report, err := h.Store.CreateReport(c.Request.Context(), in)
	if err != nil {
		logger.Error("Failed to create report: %v", err)
		h.fail(c, http.StatusBadGateway, "submit.failed")
		return
	}

	h.reportCreated(report)
	c.JSON(http.StatusCreated, wizard.Submission{Report: report, Redirect: wizard.TrackingURL(report.CaseNumber)})
}
