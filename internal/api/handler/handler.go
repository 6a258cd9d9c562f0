package handler

import (
	"context"
	"time"

	"safecity/backend/internal/feed"
	"safecity/backend/internal/localization"
	"safecity/backend/internal/logger"
	"safecity/backend/internal/models"
	"safecity/backend/internal/notify"
	"safecity/backend/internal/storage"
	"safecity/backend/internal/tracking"
	"safecity/backend/internal/wizard"

	"github.com/gin-gonic/gin"
)

const notifyTimeout = 10 * time.Second

// Handler holds the services the HTTP endpoints call into.
type Handler struct {
	Store     storage.Storage
	Tracker   *tracking.Tracker
	Wizards   *wizard.Sessions
	Hub       *feed.ManagerService
	Notifier  notify.Notifier
	Localizer *localization.Localizer
}

func NewHandler(
	store storage.Storage,
	wizards *wizard.Sessions,
	hub *feed.ManagerService,
	notifier notify.Notifier,
	localizer *localization.Localizer,
) *Handler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Handler{
		Store:     store,
		Tracker:   tracking.NewTracker(store),
		Wizards:   wizards,
		Hub:       hub,
		Notifier:  notifier,
		Localizer: localizer,
	}
}

// lang prefers an explicit ?lang= over Accept-Language.
func (h *Handler) lang(c *gin.Context) string {
	if h.Localizer == nil {
		return localization.DefaultLanguage
	}
	if l := c.Query("lang"); l != "" {
		return l
	}
	return h.Localizer.Negotiate(c.GetHeader("Accept-Language"))
}

func (h *Handler) text(c *gin.Context, key string) string {
	if h.Localizer == nil {
		return key
	}
	return h.Localizer.GetString(h.lang(c), key)
}

func (h *Handler) fail(c *gin.Context, status int, key string) {
	c.JSON(status, gin.H{"error": h.text(c, key), "code": key})
}

// reportCreated fans a new report out to the live feed and to dispatch.
func (h *Handler) reportCreated(report *models.Report) {
	if h.Hub != nil {
		h.Hub.ReportCreated(report)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := h.Notifier.ReportCreated(ctx, report); err != nil {
			logger.Error("dispatch notification for %s failed: %v", report.CaseNumber, err)
		}
	}()
}
