package handler

import (
	"errors"
	"net/http"

	"safecity/backend/internal/logger"
	"safecity/backend/internal/wizard"

	"github.com/gin-gonic/gin"
)

func (h *Handler) StartWizard(c *gin.Context) {
	id, view := h.Wizards.Start()
	c.JSON(http.StatusCreated, gin.H{"id": id, "wizard": view})
}

func (h *Handler) GetWizard(c *gin.Context) {
	view, err := h.Wizards.View(c.Param("id"))
	h.respondWizard(c, view, err)
}

func (h *Handler) UpdateDraft(c *gin.Context) {
	var patch wizard.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.fail(c, http.StatusBadRequest, "request.invalid")
		return
	}
	view, err := h.Wizards.Do(c.Param("id"), func(w *wizard.Wizard) { w.Update(patch) })
	h.respondWizard(c, view, err)
}

func (h *Handler) NextStep(c *gin.Context) {
	view, err := h.Wizards.Do(c.Param("id"), func(w *wizard.Wizard) { w.Next() })
	h.respondWizard(c, view, err)
}

func (h *Handler) PrevStep(c *gin.Context) {
	view, err := h.Wizards.Do(c.Param("id"), func(w *wizard.Wizard) { w.Back() })
	h.respondWizard(c, view, err)
}

func (h *Handler) ToggleAnonymous(c *gin.Context) {
	view, err := h.Wizards.Do(c.Param("id"), func(w *wizard.Wizard) { w.ToggleAnonymous() })
	h.respondWizard(c, view, err)
}

// SubmitWizard creates the report. On failure the session stays on the review
// step and the response carries the wizard so the client can offer a retry.
func (h *Handler) SubmitWizard(c *gin.Context) {
	sub, view, err := h.Wizards.Submit(c.Request.Context(), c.Param("id"), h.Store)
	switch {
	case err == nil:
		h.reportCreated(sub.Report)
		c.JSON(http.StatusCreated, sub)
	case errors.Is(err, wizard.ErrSessionNotFound):
		h.fail(c, http.StatusNotFound, "wizard.not_found")
	case errors.Is(err, wizard.ErrNotAtReview):
		c.JSON(http.StatusConflict, gin.H{"error": h.text(c, "submit.not_review"), "code": "submit.not_review", "wizard": view})
	case errors.Is(err, wizard.ErrSubmitInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": h.text(c, "submit.in_progress"), "code": "submit.in_progress", "wizard": view})
	default:
		logger.Error("wizard %s submit failed: %v", c.Param("id"), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": h.text(c, "submit.failed"), "code": "submit.failed", "wizard": view})
	}
}

func (h *Handler) DiscardWizard(c *gin.Context) {
	h.Wizards.Discard(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) respondWizard(c *gin.Context, view wizard.View, err error) {
	if errors.Is(err, wizard.ErrSessionNotFound) {
		h.fail(c, http.StatusNotFound, "wizard.not_found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"wizard": view})
}
