package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orientame/onboarding-api/internal/middleware"
	"github.com/orientame/onboarding-api/internal/models"
	"github.com/orientame/onboarding-api/internal/onboarding"
	"github.com/orientame/onboarding-api/internal/services"
)

type CounselorFormHandler struct {
	service services.CounselorFormServiceInterface
}

func NewCounselorFormHandler(service services.CounselorFormServiceInterface) *CounselorFormHandler {
	return &CounselorFormHandler{service: service}
}

// GetCatalog lists the selectable positions and regions
func (h *CounselorFormHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Catalog())
}

// OpenForm mounts a new counselor form
func (h *CounselorFormHandler) OpenForm(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	form, err := h.service.Open(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, form)
}

// GetForm returns the current form state
func (h *CounselorFormHandler) GetForm(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	form, err := h.service.Get(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		h.respondFormError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// EditField applies a single field change
func (h *CounselorFormHandler) EditField(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req models.EditFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", bindingDetails(err), err)
		return
	}

	form, err := h.service.Edit(c.Request.Context(), session, c.Param("id"), &req)
	if err != nil {
		h.respondFormError(c, err)
		return
	}

	c.JSON(http.StatusOK, form)
}

// SubmitForm validates the form and saves the counselor. A rejected submit
// answers 422 with the per-field errors and the failure notification.
func (h *CounselorFormHandler) SubmitForm(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	result, err := h.service.Submit(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		h.respondFormError(c, err)
		return
	}

	if !result.Accepted() {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// DiscardForm handles back-navigation out of the counselor step
func (h *CounselorFormHandler) DiscardForm(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	if err := h.service.Back(c.Request.Context(), session, c.Param("id")); err != nil {
		h.respondFormError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCounselors returns the counselors saved by the session's executive
func (h *CounselorFormHandler) ListCounselors(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	counselors, err := h.service.ListCounselors(c.Request.Context(), session)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"counselors": counselors})
}

func (h *CounselorFormHandler) session(c *gin.Context) (*models.WizardSession, bool) {
	session, err := middleware.GetWizardSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return nil, false
	}
	return session, true
}

func (h *CounselorFormHandler) respondFormError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, onboarding.ErrFormNotFound):
		respondError(c, http.StatusNotFound, "Counselor form not found", err)
	case errors.Is(err, onboarding.ErrSubmitInProgress):
		respondError(c, http.StatusConflict, "Counselor form is already being submitted", err)
	case errors.Is(err, onboarding.ErrFormClosed):
		respondError(c, http.StatusGone, "Counselor form was already submitted", err)
	case errors.Is(err, onboarding.ErrUnknownField):
		respondError(c, http.StatusBadRequest, "Unknown counselor form field", err)
	case errors.Is(err, onboarding.ErrHandoffFailed):
		attachError(c, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":        "Counselor could not be saved",
			"notification": onboarding.HandoffFailedNotification(),
		})
	default:
		respondServiceError(c, err)
	}
}
