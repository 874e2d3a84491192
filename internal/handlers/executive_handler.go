package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orientame/onboarding-api/internal/models"
	"github.com/orientame/onboarding-api/internal/services"
)

type ExecutiveHandler struct {
	service services.ExecutiveServiceInterface
}

func NewExecutiveHandler(service services.ExecutiveServiceInterface) *ExecutiveHandler {
	return &ExecutiveHandler{service: service}
}

// CreateExecutive handles the first wizard step and returns the wizard token
func (h *ExecutiveHandler) CreateExecutive(c *gin.Context) {
	var req models.CreateExecutiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", bindingDetails(err), err)
		return
	}

	resp, err := h.service.CreateExecutive(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
