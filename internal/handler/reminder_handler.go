package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/belalwws/noor-academy-sub008/internal/service"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/response"
)

// ReminderHandler exposes the per-user reminder preference blob.
type ReminderHandler struct {
	service *service.ReminderService
}

// NewReminderHandler constructs a reminder handler.
func NewReminderHandler(svc *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{service: svc}
}

// Get godoc
// @Summary Read a user's reminder settings
// @Tags Reminders
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/reminder-settings [get]
func (h *ReminderHandler) Get(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Update godoc
// @Summary Replace a user's reminder settings
// @Tags Reminders
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body service.UpdateReminderRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/reminder-settings [put]
func (h *ReminderHandler) Update(c *gin.Context) {
	var req service.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}
