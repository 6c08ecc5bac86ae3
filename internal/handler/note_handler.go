package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/belalwws/noor-academy-sub008/internal/service"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/response"
)

// NoteHandler exposes group announcement endpoints.
type NoteHandler struct {
	service *service.NoteService
}

// NewNoteHandler constructs a note handler.
func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{service: svc}
}

type pinRequest struct {
	IsPinned bool `json:"is_pinned"`
}

// List godoc
// @Summary List announcements of a group
// @Tags Notes
// @Produce json
// @Param group query string true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.service.List(c.Request.Context(), c.Query("group"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes, nil)
}

// Create godoc
// @Summary Post an announcement
// @Tags Notes
// @Accept json
// @Produce json
// @Param payload body service.CreateNoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Router /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var req service.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	note, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}

// Delete godoc
// @Summary Delete an announcement
// @Tags Notes
// @Produce json
// @Param id path string true "Note ID"
// @Param group query string true "Group ID"
// @Success 204
// @Router /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Query("group"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetPinned godoc
// @Summary Pin or unpin an announcement
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param group query string true "Group ID"
// @Param payload body pinRequest true "Pin flag"
// @Success 200 {object} response.Envelope
// @Router /notes/{id}/pin [patch]
func (h *NoteHandler) SetPinned(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	note, err := h.service.SetPinned(c.Request.Context(), c.Query("group"), c.Param("id"), req.IsPinned)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, note, nil)
}

// Reconcile godoc
// @Summary Force an authoritative refresh of a group's announcements
// @Tags Notes
// @Produce json
// @Param group query string true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /notes/reconcile [post]
func (h *NoteHandler) Reconcile(c *gin.Context) {
	notes, err := h.service.Reconcile(c.Request.Context(), c.Query("group"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes, nil)
}
