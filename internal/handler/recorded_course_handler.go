package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/belalwws/noor-academy-sub008/internal/service"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/response"
)

// RecordedCourseHandler exposes the recorded course library.
type RecordedCourseHandler struct {
	service *service.RecordedCourseService
}

// NewRecordedCourseHandler constructs a recorded course handler.
func NewRecordedCourseHandler(svc *service.RecordedCourseService) *RecordedCourseHandler {
	return &RecordedCourseHandler{service: svc}
}

// List godoc
// @Summary List recordings of a course
// @Tags RecordedCourses
// @Produce json
// @Param course query string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /recorded-courses [get]
func (h *RecordedCourseHandler) List(c *gin.Context) {
	recordings, err := h.service.List(c.Request.Context(), c.Query("course"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recordings, nil)
}

// SetHidden godoc
// @Summary Hide or show a recording
// @Tags RecordedCourses
// @Accept json
// @Produce json
// @Param id path string true "Recording ID"
// @Param course query string true "Course ID"
// @Param payload body toggleRequest true "Toggle value"
// @Success 200 {object} response.Envelope
// @Router /recorded-courses/{id}/hidden [patch]
func (h *RecordedCourseHandler) SetHidden(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	recording, err := h.service.SetHidden(c.Request.Context(), c.Query("course"), c.Param("id"), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recording, nil)
}

// Delete godoc
// @Summary Delete a recording
// @Tags RecordedCourses
// @Produce json
// @Param id path string true "Recording ID"
// @Param course query string true "Course ID"
// @Success 204
// @Router /recorded-courses/{id} [delete]
func (h *RecordedCourseHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Query("course"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reconcile godoc
// @Summary Force an authoritative refresh of a course's recordings
// @Tags RecordedCourses
// @Produce json
// @Param course query string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /recorded-courses/reconcile [post]
func (h *RecordedCourseHandler) Reconcile(c *gin.Context) {
	recordings, err := h.service.Reconcile(c.Request.Context(), c.Query("course"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recordings, nil)
}
