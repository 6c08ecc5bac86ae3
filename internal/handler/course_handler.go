package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/belalwws/noor-academy-sub008/internal/service"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/response"
)

// CourseHandler exposes course listing and moderation endpoints.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type toggleRequest struct {
	Value bool `json:"value"`
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param teacher query string false "Scope to one teacher"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context(), c.Query("teacher"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Create godoc
// @Summary Submit a course draft
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// SetStatus godoc
// @Summary Approve or reject a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param teacher query string false "Scope to one teacher"
// @Param payload body statusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/status [patch]
func (h *CourseHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.service.SetStatus(c.Request.Context(), c.Query("teacher"), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// SetAcceptingApplications godoc
// @Summary Open or close applications for a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body toggleRequest true "Toggle value"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/accepting-applications [patch]
func (h *CourseHandler) SetAcceptingApplications(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.service.SetAcceptingApplications(c.Request.Context(), c.Query("teacher"), c.Param("id"), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// SetHidden godoc
// @Summary Hide or show a course listing
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body toggleRequest true "Toggle value"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/hidden [patch]
func (h *CourseHandler) SetHidden(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.service.SetHidden(c.Request.Context(), c.Query("teacher"), c.Param("id"), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Reconcile godoc
// @Summary Force an authoritative refresh of the course mirror
// @Tags Courses
// @Produce json
// @Param teacher query string false "Scope to one teacher"
// @Success 200 {object} response.Envelope
// @Router /courses/reconcile [post]
func (h *CourseHandler) Reconcile(c *gin.Context) {
	courses, err := h.service.Reconcile(c.Request.Context(), c.Query("teacher"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}
