package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/belalwws/noor-academy-sub008/internal/service"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/response"
)

// KnowledgeLabHandler exposes the knowledge lab listings.
type KnowledgeLabHandler struct {
	service *service.KnowledgeLabService
}

// NewKnowledgeLabHandler constructs a knowledge lab handler.
func NewKnowledgeLabHandler(svc *service.KnowledgeLabService) *KnowledgeLabHandler {
	return &KnowledgeLabHandler{service: svc}
}

// List godoc
// @Summary List knowledge labs
// @Tags KnowledgeLabs
// @Produce json
// @Param subject_area query string false "Filter by subject area"
// @Success 200 {object} response.Envelope
// @Router /knowledge-labs [get]
func (h *KnowledgeLabHandler) List(c *gin.Context) {
	labs, err := h.service.List(c.Request.Context(), c.Query("subject_area"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, labs, nil)
}

// Create godoc
// @Summary Create a knowledge lab
// @Tags KnowledgeLabs
// @Accept json
// @Produce json
// @Param payload body service.CreateKnowledgeLabRequest true "Lab payload"
// @Success 201 {object} response.Envelope
// @Router /knowledge-labs [post]
func (h *KnowledgeLabHandler) Create(c *gin.Context) {
	var req service.CreateKnowledgeLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lab, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lab)
}

// Delete godoc
// @Summary Delete a knowledge lab
// @Tags KnowledgeLabs
// @Produce json
// @Param id path string true "Lab ID"
// @Param subject_area query string false "Subject area view"
// @Success 204
// @Router /knowledge-labs/{id} [delete]
func (h *KnowledgeLabHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Query("subject_area"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reconcile godoc
// @Summary Force an authoritative refresh of the lab mirror
// @Tags KnowledgeLabs
// @Produce json
// @Param subject_area query string false "Filter by subject area"
// @Success 200 {object} response.Envelope
// @Router /knowledge-labs/reconcile [post]
func (h *KnowledgeLabHandler) Reconcile(c *gin.Context) {
	labs, err := h.service.Reconcile(c.Request.Context(), c.Query("subject_area"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, labs, nil)
}
