package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/belalwws/noor-academy-sub008/internal/service"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/response"
)

// BatchHandler exposes the mirrored batch list of a course.
type BatchHandler struct {
	service *service.BatchService
}

// NewBatchHandler constructs a batch handler.
func NewBatchHandler(svc *service.BatchService) *BatchHandler {
	return &BatchHandler{service: svc}
}

// List godoc
// @Summary List batches of a course
// @Tags Batches
// @Produce json
// @Param course query string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	batches, err := h.service.List(c.Request.Context(), c.Query("course"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches, nil)
}

// Create godoc
// @Summary Create a batch
// @Tags Batches
// @Accept json
// @Produce json
// @Param payload body service.CreateBatchRequest true "Batch payload"
// @Success 201 {object} response.Envelope
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req service.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	batch, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, batch)
}

// Delete godoc
// @Summary Delete a batch
// @Tags Batches
// @Produce json
// @Param id path string true "Batch ID"
// @Param course query string true "Course ID"
// @Success 204
// @Router /batches/{id} [delete]
func (h *BatchHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Query("course"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reconcile godoc
// @Summary Force an authoritative refresh of a course's batches
// @Tags Batches
// @Produce json
// @Param course query string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /batches/reconcile [post]
func (h *BatchHandler) Reconcile(c *gin.Context) {
	batches, err := h.service.Reconcile(c.Request.Context(), c.Query("course"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches, nil)
}
