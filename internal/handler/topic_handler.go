package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/belalwws/noor-academy-sub008/internal/service"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/response"
)

// TopicHandler exposes community forum topic endpoints.
type TopicHandler struct {
	service *service.TopicService
}

// NewTopicHandler constructs a topic handler.
func NewTopicHandler(svc *service.TopicService) *TopicHandler {
	return &TopicHandler{service: svc}
}

// List godoc
// @Summary List topics of a forum
// @Tags Topics
// @Produce json
// @Param forum query string true "Forum ID"
// @Success 200 {object} response.Envelope
// @Router /topics [get]
func (h *TopicHandler) List(c *gin.Context) {
	topics, err := h.service.List(c.Request.Context(), c.Query("forum"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, topics, nil)
}

// Create godoc
// @Summary Open a topic
// @Tags Topics
// @Accept json
// @Produce json
// @Param payload body service.CreateTopicRequest true "Topic payload"
// @Success 201 {object} response.Envelope
// @Router /topics [post]
func (h *TopicHandler) Create(c *gin.Context) {
	var req service.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	topic, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, topic)
}

// Delete godoc
// @Summary Delete a topic
// @Tags Topics
// @Produce json
// @Param id path string true "Topic ID"
// @Param forum query string true "Forum ID"
// @Success 204
// @Router /topics/{id} [delete]
func (h *TopicHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Query("forum"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetPinned godoc
// @Summary Pin or unpin a topic
// @Tags Topics
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param forum query string true "Forum ID"
// @Param payload body pinRequest true "Pin flag"
// @Success 200 {object} response.Envelope
// @Router /topics/{id}/pin [patch]
func (h *TopicHandler) SetPinned(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	topic, err := h.service.SetPinned(c.Request.Context(), c.Query("forum"), c.Param("id"), req.IsPinned)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, topic, nil)
}

// SetHidden godoc
// @Summary Hide or show a topic
// @Tags Topics
// @Accept json
// @Produce json
// @Param id path string true "Topic ID"
// @Param forum query string true "Forum ID"
// @Param payload body toggleRequest true "Toggle value"
// @Success 200 {object} response.Envelope
// @Router /topics/{id}/hidden [patch]
func (h *TopicHandler) SetHidden(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	topic, err := h.service.SetHidden(c.Request.Context(), c.Query("forum"), c.Param("id"), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, topic, nil)
}

// Reconcile godoc
// @Summary Force an authoritative refresh of a forum's topics
// @Tags Topics
// @Produce json
// @Param forum query string true "Forum ID"
// @Success 200 {object} response.Envelope
// @Router /topics/reconcile [post]
func (h *TopicHandler) Reconcile(c *gin.Context) {
	topics, err := h.service.Reconcile(c.Request.Context(), c.Query("forum"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, topics, nil)
}
