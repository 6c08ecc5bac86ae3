package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/belalwws/noor-academy-sub008/internal/models"
	"github.com/belalwws/noor-academy-sub008/internal/session"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
	"github.com/belalwws/noor-academy-sub008/pkg/response"
)

// SessionHandler bootstraps and tears down the gateway's upstream session.
// The UI hands over the token pair it obtained from the platform login; the
// gateway keeps it fresh from then on.
type SessionHandler struct {
	manager *session.Manager
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

type sessionRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Set godoc
// @Summary Install the upstream token pair
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body sessionRequest true "Token pair"
// @Success 204
// @Router /session [put]
func (h *SessionHandler) Set(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	pair := models.TokenPair{AccessToken: req.AccessToken, RefreshToken: req.RefreshToken}
	if err := h.manager.SetPair(c.Request.Context(), pair); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Clear godoc
// @Summary Tear down the upstream session
// @Tags Session
// @Produce json
// @Success 204
// @Router /session [delete]
func (h *SessionHandler) Clear(c *gin.Context) {
	if err := h.manager.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
