package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/routinepro/routine-pro-api/internal/models"
	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
	"github.com/routinepro/routine-pro-api/pkg/response"
)

type authenticator interface {
	Login(req models.LoginRequest) (*models.LoginResponse, error)
}

// AuthHandler exposes the admin login endpoint.
type AuthHandler struct {
	service authenticator
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc authenticator) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login authenticates the configured admin and returns an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	result, err := h.service.Login(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
