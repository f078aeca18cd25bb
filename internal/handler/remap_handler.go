package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/routinepro/routine-pro-api/internal/dto"
	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
	"github.com/routinepro/routine-pro-api/pkg/response"
)

type remapAdmin interface {
	Settings() dto.RemapSettingsResponse
	Toggle(enabled bool) dto.RemapSettingsResponse
	Upload(req dto.RemapUploadRequest) (dto.RemapSettingsResponse, error)
}

// RemapHandler exposes the shared compressed-timetable administration.
type RemapHandler struct {
	service remapAdmin
}

// NewRemapHandler constructs the handler.
func NewRemapHandler(svc remapAdmin) *RemapHandler {
	return &RemapHandler{service: svc}
}

// Settings returns the shared remap configuration.
func (h *RemapHandler) Settings(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Settings(), nil)
}

// Toggle switches the shared feature flag.
func (h *RemapHandler) Toggle(c *gin.Context) {
	var req dto.RemapToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid toggle payload"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.Toggle(req.Enabled), nil)
}

// Upload replaces the shared mapping table.
func (h *RemapHandler) Upload(c *gin.Context) {
	var req dto.RemapUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid remap table payload"))
		return
	}
	result, err := h.service.Upload(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
