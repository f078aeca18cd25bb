package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routinepro/routine-pro-api/internal/dto"
	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
)

type remapAdminMock struct {
	settings dto.RemapSettingsResponse
	err      error
	toggled  *bool
}

func (m *remapAdminMock) Settings() dto.RemapSettingsResponse {
	return m.settings
}

func (m *remapAdminMock) Toggle(enabled bool) dto.RemapSettingsResponse {
	m.toggled = &enabled
	m.settings.Enabled = enabled
	return m.settings
}

func (m *remapAdminMock) Upload(req dto.RemapUploadRequest) (dto.RemapSettingsResponse, error) {
	if m.err != nil {
		return dto.RemapSettingsResponse{}, m.err
	}
	m.settings.Mappings = req.Mappings
	return m.settings, nil
}

func TestRemapHandlerSettings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRemapHandler(&remapAdminMock{settings: dto.RemapSettingsResponse{Enabled: true}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/remap", nil)
	c.Request = req

	handler.Settings(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"enabled":true`)
}

func TestRemapHandlerToggle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &remapAdminMock{}
	handler := NewRemapHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.RemapToggleRequest{Enabled: true})
	req, _ := http.NewRequest(http.MethodPut, "/admin/remap/toggle", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Toggle(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mock.toggled)
	assert.True(t, *mock.toggled)
}

func TestRemapHandlerUploadRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRemapHandler(&remapAdminMock{err: appErrors.ErrValidation})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.RemapUploadRequest{Mappings: map[string][2]string{"bad": {"x", "y"}}})
	req, _ := http.NewRequest(http.MethodPut, "/admin/remap", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Upload(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
