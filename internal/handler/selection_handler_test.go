package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routinepro/routine-pro-api/internal/dto"
	"github.com/routinepro/routine-pro-api/internal/models"
)

type selectionManagerMock struct {
	state     *models.SessionState
	err       error
	lastIndex int
	cleared   bool
}

func (m *selectionManagerMock) State(ctx context.Context, sessionID string) (*models.SessionState, error) {
	return m.state, m.err
}

func (m *selectionManagerMock) Add(ctx context.Context, sessionID string, req dto.AddCourseRequest) (*models.SessionState, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.state, nil
}

func (m *selectionManagerMock) Remove(ctx context.Context, sessionID string, index int) (*models.SessionState, error) {
	m.lastIndex = index
	return m.state, m.err
}

func (m *selectionManagerMock) Reselect(ctx context.Context, sessionID string, index int, req dto.ReselectSectionRequest) (*models.SessionState, error) {
	m.lastIndex = index
	return m.state, m.err
}

func (m *selectionManagerMock) TogglePin(ctx context.Context, sessionID string, index int) (*models.SessionState, error) {
	m.lastIndex = index
	return m.state, m.err
}

func (m *selectionManagerMock) AddManual(ctx context.Context, sessionID string, req dto.ManualCourseRequest) (*models.SessionState, error) {
	return m.state, m.err
}

func (m *selectionManagerMock) UpdateManual(ctx context.Context, sessionID string, index int, req dto.ManualCourseRequest) (*models.SessionState, error) {
	m.lastIndex = index
	return m.state, m.err
}

func (m *selectionManagerMock) SetCustomRemap(ctx context.Context, sessionID string, table models.RemapTable) (*models.SessionState, error) {
	return m.state, m.err
}

func (m *selectionManagerMock) Clear(ctx context.Context, sessionID string) error {
	m.cleared = true
	return m.err
}

type selectionPresenterMock struct{}

func (m *selectionPresenterMock) SelectionView(state *models.SessionState, remapRequested bool) dto.SelectionResponse {
	return dto.SelectionResponse{Entries: []dto.SelectionEntryView{}}
}

func newSelectionContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "s1")
	c.Request = req
	return c, w
}

func TestSelectionHandlerGetRequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSelectionHandler(&selectionManagerMock{}, &selectionPresenterMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/selection", nil)
	c.Request = req

	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectionHandlerGet(t *testing.T) {
	handler := NewSelectionHandler(&selectionManagerMock{state: &models.SessionState{}}, &selectionPresenterMock{})
	c, w := newSelectionContext(t, http.MethodGet, "/selection", nil)

	handler.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSelectionHandlerAddInvalidBody(t *testing.T) {
	handler := NewSelectionHandler(&selectionManagerMock{state: &models.SessionState{}}, &selectionPresenterMock{})
	c, w := newSelectionContext(t, http.MethodPost, "/selection", []byte(`not-json`))

	handler.Add(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectionHandlerAdd(t *testing.T) {
	handler := NewSelectionHandler(&selectionManagerMock{state: &models.SessionState{}}, &selectionPresenterMock{})
	body, _ := json.Marshal(dto.AddCourseRequest{CourseKey: "Physics I@@@PHY111@@@MNS"})
	c, w := newSelectionContext(t, http.MethodPost, "/selection", body)

	handler.Add(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSelectionHandlerRemoveParsesIndex(t *testing.T) {
	mock := &selectionManagerMock{state: &models.SessionState{}}
	handler := NewSelectionHandler(mock, &selectionPresenterMock{})
	c, w := newSelectionContext(t, http.MethodDelete, "/selection/2", nil)
	c.Params = gin.Params{{Key: "index", Value: "2"}}

	handler.Remove(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, mock.lastIndex)
}

func TestSelectionHandlerRemoveRejectsNonNumericIndex(t *testing.T) {
	handler := NewSelectionHandler(&selectionManagerMock{state: &models.SessionState{}}, &selectionPresenterMock{})
	c, w := newSelectionContext(t, http.MethodDelete, "/selection/abc", nil)
	c.Params = gin.Params{{Key: "index", Value: "abc"}}

	handler.Remove(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectionHandlerSetCustomRemapRejectsMalformedKeys(t *testing.T) {
	handler := NewSelectionHandler(&selectionManagerMock{state: &models.SessionState{}}, &selectionPresenterMock{})
	body, _ := json.Marshal(dto.RemapUploadRequest{Mappings: map[string][2]string{
		"no range here": {"9:00 AM", "10:00 AM"},
	}})
	c, w := newSelectionContext(t, http.MethodPut, "/selection/remap", body)

	handler.SetCustomRemap(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSelectionHandlerSetCustomRemap(t *testing.T) {
	handler := NewSelectionHandler(&selectionManagerMock{state: &models.SessionState{}}, &selectionPresenterMock{})
	body, _ := json.Marshal(dto.RemapUploadRequest{Mappings: map[string][2]string{
		"8:00 AM - 9:20 AM": {"2:00 PM", "3:20 PM"},
	}})
	c, w := newSelectionContext(t, http.MethodPut, "/selection/remap", body)

	handler.SetCustomRemap(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSelectionHandlerClear(t *testing.T) {
	mock := &selectionManagerMock{state: &models.SessionState{}}
	handler := NewSelectionHandler(mock, &selectionPresenterMock{})
	c, w := newSelectionContext(t, http.MethodDelete, "/selection", nil)

	handler.Clear(c)
	// Flush the status set via c.Status; the engine normally does this
	// after the handler chain, but the handler is invoked directly here.
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, mock.cleared)
}
