package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/routinepro/routine-pro-api/internal/dto"
	"github.com/routinepro/routine-pro-api/internal/models"
	"github.com/routinepro/routine-pro-api/internal/service"
	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
	"github.com/routinepro/routine-pro-api/pkg/response"
)

type selectionManager interface {
	State(ctx context.Context, sessionID string) (*models.SessionState, error)
	Add(ctx context.Context, sessionID string, req dto.AddCourseRequest) (*models.SessionState, error)
	Remove(ctx context.Context, sessionID string, index int) (*models.SessionState, error)
	Reselect(ctx context.Context, sessionID string, index int, req dto.ReselectSectionRequest) (*models.SessionState, error)
	TogglePin(ctx context.Context, sessionID string, index int) (*models.SessionState, error)
	AddManual(ctx context.Context, sessionID string, req dto.ManualCourseRequest) (*models.SessionState, error)
	UpdateManual(ctx context.Context, sessionID string, index int, req dto.ManualCourseRequest) (*models.SessionState, error)
	SetCustomRemap(ctx context.Context, sessionID string, table models.RemapTable) (*models.SessionState, error)
	Clear(ctx context.Context, sessionID string) error
}

type selectionPresenter interface {
	SelectionView(state *models.SessionState, remapRequested bool) dto.SelectionResponse
}

// SelectionHandler exposes the per-session selection list.
type SelectionHandler struct {
	service   selectionManager
	presenter selectionPresenter
}

// NewSelectionHandler constructs the handler.
func NewSelectionHandler(svc selectionManager, presenter selectionPresenter) *SelectionHandler {
	return &SelectionHandler{service: svc, presenter: presenter}
}

func (h *SelectionHandler) respond(c *gin.Context, state *models.SessionState) {
	response.JSON(c, http.StatusOK, h.presenter.SelectionView(state, queryBool(c, "remap")), nil)
}

// Get returns the current selection list.
func (h *SelectionHandler) Get(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	state, err := h.service.State(c.Request.Context(), sid)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, state)
}

// Add puts a catalog course at the front of the list.
func (h *SelectionHandler) Add(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.AddCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid add course payload"))
		return
	}
	state, err := h.service.Add(c.Request.Context(), sid, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, state)
}

// Remove drops the entry at a position.
func (h *SelectionHandler) Remove(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	index, err := pathIndex(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}
	state, err := h.service.Remove(c.Request.Context(), sid, index)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, state)
}

// Reselect changes the chosen section of an entry.
func (h *SelectionHandler) Reselect(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	index, err := pathIndex(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ReselectSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reselect payload"))
		return
	}
	state, err := h.service.Reselect(c.Request.Context(), sid, index, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, state)
}

// TogglePin flips the pinned flag of an entry.
func (h *SelectionHandler) TogglePin(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	index, err := pathIndex(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}
	state, err := h.service.TogglePin(c.Request.Context(), sid, index)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, state)
}

// AddManual prepends a hand-entered course.
func (h *SelectionHandler) AddManual(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ManualCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid manual course payload"))
		return
	}
	state, err := h.service.AddManual(c.Request.Context(), sid, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, state)
}

// UpdateManual replaces the meetings of a manual entry.
func (h *SelectionHandler) UpdateManual(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	index, err := pathIndex(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ManualCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid manual course payload"))
		return
	}
	state, err := h.service.UpdateManual(c.Request.Context(), sid, index, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, state)
}

// SetCustomRemap replaces the session's remap overrides.
func (h *SelectionHandler) SetCustomRemap(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.RemapUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid remap table payload"))
		return
	}
	table, err := service.NormalizeRemapTable(req.Mappings)
	if err != nil {
		response.Error(c, err)
		return
	}
	state, err := h.service.SetCustomRemap(c.Request.Context(), sid, table)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, state)
}

// Clear drops the session.
func (h *SelectionHandler) Clear(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Clear(c.Request.Context(), sid); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
