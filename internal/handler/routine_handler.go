package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/routinepro/routine-pro-api/internal/dto"
	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
	"github.com/routinepro/routine-pro-api/pkg/response"
)

type routineGenerator interface {
	Generate(ctx context.Context, sessionID string, req dto.GenerateRoutineRequest) (*dto.GenerateRoutineResponse, error)
	Browse(ctx context.Context, sessionID, resultID string, index int) (*dto.RoutineView, error)
	Export(ctx context.Context, sessionID, resultID string, query dto.ExportRoutineQuery) ([]byte, string, error)
	ConflictReport(ctx context.Context, sessionID string, remapRequested bool) (*dto.ConflictReportResponse, error)
	EffectiveTimes(ctx context.Context, sessionID string) (*dto.EffectiveTimesResponse, error)
}

// RoutineHandler exposes generation, browsing and export endpoints.
type RoutineHandler struct {
	service routineGenerator
}

// NewRoutineHandler constructs the handler.
func NewRoutineHandler(svc routineGenerator) *RoutineHandler {
	return &RoutineHandler{service: svc}
}

// Generate runs a generation pass over the session's selection list.
func (h *RoutineHandler) Generate(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.GenerateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), sid, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Browse fetches one routine of a stored result set.
func (h *RoutineHandler) Browse(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.Browse(c.Request.Context(), sid, c.Param("id"), queryInt(c, "index", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Export streams one routine as CSV or PDF.
func (h *RoutineHandler) Export(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	query := dto.ExportRoutineQuery{
		Index:  queryInt(c, "index", 0),
		Format: c.DefaultQuery("format", "csv"),
	}
	payload, contentType, err := h.service.Export(c.Request.Context(), sid, c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "routine.csv"
	if contentType == "application/pdf" {
		filename = "routine.pdf"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

// Conflicts reports pairwise clashes among the chosen sections.
func (h *RoutineHandler) Conflicts(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.ConflictReport(c.Request.Context(), sid, queryBool(c, "remap"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// EffectiveTimes pairs nominal and remapped meeting times.
func (h *RoutineHandler) EffectiveTimes(c *gin.Context) {
	sid, err := sessionID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.EffectiveTimes(c.Request.Context(), sid)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
