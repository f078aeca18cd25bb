package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/routinepro/routine-pro-api/internal/dto"
	"github.com/routinepro/routine-pro-api/internal/models"
	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
	"github.com/routinepro/routine-pro-api/pkg/response"
)

const maxCSVUploadBytes = 8 << 20

type catalogManager interface {
	Import(ctx context.Context, req dto.CatalogImportRequest) (*dto.CatalogImportResponse, error)
	ImportCSV(ctx context.Context, data []byte, semester string) (*dto.CatalogImportResponse, error)
	List(query dto.CatalogListQuery) ([]models.Course, *models.Pagination)
	Meta() dto.CatalogMetaResponse
}

type coursePresenter interface {
	CourseViews(courses []models.Course, remapRequested bool) []dto.CourseView
}

// CatalogHandler exposes catalog browsing and admin import endpoints.
type CatalogHandler struct {
	service   catalogManager
	presenter coursePresenter
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(svc catalogManager, presenter coursePresenter) *CatalogHandler {
	return &CatalogHandler{service: svc, presenter: presenter}
}

// Import replaces the catalog from raw report rows.
func (h *CatalogHandler) Import(c *gin.Context) {
	var req dto.CatalogImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid catalog import payload"))
		return
	}
	result, err := h.service.Import(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ImportCSV replaces the catalog from a CSV body.
func (h *CatalogHandler) ImportCSV(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCSVUploadBytes))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read csv body"))
		return
	}
	result, err := h.service.ImportCSV(c.Request.Context(), data, c.Query("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List returns a filtered page of catalog courses.
func (h *CatalogHandler) List(c *gin.Context) {
	query := dto.CatalogListQuery{
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "pageSize", 20),
	}
	courses, pagination := h.service.List(query)
	views := h.presenter.CourseViews(courses, queryBool(c, "remap"))
	response.JSON(c, http.StatusOK, views, pagination)
}

// Meta returns the loaded catalog's provenance.
func (h *CatalogHandler) Meta(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Meta(), nil)
}
