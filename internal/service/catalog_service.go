package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/routinepro/routine-pro-api/internal/catalog"
	"github.com/routinepro/routine-pro-api/internal/dto"
	"github.com/routinepro/routine-pro-api/internal/models"
	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
)

type catalogStore interface {
	Replace(ctx context.Context, courses []models.Course, meta models.CatalogMeta) error
	Load(ctx context.Context) ([]models.Course, error)
	Meta(ctx context.Context) (*models.CatalogMeta, error)
}

// CatalogServiceConfig bounds imports.
type CatalogServiceConfig struct {
	MaxUploadRows int
}

// CatalogService owns the offered-course catalog. Reads are served from an
// in-memory snapshot; a store, when wired, survives restarts. Replacing the
// catalog is wholesale: generation runs started afterwards see only the new
// courses.
type CatalogService struct {
	store     catalogStore
	validator *validator.Validate
	logger    *zap.Logger
	maxRows   int

	mu      sync.RWMutex
	courses []models.Course
	byKey   map[string]int
	meta    models.CatalogMeta
}

// NewCatalogService wires catalog dependencies. The store may be nil.
func NewCatalogService(store catalogStore, validate *validator.Validate, logger *zap.Logger, cfg CatalogServiceConfig) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxUploadRows <= 0 {
		cfg.MaxUploadRows = 20000
	}
	return &CatalogService{
		store:     store,
		validator: validate,
		logger:    logger,
		maxRows:   cfg.MaxUploadRows,
		byKey:     make(map[string]int),
	}
}

// Warm loads the persisted catalog into the snapshot. Missing data is not
// an error; the service starts empty.
func (s *CatalogService) Warm(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	courses, err := s.store.Load(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load persisted catalog")
	}
	meta := models.CatalogMeta{}
	if m, err := s.store.Meta(ctx); err == nil {
		meta = *m
	} else if !errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("catalog meta unavailable", zap.Error(err))
	}
	s.install(courses, meta)
	s.logger.Info("catalog warmed",
		zap.Int("courses", len(courses)),
		zap.String("semester", meta.Semester))
	return nil
}

// Import replaces the catalog from raw report rows.
func (s *CatalogService) Import(ctx context.Context, req dto.CatalogImportRequest) (*dto.CatalogImportResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid catalog import payload")
	}
	if len(req.Rows) > s.maxRows {
		return nil, appErrors.Clone(appErrors.ErrValidation, "catalog upload exceeds the row limit")
	}

	parsed, err := catalog.ParseRows(req.Rows)
	if err != nil {
		return nil, err
	}

	semester := strings.TrimSpace(req.Semester)
	if semester == "" {
		semester = catalog.DetectSemester(req.Rows)
	}

	return s.replace(ctx, parsed, semester)
}

// ImportCSV replaces the catalog from a well-formed CSV export.
func (s *CatalogService) ImportCSV(ctx context.Context, data []byte, semester string) (*dto.CatalogImportResponse, error) {
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "empty csv upload")
	}

	parsed, err := catalog.LoadCSV(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to parse csv catalog")
	}

	return s.replace(ctx, parsed, strings.TrimSpace(semester))
}

func (s *CatalogService) replace(ctx context.Context, parsed *catalog.ParseResult, semester string) (*dto.CatalogImportResponse, error) {
	if len(parsed.Courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no course rows found in upload")
	}

	meta := models.CatalogMeta{
		Semester: semester,
		SyncedAt: time.Now().UTC(),
		Courses:  len(parsed.Courses),
	}

	if s.store != nil {
		if err := s.store.Replace(ctx, parsed.Courses, meta); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist catalog")
		}
	}
	s.install(parsed.Courses, meta)

	sectionCount := 0
	for _, course := range parsed.Courses {
		sectionCount += len(course.Sections)
	}

	s.logger.Info("catalog replaced",
		zap.String("semester", semester),
		zap.Int("courses", len(parsed.Courses)),
		zap.Int("sections", sectionCount),
		zap.Int("skipped_rows", parsed.SkippedRows))

	return &dto.CatalogImportResponse{
		Semester:     semester,
		CourseCount:  len(parsed.Courses),
		SectionCount: sectionCount,
		SkippedRows:  parsed.SkippedRows,
		SyncedAt:     meta.SyncedAt,
	}, nil
}

func (s *CatalogService) install(courses []models.Course, meta models.CatalogMeta) {
	byKey := make(map[string]int, len(courses))
	for i, course := range courses {
		byKey[course.Key()] = i
	}

	s.mu.Lock()
	s.courses = courses
	s.byKey = byKey
	s.meta = meta
	s.mu.Unlock()
}

// List filters the catalog by a case-insensitive search over title and code
// plus an optional department match, and pages the result.
func (s *CatalogService) List(query dto.CatalogListQuery) ([]models.Course, *models.Pagination) {
	s.mu.RLock()
	snapshot := s.courses
	s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(query.Search))
	dept := strings.ToLower(strings.TrimSpace(query.Department))

	filtered := make([]models.Course, 0, len(snapshot))
	for _, course := range snapshot {
		if dept != "" && strings.ToLower(course.Department) != dept {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(course.BaseTitle), search) &&
			!strings.Contains(strings.ToLower(course.Code), search) {
			continue
		}
		filtered = append(filtered, course)
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	pagination := models.NewPagination(page, pageSize, len(filtered))
	start := (page - 1) * pageSize
	if start >= len(filtered) {
		return []models.Course{}, pagination
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], pagination
}

// FindByKey resolves a course by its catalog identity key.
func (s *CatalogService) FindByKey(key string) (models.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byKey[key]
	if !ok {
		return models.Course{}, false
	}
	return s.courses[idx], true
}

// Generation identifies the currently installed catalog. It is derived from
// the sync timestamp so it survives restarts: sessions built against the same
// catalog stay valid, a re-sync invalidates them. Zero means no catalog.
func (s *CatalogService) Generation() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.meta.SyncedAt.IsZero() {
		return 0
	}
	return s.meta.SyncedAt.UnixNano()
}

// Meta returns the current catalog provenance.
func (s *CatalogService) Meta() dto.CatalogMetaResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return dto.CatalogMetaResponse{
		Semester:    s.meta.Semester,
		CourseCount: len(s.courses),
		SyncedAt:    s.meta.SyncedAt,
	}
}
