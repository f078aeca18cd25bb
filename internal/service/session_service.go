package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/routinepro/routine-pro-api/internal/dto"
	"github.com/routinepro/routine-pro-api/internal/models"
	"github.com/routinepro/routine-pro-api/internal/timetable"
	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
)

// manualCourseCode marks hand-entered courses. They never exist in the
// catalog, always expose one open section and skip remapping.
const manualCourseCode = "MANUAL"

type courseFinder interface {
	FindByKey(key string) (models.Course, bool)
	Generation() int64
}

type sessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.SessionState, error)
	Save(ctx context.Context, sessionID string, state *models.SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

// SessionServiceConfig bounds the working set.
type SessionServiceConfig struct {
	MaxSelection int
}

// SessionService manages per-session selection lists. The in-process map is
// authoritative for live sessions; the store, when wired, lets selections
// survive restarts.
type SessionService struct {
	catalog   courseFinder
	store     sessionStore
	validator *validator.Validate
	logger    *zap.Logger
	max       int

	mu       sync.Mutex
	sessions map[string]*models.SessionState
}

// NewSessionService wires session dependencies. The store may be nil.
func NewSessionService(catalog courseFinder, store sessionStore, validate *validator.Validate, logger *zap.Logger, cfg SessionServiceConfig) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxSelection <= 0 {
		cfg.MaxSelection = 12
	}
	return &SessionService{
		catalog:   catalog,
		store:     store,
		validator: validate,
		logger:    logger,
		max:       cfg.MaxSelection,
		sessions:  make(map[string]*models.SessionState),
	}
}

// State returns the session's selection state, loading it from the store on
// first touch. New sessions start empty.
func (s *SessionService) State(ctx context.Context, sessionID string) (*models.SessionState, error) {
	if sessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(ctx, sessionID)
}

func (s *SessionService) stateLocked(ctx context.Context, sessionID string) (*models.SessionState, error) {
	state, ok := s.sessions[sessionID]
	if !ok && s.store != nil {
		loaded, err := s.store.Get(ctx, sessionID)
		if err == nil {
			state = loaded
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("session load failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	if state == nil {
		state = &models.SessionState{
			CatalogGeneration: s.catalog.Generation(),
			UpdatedAt:         time.Now().UTC(),
		}
	}
	s.sessions[sessionID] = state

	// Entries reference catalog courses by value, so a catalog reload leaves
	// them pointing at dead sections. The whole list is destroyed, matching
	// what a wholesale re-sync means for in-flight selections.
	if gen := s.catalog.Generation(); state.CatalogGeneration != gen {
		if len(state.Entries) > 0 {
			s.logger.Info("selection reset after catalog reload",
				zap.String("session_id", sessionID),
				zap.Int("dropped_entries", len(state.Entries)))
			state.Entries = nil
			state.CatalogGeneration = gen
			s.persistLocked(ctx, sessionID, state)
		} else {
			state.CatalogGeneration = gen
		}
	}
	return state, nil
}

func (s *SessionService) persistLocked(ctx context.Context, sessionID string, state *models.SessionState) {
	state.UpdatedAt = time.Now().UTC()
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		s.logger.Warn("session persist failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// Add puts a catalog course at the front of the selection list. Adding a
// course that is already selected is a no-op.
func (s *SessionService) Add(ctx context.Context, sessionID string, req dto.AddCourseRequest) (*models.SessionState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid add course payload")
	}

	course, ok := s.catalog.FindByKey(req.CourseKey)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found in the loaded catalog")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.stateLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for _, entry := range state.Entries {
		if entry.Course.Key() == req.CourseKey {
			return state, nil
		}
	}
	if len(state.Entries) >= s.max {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("selection list is limited to %d courses", s.max))
	}

	entry := models.SelectionEntry{Course: course}
	state.Entries = append([]models.SelectionEntry{entry}, state.Entries...)
	s.persistLocked(ctx, sessionID, state)
	return state, nil
}

// Remove drops the entry at the given position.
func (s *SessionService) Remove(ctx context.Context, sessionID string, index int) (*models.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.stateLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(state.Entries) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "selection entry not found")
	}

	state.Entries = append(state.Entries[:index], state.Entries[index+1:]...)
	s.persistLocked(ctx, sessionID, state)
	return state, nil
}

// Reselect changes which section of an entry is currently chosen.
func (s *SessionService) Reselect(ctx context.Context, sessionID string, index int, req dto.ReselectSectionRequest) (*models.SessionState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reselect payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.stateLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(state.Entries) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "selection entry not found")
	}
	entry := &state.Entries[index]
	if req.SectionIndex >= len(entry.Course.Sections) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section index out of range")
	}

	entry.SectionIndex = req.SectionIndex
	s.persistLocked(ctx, sessionID, state)
	return state, nil
}

// TogglePin flips whether an entry's chosen section is fixed during
// generation.
func (s *SessionService) TogglePin(ctx context.Context, sessionID string, index int) (*models.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.stateLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(state.Entries) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "selection entry not found")
	}

	state.Entries[index].Pinned = !state.Entries[index].Pinned
	s.persistLocked(ctx, sessionID, state)
	return state, nil
}

// AddManual prepends a hand-entered course with a single synthesized open
// section. Manual meeting times are stored verbatim and never remapped.
func (s *SessionService) AddManual(ctx context.Context, sessionID string, req dto.ManualCourseRequest) (*models.SessionState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid manual course payload")
	}

	course := buildManualCourse(req)

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.stateLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(state.Entries) >= s.max {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("selection list is limited to %d courses", s.max))
	}

	// Manual entries always prepend; repeating a title is allowed.
	entry := models.SelectionEntry{Course: course}
	state.Entries = append([]models.SelectionEntry{entry}, state.Entries...)
	s.persistLocked(ctx, sessionID, state)
	return state, nil
}

// UpdateManual replaces the meetings of an existing manual entry.
func (s *SessionService) UpdateManual(ctx context.Context, sessionID string, index int, req dto.ManualCourseRequest) (*models.SessionState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid manual course payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.stateLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(state.Entries) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "selection entry not found")
	}
	if !IsManualEntry(state.Entries[index]) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only manual courses can be edited")
	}

	state.Entries[index].Course = buildManualCourse(req)
	state.Entries[index].SectionIndex = 0
	s.persistLocked(ctx, sessionID, state)
	return state, nil
}

// SetCustomRemap replaces the session's remap overrides.
func (s *SessionService) SetCustomRemap(ctx context.Context, sessionID string, table models.RemapTable) (*models.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.stateLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	state.CustomRemap = table
	s.persistLocked(ctx, sessionID, state)
	return state, nil
}

// Clear drops the session entirely.
func (s *SessionService) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
		}
	}
	return nil
}

// IsManualEntry reports whether an entry was hand-entered rather than
// picked from the catalog.
func IsManualEntry(entry models.SelectionEntry) bool {
	return entry.Course.Code == manualCourseCode
}

func buildManualCourse(req dto.ManualCourseRequest) models.Course {
	slots := make([]models.ScheduleSlot, 0, len(req.Slots))
	for _, slot := range req.Slots {
		slots = append(slots, models.ScheduleSlot{
			Day:      timetable.NormalizeDay(strings.TrimSpace(slot.Day)),
			Start:    strings.TrimSpace(slot.Start),
			End:      strings.TrimSpace(slot.End),
			Room:     strings.TrimSpace(slot.Room),
			Type:     "Theory",
			IsManual: true,
		})
	}
	return models.Course{
		Code:      manualCourseCode,
		BaseTitle: strings.TrimSpace(req.Title),
		Sections: []models.Section{
			{
				Label:     "M1",
				Status:    models.StatusOpen,
				Capacity:  99,
				Enrolled:  0,
				Schedules: slots,
			},
		},
	}
}
