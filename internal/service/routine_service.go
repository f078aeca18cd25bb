package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/routinepro/routine-pro-api/internal/dto"
	"github.com/routinepro/routine-pro-api/internal/models"
	"github.com/routinepro/routine-pro-api/internal/timetable"
	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
	"github.com/routinepro/routine-pro-api/pkg/export"
)

type remapProvider interface {
	Enabled() bool
	GlobalTable() models.RemapTable
}

type sessionReader interface {
	State(ctx context.Context, sessionID string) (*models.SessionState, error)
}

type generationObserver interface {
	ObserveGeneration(duration time.Duration, candidates int, empty bool)
}

// RoutineServiceConfig governs result-set retention.
type RoutineServiceConfig struct {
	ResultTTL time.Duration
}

// RoutineService runs generation over a session's selection list, keeps the
// resulting candidate sets browsable under short-lived ids, and renders
// exports. All timetable math is delegated to the engine; this layer only
// assembles inputs and views.
type RoutineService struct {
	sessions  sessionReader
	remap     remapProvider
	metrics   generationObserver
	validator *validator.Validate
	logger    *zap.Logger
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	store     *resultStore
}

// NewRoutineService wires routine dependencies. Metrics may be nil.
func NewRoutineService(sessions sessionReader, remap remapProvider, metrics generationObserver, validate *validator.Validate, logger *zap.Logger, cfg RoutineServiceConfig) *RoutineService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 30 * time.Minute
	}
	return &RoutineService{
		sessions:  sessions,
		remap:     remap,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		store:     newResultStore(cfg.ResultTTL),
	}
}

// engineFor builds an engine over the session's override table and the
// shared global table.
func (s *RoutineService) engineFor(state *models.SessionState) *timetable.Engine {
	var global models.RemapTable
	if s.remap != nil {
		global = s.remap.GlobalTable()
	}
	return timetable.NewEngine(timetable.NewResolver(state.CustomRemap, global))
}

func (s *RoutineService) remapActive(requested bool) bool {
	return requested && s.remap != nil && s.remap.Enabled()
}

// Generate runs the backtracking search and stores the full candidate list
// for browsing. The first routine comes back inline; an empty total with a
// nil first routine means no conflict-free combination exists under the
// given filters.
func (s *RoutineService) Generate(ctx context.Context, sessionID string, req dto.GenerateRoutineRequest) (*dto.GenerateRoutineResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	state, err := s.sessions.State(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(state.Entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "the selection list is empty")
	}

	remapActive := s.remapActive(req.Filters.RemapActive)
	engine := s.engineFor(state)
	filters := buildFilters(req.Filters, remapActive)

	start := time.Now()
	routines := engine.Generate(state.Entries, filters)
	if req.Ranked {
		routines = engine.Rank(routines, remapActive)
	}
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.ObserveGeneration(elapsed, len(routines), len(routines) == 0)
	}
	s.logger.Info("generation run",
		zap.String("session_id", sessionID),
		zap.Int("courses", len(state.Entries)),
		zap.Int("candidates", len(routines)),
		zap.Bool("ranked", req.Ranked),
		zap.Bool("remap_active", remapActive),
		zap.Duration("elapsed", elapsed))

	set := resultSet{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		Generation:  state.CatalogGeneration,
		Routines:    routines,
		RemapActive: remapActive,
		Ranked:      req.Ranked,
		CreatedAt:   time.Now().UTC(),
	}
	s.store.Save(set)

	resp := &dto.GenerateRoutineResponse{
		ResultID: set.ID,
		Total:    len(routines),
		Ranked:   req.Ranked,
	}
	if len(routines) > 0 {
		view := buildRoutineView(engine, routines[0], 0, remapActive)
		resp.First = &view
	}
	return resp, nil
}

// Browse fetches one routine out of a stored result set by index.
func (s *RoutineService) Browse(ctx context.Context, sessionID, resultID string, index int) (*dto.RoutineView, error) {
	set, engine, err := s.resolveResult(ctx, sessionID, resultID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(set.Routines) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "routine index out of range")
	}

	view := buildRoutineView(engine, set.Routines[index], index, set.RemapActive)
	return &view, nil
}

// Export renders one stored routine as CSV or PDF bytes.
func (s *RoutineService) Export(ctx context.Context, sessionID, resultID string, query dto.ExportRoutineQuery) ([]byte, string, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query")
	}

	set, engine, err := s.resolveResult(ctx, sessionID, resultID)
	if err != nil {
		return nil, "", err
	}
	if query.Index < 0 || query.Index >= len(set.Routines) {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "routine index out of range")
	}

	routine := set.Routines[query.Index]
	dataset := routineDataset(engine, routine, set.RemapActive)

	switch strings.ToLower(query.Format) {
	case "", "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, "text/csv", nil
	case "pdf":
		footer := []string{
			fmt.Sprintf("%s Waiting Time", timetable.FormatMinutes(engine.GapMinutes(routine, set.RemapActive))),
			fmt.Sprintf("%d days on campus, %d credits", engine.CountDistinctDays(routine), timetable.Credits(routine)),
		}
		payload, err := s.pdf.Render(dataset, "Class Routine", footer)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// ConflictReport lists pairwise clashes among the currently chosen sections.
func (s *RoutineService) ConflictReport(ctx context.Context, sessionID string, remapRequested bool) (*dto.ConflictReportResponse, error) {
	state, err := s.sessions.State(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	remapActive := s.remapActive(remapRequested)
	engine := s.engineFor(state)

	report := &dto.ConflictReportResponse{RemapActive: remapActive, Conflicts: []dto.ConflictPair{}}
	for i := 0; i < len(state.Entries); i++ {
		first, ok := state.Entries[i].ChosenSection()
		if !ok {
			continue
		}
		for j := i + 1; j < len(state.Entries); j++ {
			second, ok := state.Entries[j].ChosenSection()
			if !ok {
				continue
			}
			pair, clash := findClash(engine, state.Entries[i], first, i, state.Entries[j], second, j, remapActive)
			if clash {
				report.Conflicts = append(report.Conflicts, pair)
			}
		}
	}
	return report, nil
}

// EffectiveTimes maps the chosen sections' meetings through the active
// remap tables, pairing nominal with effective labels.
func (s *RoutineService) EffectiveTimes(ctx context.Context, sessionID string) (*dto.EffectiveTimesResponse, error) {
	state, err := s.sessions.State(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	enabled := s.remap != nil && s.remap.Enabled()
	engine := s.engineFor(state)

	resp := &dto.EffectiveTimesResponse{Enabled: enabled, Pairs: []dto.EffectivePair{}}
	for _, entry := range state.Entries {
		section, ok := entry.ChosenSection()
		if !ok {
			continue
		}
		for _, slot := range section.Schedules {
			eff := engine.Resolve(slot, enabled)
			resp.Pairs = append(resp.Pairs, dto.EffectivePair{
				Day:            slot.Day,
				NominalStart:   slot.Start,
				NominalEnd:     slot.End,
				EffectiveStart: eff.StartLabel,
				EffectiveEnd:   eff.EndLabel,
				Changed:        eff.StartLabel != slot.Start || eff.EndLabel != slot.End,
			})
		}
	}
	return resp, nil
}

// SelectionView maps a session state into its wire form under the active
// remap tables.
func (s *RoutineService) SelectionView(state *models.SessionState, remapRequested bool) dto.SelectionResponse {
	return BuildSelectionResponse(s.engineFor(state), state, s.remapActive(remapRequested))
}

// CourseViews maps catalog courses into their wire form. Catalog listings
// carry no session overrides; only the shared tables apply.
func (s *RoutineService) CourseViews(courses []models.Course, remapRequested bool) []dto.CourseView {
	state := &models.SessionState{}
	return BuildCourseViews(s.engineFor(state), courses, s.remapActive(remapRequested))
}

func (s *RoutineService) resolveResult(ctx context.Context, sessionID, resultID string) (resultSet, *timetable.Engine, error) {
	set, ok := s.store.Get(resultID)
	if !ok {
		return resultSet{}, nil, appErrors.Clone(appErrors.ErrNotFound, "result set not found or expired")
	}
	if set.SessionID != sessionID {
		return resultSet{}, nil, appErrors.Clone(appErrors.ErrForbidden, "result set belongs to another session")
	}

	state, err := s.sessions.State(ctx, sessionID)
	if err != nil {
		return resultSet{}, nil, err
	}
	// A catalog reload orphans every stored candidate list: its sections no
	// longer exist in the loaded catalog.
	if set.Generation != state.CatalogGeneration {
		s.store.Delete(set.ID)
		return resultSet{}, nil, appErrors.Clone(appErrors.ErrNotFound, "result set not found or expired")
	}
	return set, s.engineFor(state), nil
}

func findClash(engine *timetable.Engine, a models.SelectionEntry, secA models.Section, idxA int, b models.SelectionEntry, secB models.Section, idxB int, remapActive bool) (dto.ConflictPair, bool) {
	for _, slotA := range secA.Schedules {
		for _, slotB := range secB.Schedules {
			if engine.SlotsConflict(slotA, slotB, remapActive) {
				effA := engine.Resolve(slotA, remapActive)
				effB := engine.Resolve(slotB, remapActive)
				return dto.ConflictPair{
					FirstIndex:   idxA,
					FirstTitle:   a.Course.BaseTitle,
					SecondIndex:  idxB,
					SecondTitle:  b.Course.BaseTitle,
					Day:          timetable.NormalizeDay(slotA.Day),
					FirstWindow:  effA.StartLabel + " - " + effA.EndLabel,
					SecondWindow: effB.StartLabel + " - " + effB.EndLabel,
				}, true
			}
		}
	}
	return dto.ConflictPair{}, false
}

// buildFilters translates the wire payload into engine filters, defaulting
// absent fields to the widest admissible window.
func buildFilters(payload dto.RoutineFiltersPayload, remapActive bool) timetable.Filters {
	f := timetable.Filters{
		MinStart:    0,
		MaxEnd:      24 * 60,
		MaxEnrolled: 100,
		RemapActive: remapActive,
	}
	if strings.TrimSpace(payload.MinStart) != "" {
		f.MinStart = timetable.ParseClock(payload.MinStart)
	}
	if strings.TrimSpace(payload.MaxEnd) != "" {
		f.MaxEnd = timetable.ParseClock(payload.MaxEnd)
	}
	if payload.MaxEnrolled != nil {
		f.MaxEnrolled = *payload.MaxEnrolled
	}
	if len(payload.Statuses) > 0 {
		f.AllowedStatuses = payload.Statuses
	} else {
		f.AllowedStatuses = []string{models.StatusOpen, models.StatusClosed}
	}
	if len(payload.Days) > 0 {
		f.AllowedDays = payload.Days
	} else {
		f.AllowedDays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	}
	return f
}

// --- Result-set cache ---

type resultSet struct {
	ID          string
	SessionID   string
	Generation  int64
	Routines    []timetable.Routine
	RemapActive bool
	Ranked      bool
	CreatedAt   time.Time
}

type resultStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]resultSet
}

func newResultStore(ttl time.Duration) *resultStore {
	return &resultStore{
		ttl:   ttl,
		items: make(map[string]resultSet),
	}
}

func (s *resultStore) Save(set resultSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[set.ID] = set
}

func (s *resultStore) Get(id string) (resultSet, bool) {
	s.mu.RLock()
	set, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return resultSet{}, false
	}
	if time.Since(set.CreatedAt) > s.ttl {
		s.Delete(id)
		return resultSet{}, false
	}
	return set, true
}

func (s *resultStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
