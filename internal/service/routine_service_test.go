package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routinepro/routine-pro-api/internal/dto"
	"github.com/routinepro/routine-pro-api/internal/models"
)

type sessionReaderStub struct {
	state *models.SessionState
	err   error
}

func (s *sessionReaderStub) State(ctx context.Context, sessionID string) (*models.SessionState, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.state, nil
}

type remapProviderStub struct {
	enabled bool
	table   models.RemapTable
}

func (s *remapProviderStub) Enabled() bool                  { return s.enabled }
func (s *remapProviderStub) GlobalTable() models.RemapTable { return s.table }

type generationObserverStub struct {
	runs  int
	empty int
}

func (s *generationObserverStub) ObserveGeneration(d time.Duration, candidates int, empty bool) {
	s.runs++
	if empty {
		s.empty++
	}
}

func sectionAt(label, day, start, end string, enrolled int) models.Section {
	return models.Section{
		ID: label, Label: label, Status: models.StatusOpen, Capacity: 35, Enrolled: enrolled,
		Schedules: []models.ScheduleSlot{{Day: day, Start: start, End: end}},
	}
}

func twoCourseState() *models.SessionState {
	return &models.SessionState{
		Entries: []models.SelectionEntry{
			{Course: models.Course{BaseTitle: "Programming Language I", Code: "CSE110", Department: "CSE",
				Sections: []models.Section{
					sectionAt("A", "Sunday", "8:00 AM", "9:20 AM", 10),
					sectionAt("B", "Monday", "9:30 AM", "10:50 AM", 10),
				}}},
			{Course: models.Course{BaseTitle: "Mathematics I", Code: "MAT110", Department: "MNS",
				Sections: []models.Section{
					sectionAt("A", "Sunday", "8:00 AM", "9:20 AM", 10),
				}}},
		},
	}
}

func newRoutineFixture(state *models.SessionState, remap *remapProviderStub) (*RoutineService, *generationObserverStub) {
	observer := &generationObserverStub{}
	svc := NewRoutineService(&sessionReaderStub{state: state}, remap, observer, validator.New(), nil, RoutineServiceConfig{ResultTTL: time.Minute})
	return svc, observer
}

func TestRoutineServiceGenerateStoresResultSet(t *testing.T) {
	svc, observer := newRoutineFixture(twoCourseState(), &remapProviderStub{})
	ctx := context.Background()

	resp, err := svc.Generate(ctx, "s1", dto.GenerateRoutineRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ResultID)

	// Only the CSE section B avoids the shared Sunday morning block.
	assert.Equal(t, 1, resp.Total)
	require.NotNil(t, resp.First)
	assert.Equal(t, "B", resp.First.Items[0].SectionLabel)
	assert.Equal(t, 1, observer.runs)

	view, err := svc.Browse(ctx, "s1", resp.ResultID, 0)
	require.NoError(t, err)
	assert.Equal(t, resp.First.Items, view.Items)
}

func TestRoutineServiceGenerateEmptySelection(t *testing.T) {
	svc, _ := newRoutineFixture(&models.SessionState{}, &remapProviderStub{})
	_, err := svc.Generate(context.Background(), "s1", dto.GenerateRoutineRequest{})
	assert.Error(t, err)
}

func TestRoutineServiceGenerateNoSolution(t *testing.T) {
	state := &models.SessionState{
		Entries: []models.SelectionEntry{
			{Course: models.Course{BaseTitle: "First", Sections: []models.Section{sectionAt("A", "Sunday", "8:00 AM", "9:20 AM", 10)}}},
			{Course: models.Course{BaseTitle: "Second", Sections: []models.Section{sectionAt("A", "Sunday", "8:30 AM", "9:50 AM", 10)}}},
		},
	}
	svc, observer := newRoutineFixture(state, &remapProviderStub{})

	resp, err := svc.Generate(context.Background(), "s1", dto.GenerateRoutineRequest{})
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
	assert.Nil(t, resp.First)
	assert.Equal(t, 1, observer.empty)
}

func TestRoutineServiceRemapRequiresFeatureFlag(t *testing.T) {
	// Global table moves the Sunday 8:00 block out of the way, but the
	// feature flag is off, so the two courses still clash.
	table := models.RemapTable{"08:00 AM - 09:20 AM": {"02:00 PM", "03:20 PM"}}
	state := &models.SessionState{
		Entries: []models.SelectionEntry{
			{Course: models.Course{BaseTitle: "First", Sections: []models.Section{sectionAt("A", "Sunday", "8:00 AM", "9:20 AM", 10)}}},
			{Course: models.Course{BaseTitle: "Second", Sections: []models.Section{sectionAt("A", "Sunday", "8:30 AM", "9:50 AM", 10)}}},
		},
	}

	svc, _ := newRoutineFixture(state, &remapProviderStub{enabled: false, table: table})
	resp, err := svc.Generate(context.Background(), "s1", dto.GenerateRoutineRequest{
		Filters: dto.RoutineFiltersPayload{RemapActive: true},
	})
	require.NoError(t, err)
	assert.Zero(t, resp.Total)

	svc, _ = newRoutineFixture(state, &remapProviderStub{enabled: true, table: table})
	resp, err = svc.Generate(context.Background(), "s1", dto.GenerateRoutineRequest{
		Filters: dto.RoutineFiltersPayload{RemapActive: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestRoutineServiceBrowseGuards(t *testing.T) {
	svc, _ := newRoutineFixture(twoCourseState(), &remapProviderStub{})
	ctx := context.Background()

	resp, err := svc.Generate(ctx, "s1", dto.GenerateRoutineRequest{})
	require.NoError(t, err)

	_, err = svc.Browse(ctx, "s1", "missing-id", 0)
	assert.Error(t, err)

	_, err = svc.Browse(ctx, "other-session", resp.ResultID, 0)
	assert.Error(t, err)

	_, err = svc.Browse(ctx, "s1", resp.ResultID, 99)
	assert.Error(t, err)
}

func TestRoutineServiceResultSetInvalidatedByCatalogReload(t *testing.T) {
	state := twoCourseState()
	observer := &generationObserverStub{}
	svc := NewRoutineService(&sessionReaderStub{state: state}, &remapProviderStub{}, observer, validator.New(), nil, RoutineServiceConfig{ResultTTL: time.Minute})
	ctx := context.Background()

	resp, err := svc.Generate(ctx, "s1", dto.GenerateRoutineRequest{})
	require.NoError(t, err)

	// A catalog re-sync bumps the session's generation; stored candidate
	// lists built against the old catalog become unreachable.
	state.CatalogGeneration = state.CatalogGeneration + 1

	_, err = svc.Browse(ctx, "s1", resp.ResultID, 0)
	assert.Error(t, err)

	_, _, err = svc.Export(ctx, "s1", resp.ResultID, dto.ExportRoutineQuery{Format: "csv"})
	assert.Error(t, err)

	_, ok := svc.store.Get(resp.ResultID)
	assert.False(t, ok)
}

func TestRoutineServiceResultSetExpiry(t *testing.T) {
	svc, _ := newRoutineFixture(twoCourseState(), &remapProviderStub{})
	ctx := context.Background()

	resp, err := svc.Generate(ctx, "s1", dto.GenerateRoutineRequest{})
	require.NoError(t, err)

	set, ok := svc.store.Get(resp.ResultID)
	require.True(t, ok)
	set.CreatedAt = set.CreatedAt.Add(-2 * time.Minute)
	svc.store.Save(set)

	_, err = svc.Browse(ctx, "s1", resp.ResultID, 0)
	assert.Error(t, err)
}

func TestRoutineServiceExportCSV(t *testing.T) {
	svc, _ := newRoutineFixture(twoCourseState(), &remapProviderStub{})
	ctx := context.Background()

	resp, err := svc.Generate(ctx, "s1", dto.GenerateRoutineRequest{})
	require.NoError(t, err)

	payload, contentType, err := svc.Export(ctx, "s1", resp.ResultID, dto.ExportRoutineQuery{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "Course,Section,Day,Start,End,Room,Type"))
	assert.Contains(t, body, "Programming Language I,B,Monday,9:30 AM,10:50 AM")
	assert.Contains(t, body, "Mathematics I,A,Sunday,8:00 AM,9:20 AM")
}

func TestRoutineServiceExportPDF(t *testing.T) {
	svc, _ := newRoutineFixture(twoCourseState(), &remapProviderStub{})
	ctx := context.Background()

	resp, err := svc.Generate(ctx, "s1", dto.GenerateRoutineRequest{})
	require.NoError(t, err)

	payload, contentType, err := svc.Export(ctx, "s1", resp.ResultID, dto.ExportRoutineQuery{Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestRoutineServiceConflictReport(t *testing.T) {
	state := &models.SessionState{
		Entries: []models.SelectionEntry{
			{Course: models.Course{BaseTitle: "First", Sections: []models.Section{sectionAt("A", "Sunday", "8:00 AM", "9:20 AM", 10)}}},
			{Course: models.Course{BaseTitle: "Second", Sections: []models.Section{sectionAt("A", "Sunday", "8:30 AM", "9:50 AM", 10)}}},
			{Course: models.Course{BaseTitle: "Third", Sections: []models.Section{sectionAt("A", "Tuesday", "8:00 AM", "9:20 AM", 10)}}},
		},
	}
	svc, _ := newRoutineFixture(state, &remapProviderStub{})

	report, err := svc.ConflictReport(context.Background(), "s1", false)
	require.NoError(t, err)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, "First", report.Conflicts[0].FirstTitle)
	assert.Equal(t, "Second", report.Conflicts[0].SecondTitle)
	assert.Equal(t, "Sunday", report.Conflicts[0].Day)
}

func TestRoutineServiceEffectiveTimes(t *testing.T) {
	table := models.RemapTable{"08:00 AM - 09:20 AM": {"09:00 AM", "10:00 AM"}}
	state := &models.SessionState{
		Entries: []models.SelectionEntry{
			{Course: models.Course{BaseTitle: "First", Sections: []models.Section{sectionAt("A", "Sunday", "8:00 AM", "9:20 AM", 10)}}},
		},
	}

	svc, _ := newRoutineFixture(state, &remapProviderStub{enabled: true, table: table})
	resp, err := svc.EffectiveTimes(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, resp.Pairs, 1)
	assert.True(t, resp.Pairs[0].Changed)
	assert.Equal(t, "09:00 AM", resp.Pairs[0].EffectiveStart)

	svc, _ = newRoutineFixture(state, &remapProviderStub{enabled: false, table: table})
	resp, err = svc.EffectiveTimes(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, resp.Pairs[0].Changed)
}

func TestBuildFiltersDefaults(t *testing.T) {
	f := buildFilters(dto.RoutineFiltersPayload{}, false)
	assert.Equal(t, 0, f.MinStart)
	assert.Equal(t, 1440, f.MaxEnd)
	assert.Equal(t, 100, f.MaxEnrolled)
	assert.ElementsMatch(t, []string{"Open", "Closed"}, f.AllowedStatuses)
	assert.Len(t, f.AllowedDays, 7)

	thirty := 30
	f = buildFilters(dto.RoutineFiltersPayload{
		MinStart:    "9:00 AM",
		MaxEnd:      "5:00 PM",
		MaxEnrolled: &thirty,
		Statuses:    []string{"Open"},
		Days:        []string{"Sun", "Tue"},
	}, true)
	assert.Equal(t, 540, f.MinStart)
	assert.Equal(t, 1020, f.MaxEnd)
	assert.Equal(t, 30, f.MaxEnrolled)
	assert.True(t, f.RemapActive)

	// An explicit zero means "only empty sections" and must reach the
	// engine instead of falling back to the no-limit sentinel.
	zero := 0
	f = buildFilters(dto.RoutineFiltersPayload{MaxEnrolled: &zero}, false)
	assert.Equal(t, 0, f.MaxEnrolled)
}
