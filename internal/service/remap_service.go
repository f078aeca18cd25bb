package service

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/routinepro/routine-pro-api/internal/dto"
	"github.com/routinepro/routine-pro-api/internal/models"
	"github.com/routinepro/routine-pro-api/internal/timetable"
	appErrors "github.com/routinepro/routine-pro-api/pkg/errors"
)

// RemapService holds the shared compressed-timetable configuration: the
// feature flag that makes remapping available at all, and the global table
// consulted when a session has no override for a range.
type RemapService struct {
	validator *validator.Validate
	logger    *zap.Logger

	mu       sync.RWMutex
	settings models.RemapSettings
}

// NewRemapService seeds the shared remap configuration.
func NewRemapService(validate *validator.Validate, logger *zap.Logger, enabled bool) *RemapService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemapService{
		validator: validate,
		logger:    logger,
		settings:  models.RemapSettings{Enabled: enabled},
	}
}

// Settings returns the current shared configuration.
func (s *RemapService) Settings() dto.RemapSettingsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return dto.RemapSettingsResponse{
		Enabled:  s.settings.Enabled,
		Mappings: cloneTable(s.settings.Mappings),
	}
}

// Enabled reports whether remapped generation is offered.
func (s *RemapService) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Enabled
}

// GlobalTable returns a copy of the shared mapping table.
func (s *RemapService) GlobalTable() models.RemapTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTable(s.settings.Mappings)
}

// Toggle switches the shared feature flag.
func (s *RemapService) Toggle(enabled bool) dto.RemapSettingsResponse {
	s.mu.Lock()
	s.settings.Enabled = enabled
	s.mu.Unlock()

	s.logger.Info("remap feature toggled", zap.Bool("enabled", enabled))
	return s.Settings()
}

// Upload replaces the shared mapping table. Keys and values are normalized
// to the canonical "HH:MM AM - HH:MM PM" form so lookups match catalog
// ranges regardless of the uploaded spelling.
func (s *RemapService) Upload(req dto.RemapUploadRequest) (dto.RemapSettingsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RemapSettingsResponse{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid remap table payload")
	}

	table, err := NormalizeRemapTable(req.Mappings)
	if err != nil {
		return dto.RemapSettingsResponse{}, err
	}

	s.mu.Lock()
	s.settings.Mappings = table
	s.mu.Unlock()

	s.logger.Info("global remap table replaced", zap.Int("entries", len(table)))
	return s.Settings(), nil
}

// NormalizeRemapTable canonicalizes an uploaded mapping table. Malformed
// range keys are rejected rather than silently dropped.
func NormalizeRemapTable(raw map[string][2]string) (models.RemapTable, error) {
	table := make(models.RemapTable, len(raw))
	for key, mapped := range raw {
		parts := strings.Split(key, "-")
		if len(parts) != 2 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "remap keys must look like \"08:00 AM - 09:30 AM\"")
		}
		canonical := timetable.CanonicalClock(parts[0]) + " - " + timetable.CanonicalClock(parts[1])
		table[canonical] = [2]string{
			timetable.CanonicalClock(mapped[0]),
			timetable.CanonicalClock(mapped[1]),
		}
	}
	return table, nil
}

func cloneTable(table models.RemapTable) models.RemapTable {
	if table == nil {
		return nil
	}
	clone := make(models.RemapTable, len(table))
	for k, v := range table {
		clone[k] = v
	}
	return clone
}
