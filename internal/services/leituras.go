package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joaosgotti/web-backend-caixa-dagua/config"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/level"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/models"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/store"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/timezone"
)

// Window validation errors, surfaced to callers as client errors
// before any store access happens.
var (
	ErrInvalidUnit  = errors.New("invalid window unit: use 'h' (hours) or 'd' (days)")
	ErrInvalidValue = errors.New("invalid window value: must be a positive integer")
)

// ReadingService assembles API-facing level readings from stored rows:
// it fetches, computes the level from the calibration bounds and
// renders the timestamp in the display zone.
type ReadingService struct {
	store      store.ReadingStore
	bounds     config.CalibrationBounds
	normalizer *timezone.Normalizer
	now        func() time.Time
}

// NewReadingService creates a reading service over the given store
func NewReadingService(readingStore store.ReadingStore, bounds config.CalibrationBounds, normalizer *timezone.Normalizer) *ReadingService {
	return &ReadingService{
		store:      readingStore,
		bounds:     bounds,
		normalizer: normalizer,
		now:        time.Now,
	}
}

// ParseWindow turns a unit ("h" or "d") and a count into a duration.
// Rejections here are client errors, not store faults.
func ParseWindow(unit string, value int) (time.Duration, error) {
	if value < 1 {
		return 0, ErrInvalidValue
	}

	switch unit {
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, ErrInvalidUnit
	}
}

// Latest returns the newest reading with its computed level, or
// (nil, nil) when no readings exist yet. An empty table is a normal
// outcome, not an error.
func (s *ReadingService) Latest(ctx context.Context) (*models.LevelReading, error) {
	reading, err := s.store.LatestReading(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching latest reading: %w", err)
	}
	if reading == nil {
		return nil, nil
	}

	processed := s.process(*reading)
	return &processed, nil
}

// Window returns the readings from the trailing duration ending now,
// oldest first. The window is validated before the store is touched;
// an empty result is valid.
func (s *ReadingService) Window(ctx context.Context, unit string, value int) ([]models.LevelReading, error) {
	window, err := ParseWindow(unit, value)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().UTC().Add(-window)
	readings, err := s.store.ReadingsSince(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("fetching readings window: %w", err)
	}

	processed := make([]models.LevelReading, 0, len(readings))
	for _, reading := range readings {
		processed = append(processed, s.process(reading))
	}
	return processed, nil
}

// process attaches the computed level and the normalized timestamp to
// one stored reading
func (s *ReadingService) process(reading models.Reading) models.LevelReading {
	distancia := reading.Distancia
	return models.LevelReading{
		ID:        reading.ID,
		Distancia: reading.Distancia,
		Nivel:     level.Compute(&distancia, s.bounds.MinDistance, s.bounds.MaxDistance),
		CreatedOn: s.normalizer.Normalize(reading.CreatedOn),
	}
}
