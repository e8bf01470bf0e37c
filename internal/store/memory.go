package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/joaosgotti/web-backend-caixa-dagua/internal/models"
)

// MemoryStore is an in-memory ReadingStore. The server falls back to
// it when PostgreSQL is unreachable at startup, and tests use it as
// the standard double. Readings are kept in insertion order and sorted
// on query, since the listener can replay out-of-order batches.
type MemoryStore struct {
	mu          sync.RWMutex
	readings    []models.Reading
	nextID      int64
	maxReadings int
}

// NewMemoryStore creates an in-memory store holding at most
// maxReadings rows; the oldest inserted rows are evicted first.
func NewMemoryStore(maxReadings int) *MemoryStore {
	if maxReadings <= 0 {
		maxReadings = 1000
	}

	return &MemoryStore{
		readings:    make([]models.Reading, 0, maxReadings),
		nextID:      1,
		maxReadings: maxReadings,
	}
}

// Ping always succeeds for the in-memory store
func (s *MemoryStore) Ping() error {
	return nil
}

// AddReading stores a new distance measurement
func (s *MemoryStore) AddReading(ctx context.Context, distancia float64, createdOn time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reading := models.Reading{
		ID:        s.nextID,
		Distancia: distancia,
		CreatedOn: createdOn,
	}
	s.nextID++

	s.readings = append(s.readings, reading)
	if len(s.readings) > s.maxReadings {
		s.readings = s.readings[1:]
	}

	return reading.ID, nil
}

// LatestReading returns the reading with the newest created_on, or
// (nil, nil) when nothing has been stored yet
func (s *MemoryStore) LatestReading(ctx context.Context) (*models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.readings) == 0 {
		return nil, nil
	}

	latest := s.readings[0]
	for _, r := range s.readings[1:] {
		if r.CreatedOn.After(latest.CreatedOn) {
			latest = r
		}
	}
	return &latest, nil
}

// ReadingsSince returns readings with created_on >= cutoff, ascending
// by created_on
func (s *MemoryStore) ReadingsSince(ctx context.Context, cutoff time.Time) ([]models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Reading, 0)
	for _, r := range s.readings {
		if !r.CreatedOn.Before(cutoff) {
			result = append(result, r)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedOn.Before(result[j].CreatedOn)
	})

	return result, nil
}

// ReadingCount returns the number of stored readings
func (s *MemoryStore) ReadingCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.readings), nil
}
