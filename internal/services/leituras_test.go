package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joaosgotti/web-backend-caixa-dagua/config"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/models"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/store"
	"github.com/joaosgotti/web-backend-caixa-dagua/internal/timezone"
)

var testBounds = config.CalibrationBounds{MinDistance: 10, MaxDistance: 50}

func newTestService(readingStore store.ReadingStore) *ReadingService {
	return NewReadingService(readingStore, testBounds, timezone.NewNormalizer("UTC"))
}

// failingStore simulates a backend outage on every call
type failingStore struct{}

func (s *failingStore) Ping() error { return errors.New("connection refused") }
func (s *failingStore) AddReading(ctx context.Context, distancia float64, createdOn time.Time) (int64, error) {
	return 0, errors.New("connection refused")
}
func (s *failingStore) LatestReading(ctx context.Context) (*models.Reading, error) {
	return nil, errors.New("connection refused")
}
func (s *failingStore) ReadingsSince(ctx context.Context, cutoff time.Time) ([]models.Reading, error) {
	return nil, errors.New("connection refused")
}
func (s *failingStore) ReadingCount(ctx context.Context) (int, error) {
	return 0, errors.New("connection refused")
}

// countingStore records how often the query methods are reached
type countingStore struct {
	*store.MemoryStore
	sinceCalls int
}

func (s *countingStore) ReadingsSince(ctx context.Context, cutoff time.Time) ([]models.Reading, error) {
	s.sinceCalls++
	return s.MemoryStore.ReadingsSince(ctx, cutoff)
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		unit     string
		value    int
		expected time.Duration
	}{
		{"h", 1, time.Hour},
		{"h", 12, 12 * time.Hour},
		{"d", 1, 24 * time.Hour},
		{"d", 7, 7 * 24 * time.Hour},
	}

	for _, tt := range tests {
		window, err := ParseWindow(tt.unit, tt.value)
		if err != nil {
			t.Errorf("Expected no error for %d%s, got %v", tt.value, tt.unit, err)
		}
		if window != tt.expected {
			t.Errorf("Expected %v for %d%s, got %v", tt.expected, tt.value, tt.unit, window)
		}
	}
}

func TestParseWindow_RejectsBadInput(t *testing.T) {
	if _, err := ParseWindow("x", 5); !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("Expected ErrInvalidUnit for unit 'x', got %v", err)
	}
	if _, err := ParseWindow("h", 0); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Expected ErrInvalidValue for value 0, got %v", err)
	}
	if _, err := ParseWindow("h", -3); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Expected ErrInvalidValue for value -3, got %v", err)
	}
}

func TestLatest(t *testing.T) {
	memStore := store.NewMemoryStore(10)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	memStore.AddReading(ctx, 20.0, created.Add(-time.Minute))
	memStore.AddReading(ctx, 30.0, created)

	service := newTestService(memStore)

	reading, err := service.Latest(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if reading == nil {
		t.Fatal("Expected a reading, got nil")
	}
	if reading.Distancia != 30.0 {
		t.Errorf("Expected distance 30.0, got %v", reading.Distancia)
	}
	// bounds 10..50, distance 30 -> 50%
	if reading.Nivel == nil || *reading.Nivel != 50 {
		t.Errorf("Expected level 50, got %v", reading.Nivel)
	}
	if reading.CreatedOn != "2024-05-01T12:00:00Z" {
		t.Errorf("Expected normalized timestamp, got %q", reading.CreatedOn)
	}
}

func TestLatest_EmptyStore(t *testing.T) {
	service := newTestService(store.NewMemoryStore(10))

	reading, err := service.Latest(context.Background())
	if err != nil {
		t.Fatalf("Expected no error for empty store, got %v", err)
	}
	if reading != nil {
		t.Errorf("Expected nil reading for empty store, got %+v", reading)
	}
}

func TestLatest_StoreFailure(t *testing.T) {
	service := newTestService(&failingStore{})

	reading, err := service.Latest(context.Background())
	if err == nil {
		t.Fatal("Expected an error from a failing store, got nil")
	}
	if reading != nil {
		t.Errorf("Expected nil reading on failure, got %+v", reading)
	}
}

func TestWindow_OrdersOldestFirst(t *testing.T) {
	memStore := store.NewMemoryStore(10)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	memStore.AddReading(ctx, 3.0, now.Add(-10*time.Minute))
	memStore.AddReading(ctx, 1.0, now.Add(-30*time.Minute))
	memStore.AddReading(ctx, 2.0, now.Add(-20*time.Minute))

	service := newTestService(memStore)
	service.now = func() time.Time { return now }

	readings, err := service.Window(ctx, "h", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("Expected 3 readings, got %d", len(readings))
	}
	for i, expected := range []float64{1.0, 2.0, 3.0} {
		if readings[i].Distancia != expected {
			t.Errorf("Expected distance %v at position %d, got %v", expected, i, readings[i].Distancia)
		}
	}
}

func TestWindow_IncludesReadingAtCutoff(t *testing.T) {
	memStore := store.NewMemoryStore(10)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	memStore.AddReading(ctx, 1.0, now.Add(-time.Hour))             // exactly at cutoff
	memStore.AddReading(ctx, 2.0, now.Add(-time.Hour-time.Second)) // just outside

	service := newTestService(memStore)
	service.now = func() time.Time { return now }

	readings, err := service.Window(ctx, "h", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(readings) != 1 {
		t.Fatalf("Expected 1 reading, got %d", len(readings))
	}
	if readings[0].Distancia != 1.0 {
		t.Errorf("Expected the reading at the cutoff to be included, got %v", readings[0].Distancia)
	}
}

func TestWindow_EmptyResultIsNotAnError(t *testing.T) {
	service := newTestService(store.NewMemoryStore(10))

	readings, err := service.Window(context.Background(), "d", 7)
	if err != nil {
		t.Fatalf("Expected no error for empty window, got %v", err)
	}
	if readings == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(readings) != 0 {
		t.Errorf("Expected no readings, got %d", len(readings))
	}
}

func TestWindow_ValidatesBeforeStoreAccess(t *testing.T) {
	counting := &countingStore{MemoryStore: store.NewMemoryStore(10)}
	service := newTestService(counting)

	if _, err := service.Window(context.Background(), "x", 5); !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("Expected ErrInvalidUnit, got %v", err)
	}
	if _, err := service.Window(context.Background(), "h", 0); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Expected ErrInvalidValue, got %v", err)
	}
	if counting.sinceCalls != 0 {
		t.Errorf("Expected no store access for invalid windows, got %d calls", counting.sinceCalls)
	}
}

func TestWindow_StoreFailure(t *testing.T) {
	service := newTestService(&failingStore{})

	if _, err := service.Window(context.Background(), "h", 1); err == nil {
		t.Fatal("Expected an error from a failing store, got nil")
	}
}

func TestWindow_ComputesLevelPerReading(t *testing.T) {
	memStore := store.NewMemoryStore(10)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	memStore.AddReading(ctx, 10.0, now.Add(-2*time.Minute)) // full
	memStore.AddReading(ctx, 50.0, now.Add(-time.Minute))   // empty

	service := newTestService(memStore)
	service.now = func() time.Time { return now }

	readings, err := service.Window(ctx, "h", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("Expected 2 readings, got %d", len(readings))
	}
	if readings[0].Nivel == nil || *readings[0].Nivel != 100 {
		t.Errorf("Expected level 100 at min distance, got %v", readings[0].Nivel)
	}
	if readings[1].Nivel == nil || *readings[1].Nivel != 0 {
		t.Errorf("Expected level 0 at max distance, got %v", readings[1].Nivel)
	}
}
