package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_LatestReading(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of chronological order; newest created_on must win
	s.AddReading(ctx, 30.0, base.Add(2*time.Minute))
	s.AddReading(ctx, 20.0, base)
	s.AddReading(ctx, 25.0, base.Add(1*time.Minute))

	latest, err := s.LatestReading(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if latest == nil {
		t.Fatal("Expected a reading, got nil")
	}
	if latest.Distancia != 30.0 {
		t.Errorf("Expected latest distance 30.0, got %v", latest.Distancia)
	}
	if !latest.CreatedOn.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("Expected latest created_on %v, got %v", base.Add(2*time.Minute), latest.CreatedOn)
	}
}

func TestMemoryStore_LatestReadingEmpty(t *testing.T) {
	s := NewMemoryStore(10)

	latest, err := s.LatestReading(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if latest != nil {
		t.Errorf("Expected nil reading from empty store, got %+v", latest)
	}
}

func TestMemoryStore_ReadingsSinceOrdering(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s.AddReading(ctx, 3.0, base.Add(2*time.Minute))
	s.AddReading(ctx, 1.0, base)
	s.AddReading(ctx, 2.0, base.Add(1*time.Minute))

	readings, err := s.ReadingsSince(ctx, base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("Expected 3 readings, got %d", len(readings))
	}

	for i := 1; i < len(readings); i++ {
		if readings[i].CreatedOn.Before(readings[i-1].CreatedOn) {
			t.Errorf("Expected ascending order, got %v before %v", readings[i-1].CreatedOn, readings[i].CreatedOn)
		}
	}
	if readings[0].Distancia != 1.0 || readings[2].Distancia != 3.0 {
		t.Errorf("Expected readings sorted oldest first, got %v", readings)
	}
}

func TestMemoryStore_ReadingsSinceCutoffInclusive(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()

	cutoff := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s.AddReading(ctx, 1.0, cutoff.Add(-time.Second))
	s.AddReading(ctx, 2.0, cutoff)
	s.AddReading(ctx, 3.0, cutoff.Add(time.Second))

	readings, err := s.ReadingsSince(ctx, cutoff)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("Expected 2 readings (cutoff is inclusive), got %d", len(readings))
	}
	if readings[0].Distancia != 2.0 {
		t.Errorf("Expected the reading exactly at the cutoff to be included first, got %v", readings[0].Distancia)
	}
}

func TestMemoryStore_ReadingsSinceEmpty(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()

	s.AddReading(ctx, 1.0, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	readings, err := s.ReadingsSince(ctx, time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if readings == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(readings) != 0 {
		t.Errorf("Expected no readings, got %d", len(readings))
	}
}

func TestMemoryStore_EvictsOldestInserted(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.AddReading(ctx, float64(i), base.Add(time.Duration(i)*time.Minute))
	}

	count, err := s.ReadingCount(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 3 {
		t.Errorf("Expected capacity to cap the store at 3 readings, got %d", count)
	}

	readings, _ := s.ReadingsSince(ctx, base)
	if len(readings) != 3 || readings[0].Distancia != 2.0 {
		t.Errorf("Expected the two oldest readings to be evicted, got %v", readings)
	}
}

func TestMemoryStore_AssignsSequentialIDs(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()

	now := time.Now().UTC()
	first, _ := s.AddReading(ctx, 1.0, now)
	second, _ := s.AddReading(ctx, 2.0, now)

	if first != 1 || second != 2 {
		t.Errorf("Expected sequential IDs 1 and 2, got %d and %d", first, second)
	}
}
