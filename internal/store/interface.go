package store

import (
	"context"
	"time"

	"github.com/joaosgotti/web-backend-caixa-dagua/internal/models"
)

// ReadingStore defines the storage operations over the leituras table.
//
// Lookups that find nothing are not errors: LatestReading returns
// (nil, nil) and ReadingsSince an empty slice. A non-nil error always
// means the store itself failed.
type ReadingStore interface {
	// Health check
	Ping() error

	// AddReading persists one distance measurement and returns its id.
	// Only the ingestion listener writes; the API surface is read-only.
	AddReading(ctx context.Context, distancia float64, createdOn time.Time) (int64, error)

	// LatestReading returns the row with the newest created_on.
	LatestReading(ctx context.Context) (*models.Reading, error)

	// ReadingsSince returns rows with created_on >= cutoff, oldest
	// first. Consumers chart the series and rely on that order.
	ReadingsSince(ctx context.Context, cutoff time.Time) ([]models.Reading, error)

	// ReadingCount returns the total number of stored readings.
	ReadingCount(ctx context.Context) (int, error)
}
