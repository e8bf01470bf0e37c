package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/joaosgotti/web-backend-caixa-dagua/internal/models"
)

// DatabaseStore implements store.ReadingStore on PostgreSQL. Every
// call runs one short query on a pooled connection scoped to the
// request context, so a slow query never blocks unrelated requests.
type DatabaseStore struct {
	db *sql.DB
}

// NewDatabaseStore creates a new database store
func NewDatabaseStore(db *sql.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Ping checks database connectivity
func (s *DatabaseStore) Ping() error {
	return s.db.Ping()
}

// AddReading persists one distance measurement and returns its id
func (s *DatabaseStore) AddReading(ctx context.Context, distancia float64, createdOn time.Time) (int64, error) {
	query := `
		INSERT INTO leituras (distancia, created_on)
		VALUES ($1, $2)
		RETURNING id`

	var id int64
	if err := s.db.QueryRowContext(ctx, query, distancia, createdOn).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert reading: %w", err)
	}

	return id, nil
}

// LatestReading returns the most recent reading, or (nil, nil) when
// the table is empty
func (s *DatabaseStore) LatestReading(ctx context.Context) (*models.Reading, error) {
	query := `
		SELECT id, distancia, created_on
		FROM leituras
		ORDER BY created_on DESC
		LIMIT 1`

	var reading models.Reading
	err := s.db.QueryRowContext(ctx, query).Scan(&reading.ID, &reading.Distancia, &reading.CreatedOn)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest reading: %w", err)
	}

	return &reading, nil
}

// ReadingsSince returns readings with created_on >= cutoff, oldest
// first. The inclusive bound matters: a reading at the exact cutoff
// instant belongs to the window.
func (s *DatabaseStore) ReadingsSince(ctx context.Context, cutoff time.Time) ([]models.Reading, error) {
	query := `
		SELECT id, distancia, created_on
		FROM leituras
		WHERE created_on >= $1
		ORDER BY created_on ASC`

	rows, err := s.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings window: %w", err)
	}
	defer rows.Close()

	readings := []models.Reading{}
	for rows.Next() {
		var reading models.Reading
		if err := rows.Scan(&reading.ID, &reading.Distancia, &reading.CreatedOn); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}

// ReadingCount returns the total number of stored readings
func (s *DatabaseStore) ReadingCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leituras").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return count, nil
}
