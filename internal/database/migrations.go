package database

import (
	"database/sql"
	"fmt"
	"log"
)

// CreateTables creates all tables required by the level backend
func CreateTables(db *sql.DB) error {
	log.Println("Creating database tables...")

	// leituras is written by the MQTT ingestion listener and read by
	// the API. created_on must carry an offset; the timestamptz type
	// enforces that at the column level.
	leiturasTable := `
	CREATE TABLE IF NOT EXISTS leituras (
		id SERIAL PRIMARY KEY,
		distancia DOUBLE PRECISION NOT NULL,
		created_on TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);`

	if _, err := db.Exec(leiturasTable); err != nil {
		return fmt.Errorf("failed to create leituras table: %w", err)
	}

	// Both API queries (latest, trailing window) walk created_on
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_leituras_created_on ON leituras(created_on DESC);",
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
		}
	}

	log.Println("✅ Database tables created successfully")
	return nil
}

// DropTables drops all tables (useful for testing)
func DropTables(db *sql.DB) error {
	log.Println("Dropping database tables...")

	tables := []string{
		"leituras",
	}

	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	log.Println("✅ Database tables dropped successfully")
	return nil
}

// CheckTablesExist checks if all required tables exist
func CheckTablesExist(db *sql.DB) error {
	requiredTables := []string{
		"leituras",
	}

	for _, table := range requiredTables {
		var exists bool
		query := `SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		);`

		err := db.QueryRow(query, table).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}

		if !exists {
			return fmt.Errorf("table %s does not exist", table)
		}
	}

	log.Println("✅ All required tables exist")
	return nil
}
