package models

import (
	"time"
)

// Reading is one row of the leituras table: a raw distance measurement
// from the ultrasonic sensor, stamped by the ingestion listener.
// Rows are written once and never updated.
type Reading struct {
	ID        int64     `json:"id"`
	Distancia float64   `json:"distancia"`
	CreatedOn time.Time `json:"created_on"`
}

// LevelReading is the API-facing view of a Reading: the raw distance
// plus the derived 0-100 level percentage and the timestamp rendered
// in the display timezone. Built per request, never persisted.
//
// Nivel is nil when the stored distance is not a usable number
// (sensor fault).
type LevelReading struct {
	ID        int64   `json:"id"`
	Distancia float64 `json:"distancia"`
	Nivel     *int    `json:"nivel"`
	CreatedOn string  `json:"created_on"`
}
