package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DistanceParser handles parsing of distance payloads published by the
// ultrasonic sensor firmware.
type DistanceParser struct{}

// NewDistanceParser creates a new instance of DistanceParser
func NewDistanceParser() *DistanceParser {
	return &DistanceParser{}
}

// distancePayload is the JSON shape published by the sensor firmware
type distancePayload struct {
	Distancia float64 `json:"distancia"`
}

// ParseDistanceJSON parses a JSON payload like {"distancia": 23.5}
func (dp *DistanceParser) ParseDistanceJSON(payload []byte) (float64, error) {
	var data distancePayload

	if err := json.Unmarshal(payload, &data); err != nil {
		return 0, fmt.Errorf("failed to parse distance JSON: %w", err)
	}

	if err := validateDistance(data.Distancia); err != nil {
		return 0, err
	}

	return data.Distancia, nil
}

// ParseDistanceString parses a bare numeric payload (fallback format
// used by older firmware)
func (dp *DistanceParser) ParseDistanceString(payload string) (float64, error) {
	distancia, err := strconv.ParseFloat(strings.TrimSpace(payload), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse distance string %q: %w", payload, err)
	}

	if err := validateDistance(distancia); err != nil {
		return 0, err
	}

	return distancia, nil
}

// Parse tries the JSON format first and falls back to a bare number
func (dp *DistanceParser) Parse(payload []byte) (float64, error) {
	if distancia, err := dp.ParseDistanceJSON(payload); err == nil {
		return distancia, nil
	}
	return dp.ParseDistanceString(string(payload))
}

// validateDistance rejects readings the sensor cannot physically
// produce
func validateDistance(distancia float64) error {
	if math.IsNaN(distancia) || math.IsInf(distancia, 0) {
		return fmt.Errorf("invalid distance value: %v", distancia)
	}
	if distancia < 0 {
		return fmt.Errorf("invalid distance value: %.2f (must be non-negative)", distancia)
	}
	return nil
}
