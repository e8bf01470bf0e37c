// Package level derives the reservoir fill percentage from raw
// ultrasonic distance readings.
package level

import (
	"math"
)

// Compute maps a raw sensor distance onto a 0-100 level percentage.
//
// The sensor points down at the water surface, so a smaller distance
// means a fuller tank: minDistance reads as 100% and maxDistance as
// 0%. Distances outside the calibrated range clamp to those endpoints.
// Ties round half-to-even, so a normalized 50.5 becomes 50.
//
// A nil or non-finite distance yields nil ("no value"). Equal bounds
// yield 0 rather than dividing by zero; normal startup validation
// rejects that calibration before it gets here.
func Compute(distance *float64, minDistance, maxDistance int) *int {
	if distance == nil || math.IsNaN(*distance) || math.IsInf(*distance, 0) {
		return nil
	}

	span := float64(maxDistance - minDistance)
	if span == 0 {
		zero := 0
		return &zero
	}

	normalized := 1 - (*distance-float64(minDistance))/span
	percent := math.Max(0.0, math.Min(100.0, normalized*100.0))

	result := int(math.RoundToEven(percent))
	return &result
}
