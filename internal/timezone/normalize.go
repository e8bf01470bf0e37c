// Package timezone renders stored timestamps in the configured display
// zone, always with an explicit UTC offset.
package timezone

import (
	"log"
	"time"
)

// Normalizer converts timestamps into a fixed display timezone and
// serializes them as RFC 3339. Safe for concurrent use; it holds no
// mutable state after construction.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer builds a Normalizer for the named IANA zone. An
// unrecognized zone is logged and the normalizer keeps timestamps in
// their stored offset instead of failing every response over one bad
// configuration value.
func NewNormalizer(zoneName string) *Normalizer {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		log.Printf("⚠️  Warning: unknown display timezone %q, keeping stored offsets: %v", zoneName, err)
		return &Normalizer{}
	}
	return &Normalizer{loc: loc}
}

// Normalize renders t in the display zone as RFC 3339 with offset.
//
// A value carrying the process-local zone is what database drivers
// hand back when a stored timestamp had no offset. The ingestion
// listener always stores offsets, so that case indicates an upstream
// writer bug: it is logged and the wall clock is reinterpreted as UTC
// before converting.
func (n *Normalizer) Normalize(t time.Time) string {
	if t.Location() == time.Local {
		log.Printf("⚠️  Warning: timestamp %q has no stored offset, assuming UTC", t.Format("2006-01-02 15:04:05"))
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}

	if n.loc != nil {
		t = t.In(n.loc)
	}
	return t.Format(time.RFC3339)
}
