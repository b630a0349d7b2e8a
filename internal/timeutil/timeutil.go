// Package timeutil converts appointment instants between the UTC storage
// representation, the caller's local zone, and the fixed reference zone used
// for business-hours checks.
package timeutil

import (
	"fmt"
	"time"
)

// StorageLayout is the wire format for instants crossing the persistence
// boundary. Stored values are always UTC.
const StorageLayout = "2006-01-02 15:04:05"

const referenceZoneName = "America/New_York"

var (
	businessOpen  = 8 * 60  // minutes since midnight, inclusive
	businessClose = 22 * 60 // minutes since midnight, exclusive
)

// Normalizer derives local, storage and reference-zone views of an instant.
// The zero value is not usable; construct with New or NewInZone.
type Normalizer struct {
	local     *time.Location
	reference *time.Location
}

// New returns a Normalizer using the process's local zone for display
// conversions.
func New() *Normalizer {
	return NewInZone(time.Local)
}

// NewInZone returns a Normalizer with an explicit local zone. Tests and
// callers serving remote clients pass the zone here instead of mutating
// the environment.
func NewInZone(local *time.Location) *Normalizer {
	if local == nil {
		local = time.UTC
	}
	ref, err := time.LoadLocation(referenceZoneName)
	if err != nil {
		// The IANA database always carries America/New_York; if the zone
		// data is missing entirely the binary cannot enforce business hours.
		panic(fmt.Sprintf("timeutil: load reference zone: %v", err))
	}
	return &Normalizer{local: local, reference: ref}
}

// ToStorage converts an instant to its UTC persistence form, truncated to
// second precision.
func (n *Normalizer) ToStorage(t time.Time) time.Time {
	return t.Truncate(time.Second).UTC()
}

// ToLocal converts a stored UTC instant to the configured local zone.
func (n *Normalizer) ToLocal(t time.Time) time.Time {
	return t.In(n.local)
}

// ToReferenceZone projects an instant onto the fixed reference zone's wall
// clock. Only business-hours evaluation reads this view.
func (n *Normalizer) ToReferenceZone(t time.Time) time.Time {
	return t.In(n.reference)
}

// FormatStorage renders an instant in the storage wire format.
func (n *Normalizer) FormatStorage(t time.Time) string {
	return n.ToStorage(t).Format(StorageLayout)
}

// ParseStorage decodes a storage wire string back to a UTC instant.
func (n *Normalizer) ParseStorage(s string) (time.Time, error) {
	t, err := time.ParseInLocation(StorageLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: parse storage instant %q: %w", s, err)
	}
	return t, nil
}

// WithinBusinessHours reports whether the instant's reference-zone wall
// clock falls inside the operating window [08:00, 22:00). The caller's own
// zone never influences the result.
func (n *Normalizer) WithinBusinessHours(t time.Time) bool {
	ref := n.ToReferenceZone(t)
	minutes := ref.Hour()*60 + ref.Minute()
	return minutes >= businessOpen && minutes < businessClose
}
