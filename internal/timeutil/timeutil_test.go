package timeutil

import (
	"testing"
	"time"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load zone %s: %v", name, err)
	}
	return loc
}

func TestStorageRoundTrip(t *testing.T) {
	chicago := mustZone(t, "America/Chicago")
	n := NewInZone(chicago)

	local := time.Date(2024, 6, 10, 9, 0, 0, 0, chicago)
	stored := n.ToStorage(local)

	if stored.Location() != time.UTC {
		t.Fatalf("expected UTC storage instant, got %s", stored.Location())
	}
	if got := n.ToLocal(stored); !got.Equal(local) {
		t.Fatalf("round trip drift: %s != %s", got, local)
	}
}

func TestStorageRoundTripDropsSubSecond(t *testing.T) {
	n := NewInZone(time.UTC)
	in := time.Date(2024, 6, 10, 9, 0, 0, 999_000_000, time.UTC)
	if got := n.ToStorage(in); got.Nanosecond() != 0 {
		t.Fatalf("expected second precision, got %dns", got.Nanosecond())
	}
}

func TestFormatParseStorage(t *testing.T) {
	n := NewInZone(time.UTC)
	in := time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC)

	wire := n.FormatStorage(in)
	if wire != "2024-06-10 14:30:00" {
		t.Fatalf("unexpected wire form %q", wire)
	}

	out, err := n.ParseStorage(wire)
	if err != nil {
		t.Fatalf("parse storage: %v", err)
	}
	if !out.Equal(in) {
		t.Fatalf("parse drift: %s != %s", out, in)
	}
}

func TestParseStorageRejectsGarbage(t *testing.T) {
	n := NewInZone(time.UTC)
	if _, err := n.ParseStorage("June 10th"); err == nil {
		t.Fatal("expected error for malformed storage instant")
	}
}

func TestToReferenceZoneIndependentOfLocalZone(t *testing.T) {
	eastern := mustZone(t, "America/New_York")
	tokyo := mustZone(t, "Asia/Tokyo")

	instant := time.Date(2024, 6, 10, 13, 0, 0, 0, time.UTC)
	want := instant.In(eastern)

	for _, local := range []*time.Location{time.UTC, tokyo, eastern} {
		n := NewInZone(local)
		got := n.ToReferenceZone(instant)
		if !got.Equal(want) || got.Hour() != want.Hour() {
			t.Fatalf("reference projection changed with local zone %s", local)
		}
	}
}

func TestWithinBusinessHoursEdges(t *testing.T) {
	eastern := mustZone(t, "America/New_York")
	n := NewInZone(eastern)

	tests := []struct {
		name string
		wall time.Time
		want bool
	}{
		{"just before open", time.Date(2024, 6, 10, 7, 59, 0, 0, eastern), false},
		{"at open", time.Date(2024, 6, 10, 8, 0, 0, 0, eastern), true},
		{"mid day", time.Date(2024, 6, 10, 13, 15, 0, 0, eastern), true},
		{"last valid minute", time.Date(2024, 6, 10, 21, 59, 0, 0, eastern), true},
		{"at close", time.Date(2024, 6, 10, 22, 0, 0, 0, eastern), false},
		{"late night", time.Date(2024, 6, 10, 23, 0, 0, 0, eastern), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.WithinBusinessHours(tt.wall); got != tt.want {
				t.Fatalf("WithinBusinessHours(%s) = %v, want %v", tt.wall, got, tt.want)
			}
		})
	}
}

func TestWithinBusinessHoursEvaluatesInReferenceZone(t *testing.T) {
	tokyo := mustZone(t, "Asia/Tokyo")
	n := NewInZone(tokyo)

	// 23:00 Tokyo on June 10 is 10:00 Eastern the same day (EDT): allowed
	// even though the local wall clock is far outside the window.
	lateTokyo := time.Date(2024, 6, 10, 23, 0, 0, 0, tokyo)
	if !n.WithinBusinessHours(lateTokyo) {
		t.Fatal("expected 23:00 Tokyo (10:00 Eastern) to be inside business hours")
	}

	// 13:00 Tokyo is 00:00 Eastern: rejected.
	middayTokyo := time.Date(2024, 6, 10, 13, 0, 0, 0, tokyo)
	if n.WithinBusinessHours(middayTokyo) {
		t.Fatal("expected 13:00 Tokyo (00:00 Eastern) to be outside business hours")
	}
}
