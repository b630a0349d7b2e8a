package scheduling

import (
	"github.com/apptbook/scheduling-platform/internal/timeutil"
)

// Reason identifies why a candidate appointment was rejected.
type Reason string

const (
	ReasonIncompleteInput      Reason = "incomplete_input"
	ReasonInvalidChronology    Reason = "invalid_chronology"
	ReasonOutsideBusinessHours Reason = "outside_business_hours"
	ReasonSchedulingConflict   Reason = "scheduling_conflict"
	ReasonStoreUnavailable     Reason = "store_unavailable"
)

// Decision is the outcome of a single validation attempt. Exactly one of
// Accepted or Reason is meaningful; Appointment is populated only after an
// accepted candidate has been finalized for persistence.
type Decision struct {
	Accepted    bool         `json:"accepted"`
	Reason      Reason       `json:"reason,omitempty"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

func rejected(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Validate runs the ordered checks for a candidate appointment against the
// customer's existing appointments, stopping at the first failure:
//
//  1. required fields present and selections resolved
//  2. start strictly before end
//  3. both endpoints inside the reference-zone business window
//  4. no interval conflict with the same customer's other appointments
//
// It is pure: no store access and no side effects. Callers supply the
// customer's current appointment set.
func Validate(candidate Appointment, existing []Appointment, norm *timeutil.Normalizer) Decision {
	if !candidate.complete() {
		return rejected(ReasonIncompleteInput)
	}
	if !candidate.Start.Before(candidate.End) {
		return rejected(ReasonInvalidChronology)
	}
	if !norm.WithinBusinessHours(candidate.Start) || !norm.WithinBusinessHours(candidate.End) {
		return rejected(ReasonOutsideBusinessHours)
	}
	if Overlaps(candidate, existing) {
		return rejected(ReasonSchedulingConflict)
	}
	return Decision{Accepted: true}
}
