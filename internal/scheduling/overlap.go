package scheduling

// Overlaps reports whether the candidate's [Start, End) interval conflicts
// with any other appointment for the same customer. The candidate's own id
// is excluded so edits never conflict with their pre-edit row, and
// half-open semantics let one appointment start exactly when another ends.
func Overlaps(candidate Appointment, existing []Appointment) bool {
	for _, other := range existing {
		if other.ID == candidate.ID && candidate.ID != 0 {
			continue
		}
		if other.CustomerID != candidate.CustomerID {
			continue
		}
		if candidate.Start.Before(other.End) && other.Start.Before(candidate.End) {
			return true
		}
	}
	return false
}
