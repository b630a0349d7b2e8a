// Package scheduling decides whether a proposed appointment may be saved and
// persists accepted ones.
package scheduling

import (
	"strings"
	"time"
)

// Appointment is a scheduled meeting between a customer and an assigned
// user. Start and End are UTC instants; local and reference-zone views are
// derived on demand, never stored.
type Appointment struct {
	ID          int       `json:"id"`
	CustomerID  int       `json:"customer_id"`
	UserID      int       `json:"user_id"`
	ContactID   int       `json:"contact_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   string    `json:"updated_by"`
}

// complete reports whether every required field carries a usable value:
// non-blank free text and resolved combo selections.
func (a *Appointment) complete() bool {
	for _, field := range []string{a.Title, a.Description, a.Location, a.Type} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return a.CustomerID > 0 && a.UserID > 0 && a.ContactID > 0
}
