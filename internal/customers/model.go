// Package customers manages customer records and the referential invariant
// binding them to their appointments.
package customers

import "time"

// Customer is an owning party for appointments. Division and Country are
// denormalized display names resolved through first_level_divisions.
type Customer struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	PostalCode string    `json:"postal_code"`
	Phone      string    `json:"phone"`
	DivisionID int       `json:"division_id"`
	Division   string    `json:"division"`
	CountryID  int       `json:"country_id"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  string    `json:"created_by"`
	UpdatedAt  time.Time `json:"updated_at"`
	UpdatedBy  string    `json:"updated_by"`
}
