// Package reports aggregates appointment data for the reporting views.
package reports

import "time"

// TypeMonthCount is one row of the appointment-count-by-type-and-month
// report.
type TypeMonthCount struct {
	Month string `json:"month"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ScheduleEntry is one appointment on a contact's schedule.
type ScheduleEntry struct {
	AppointmentID int       `json:"appointment_id"`
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	CustomerID    int       `json:"customer_id"`
}

// UpcomingAppointment describes an appointment starting soon for a user.
type UpcomingAppointment struct {
	AppointmentID int       `json:"appointment_id"`
	Title         string    `json:"title"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	CustomerID    int       `json:"customer_id"`
	ContactID     int       `json:"contact_id"`
}
