package reports

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// UpcomingWindow is how far ahead the upcoming-appointment lookup scans.
const UpcomingWindow = 15 * time.Minute

// Repository runs the reporting queries over database/sql.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a reports repository.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		panic("reports: sql db required")
	}
	return &Repository{db: db}
}

// CountByTypeAndMonth groups appointments by calendar month and type.
func (r *Repository) CountByTypeAndMonth(ctx context.Context) ([]TypeMonthCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT to_char(start_time, 'FMMonth') AS month, type, COUNT(*) AS count
		FROM appointments
		GROUP BY month, type
		ORDER BY month, type`)
	if err != nil {
		return nil, fmt.Errorf("reports: count by type and month: %w", err)
	}
	defer rows.Close()

	out := []TypeMonthCount{}
	for rows.Next() {
		var row TypeMonthCount
		if err := rows.Scan(&row.Month, &row.Type, &row.Count); err != nil {
			return nil, fmt.Errorf("reports: scan count row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ContactSchedule lists a contact's appointments in start order.
func (r *Repository) ContactSchedule(ctx context.Context, contactID int) ([]ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, type, description, start_time, end_time, customer_id
		FROM appointments
		WHERE contact_id = $1
		ORDER BY start_time`, contactID)
	if err != nil {
		return nil, fmt.Errorf("reports: schedule for contact %d: %w", contactID, err)
	}
	defer rows.Close()

	out := []ScheduleEntry{}
	for rows.Next() {
		var e ScheduleEntry
		if err := rows.Scan(&e.AppointmentID, &e.Title, &e.Type, &e.Description,
			&e.Start, &e.End, &e.CustomerID); err != nil {
			return nil, fmt.Errorf("reports: scan schedule row: %w", err)
		}
		e.Start = e.Start.UTC()
		e.End = e.End.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpcomingForUser returns the user's next appointment starting within
// UpcomingWindow of now, or nil when there is none.
func (r *Repository) UpcomingForUser(ctx context.Context, userID int, now time.Time) (*UpcomingAppointment, error) {
	now = now.UTC()
	var u UpcomingAppointment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, start_time, end_time, customer_id, contact_id
		FROM appointments
		WHERE user_id = $1 AND start_time BETWEEN $2 AND $3
		ORDER BY start_time
		LIMIT 1`, userID, now, now.Add(UpcomingWindow)).Scan(
		&u.AppointmentID, &u.Title, &u.Start, &u.End, &u.CustomerID, &u.ContactID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reports: upcoming for user %d: %w", userID, err)
	}
	u.Start = u.Start.UTC()
	u.End = u.End.UTC()
	return &u, nil
}
