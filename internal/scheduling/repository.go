package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when an appointment id resolves to no row.
var ErrNotFound = errors.New("scheduling: appointment not found")

// schedulingDB is the slice of pgxpool the repository needs; pgxmock
// satisfies it in tests.
type schedulingDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists appointments in the relational store.
type Repository struct {
	db schedulingDB
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("scheduling: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting mocks for tests.
func NewRepositoryWithDB(db schedulingDB) *Repository {
	return &Repository{db: db}
}

const appointmentColumns = `id, customer_id, user_id, contact_id, title, description, location, type,
		start_time, end_time, created_at, created_by, updated_at, updated_by`

// NextAppointmentID returns one past the highest id currently stored, or 1
// for an empty table. Advisory only: concurrent allocations can race, and
// the store's primary key is the final arbiter.
func (r *Repository) NextAppointmentID(ctx context.Context) (int, error) {
	var next int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM appointments`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("scheduling: next appointment id: %w", err)
	}
	return next, nil
}

// Insert writes a new appointment row.
func (r *Repository) Insert(ctx context.Context, appt *Appointment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments
			(id, customer_id, user_id, contact_id, title, description, location, type,
			 start_time, end_time, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, appt.ID, appt.CustomerID, appt.UserID, appt.ContactID,
		appt.Title, appt.Description, appt.Location, appt.Type,
		appt.Start, appt.End,
		appt.CreatedAt, appt.CreatedBy, appt.UpdatedAt, appt.UpdatedBy)
	if err != nil {
		return fmt.Errorf("scheduling: insert appointment: %w", err)
	}
	return nil
}

// Update rewrites an existing appointment. Creation audit columns are left
// untouched; only the modification pair is stamped.
func (r *Repository) Update(ctx context.Context, appt *Appointment) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments
		SET customer_id = $2, user_id = $3, contact_id = $4,
			title = $5, description = $6, location = $7, type = $8,
			start_time = $9, end_time = $10,
			updated_at = $11, updated_by = $12
		WHERE id = $1
	`, appt.ID, appt.CustomerID, appt.UserID, appt.ContactID,
		appt.Title, appt.Description, appt.Location, appt.Type,
		appt.Start, appt.End, appt.UpdatedAt, appt.UpdatedBy)
	if err != nil {
		return fmt.Errorf("scheduling: update appointment %d: %w", appt.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an appointment row by id.
func (r *Repository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("scheduling: delete appointment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForCustomer returns every appointment owned by the customer, ordered
// by start. Overlap checks run against this set; the caller does not need
// to pre-filter anything.
func (r *Repository) ListForCustomer(ctx context.Context, customerID int) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE customer_id = $1
		ORDER BY start_time ASC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("scheduling: list for customer %d: %w", customerID, err)
	}
	return scanAppointments(rows)
}

// ListBetween returns appointments whose start falls inside [from, to),
// used for the week and month views.
func (r *Repository) ListBetween(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY start_time ASC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("scheduling: list between: %w", err)
	}
	return scanAppointments(rows)
}

// ListAll returns every appointment ordered by start.
func (r *Repository) ListAll(ctx context.Context) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY start_time ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("scheduling: list all: %w", err)
	}
	return scanAppointments(rows)
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(
			&a.ID, &a.CustomerID, &a.UserID, &a.ContactID,
			&a.Title, &a.Description, &a.Location, &a.Type,
			&a.Start, &a.End,
			&a.CreatedAt, &a.CreatedBy, &a.UpdatedAt, &a.UpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("scheduling: scan appointment: %w", err)
		}
		a.Start = a.Start.UTC()
		a.End = a.End.UTC()
		out = append(out, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("scheduling: iterate appointments: %w", rows.Err())
	}
	if out == nil {
		out = []Appointment{}
	}
	return out, nil
}
