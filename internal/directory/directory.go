// Package directory serves the contact and user rosters appointments
// reference by id.
package directory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Contact is a company contact an appointment is booked with.
type Contact struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// User is a scheduling actor. Credentials never leave the store.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type directoryDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository reads the contact and user rosters from Postgres.
type Repository struct {
	db directoryDB
}

// NewRepository creates a directory repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("directory: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB creates a repository over any pgx-compatible
// querier. Tests use this with pgxmock.
func NewRepositoryWithDB(db directoryDB) *Repository {
	return &Repository{db: db}
}

// Contacts returns every contact, ordered by id.
func (r *Repository) Contacts(ctx context.Context) ([]Contact, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, email FROM contacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("directory: list contacts: %w", err)
	}
	defer rows.Close()

	out := []Contact{}
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, fmt.Errorf("directory: scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Users returns every user, ordered by id.
func (r *Repository) Users(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("directory: list users: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("directory: scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
