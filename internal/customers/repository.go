package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a customer id resolves to no row.
var ErrNotFound = errors.New("customers: customer not found")

type customersDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists customers in the relational store.
type Repository struct {
	db customersDB
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("customers: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting mocks for tests.
func NewRepositoryWithDB(db customersDB) *Repository {
	return &Repository{db: db}
}

const customerSelect = `
	SELECT c.id, c.name, c.address, c.postal_code, c.phone,
		c.division_id, d.name, d.country_id, co.name,
		c.created_at, c.created_by, c.updated_at, c.updated_by
	FROM customers c
	JOIN first_level_divisions d ON c.division_id = d.id
	JOIN countries co ON d.country_id = co.id`

// NextCustomerID returns one past the highest customer id, or 1 for an
// empty table. Advisory, same caveats as appointment allocation.
func (r *Repository) NextCustomerID(ctx context.Context) (int, error) {
	var next int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM customers`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("customers: next customer id: %w", err)
	}
	return next, nil
}

// Insert writes a new customer row.
func (r *Repository) Insert(ctx context.Context, c *Customer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO customers
			(id, name, address, postal_code, phone, division_id,
			 created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, c.ID, c.Name, c.Address, c.PostalCode, c.Phone, c.DivisionID,
		c.CreatedAt, c.CreatedBy, c.UpdatedAt, c.UpdatedBy)
	if err != nil {
		return fmt.Errorf("customers: insert customer: %w", err)
	}
	return nil
}

// Update rewrites an existing customer; creation audit columns stay as
// written.
func (r *Repository) Update(ctx context.Context, c *Customer) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET name = $2, address = $3, postal_code = $4, phone = $5,
			division_id = $6, updated_at = $7, updated_by = $8
		WHERE id = $1
	`, c.ID, c.Name, c.Address, c.PostalCode, c.Phone, c.DivisionID,
		c.UpdatedAt, c.UpdatedBy)
	if err != nil {
		return fmt.Errorf("customers: update customer %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the customer row only. Callers needing the referential
// invariant go through CascadeDeleter instead.
func (r *Repository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("customers: delete customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all customers with division and country names resolved.
func (r *Repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.Query(ctx, customerSelect+` ORDER BY c.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("customers: list: %w", err)
	}
	return scanCustomers(rows)
}

// SearchByName returns customers whose name contains the fragment,
// case-insensitively.
func (r *Repository) SearchByName(ctx context.Context, fragment string) ([]Customer, error) {
	rows, err := r.db.Query(ctx, customerSelect+`
		WHERE c.name ILIKE '%' || $1 || '%'
		ORDER BY c.id ASC`, fragment)
	if err != nil {
		return nil, fmt.Errorf("customers: search: %w", err)
	}
	return scanCustomers(rows)
}

func scanCustomers(rows pgx.Rows) ([]Customer, error) {
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Address, &c.PostalCode, &c.Phone,
			&c.DivisionID, &c.Division, &c.CountryID, &c.Country,
			&c.CreatedAt, &c.CreatedBy, &c.UpdatedAt, &c.UpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("customers: scan customer: %w", err)
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("customers: iterate customers: %w", rows.Err())
	}
	if out == nil {
		out = []Customer{}
	}
	return out, nil
}
