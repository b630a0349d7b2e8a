package territory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type territoryDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository reads territory reference data from Postgres.
type Repository struct {
	db territoryDB
}

// NewRepository creates a territory repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("territory: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB creates a repository over any pgx-compatible
// querier. Tests use this with pgxmock.
func NewRepositoryWithDB(db territoryDB) *Repository {
	return &Repository{db: db}
}

// Countries returns every country, ordered by id.
func (r *Repository) Countries(ctx context.Context) ([]Country, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM countries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("territory: list countries: %w", err)
	}
	defer rows.Close()

	out := []Country{}
	for rows.Next() {
		var c Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("territory: scan country: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DivisionsByCountry returns the first-level divisions of one country.
func (r *Repository) DivisionsByCountry(ctx context.Context, countryID int) ([]Division, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, country_id FROM first_level_divisions WHERE country_id = $1 ORDER BY id`,
		countryID)
	if err != nil {
		return nil, fmt.Errorf("territory: list divisions for country %d: %w", countryID, err)
	}
	defer rows.Close()

	out := []Division{}
	for rows.Next() {
		var d Division
		if err := rows.Scan(&d.ID, &d.Name, &d.CountryID); err != nil {
			return nil, fmt.Errorf("territory: scan division: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
