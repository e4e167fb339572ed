package locationrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/weather-outfit/internal/domain/location"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS location_registry (
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS saved_locations (
		id TEXT PRIMARY KEY,
		position SMALLINT NOT NULL,
		name TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	);
`

// PostgresRepository implements location.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the tables when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create location schema: %w", err)
	}
	return nil
}

// Load reports found=false until the registry row has been written once.
func (r *PostgresRepository) Load(ctx context.Context) ([]location.Location, bool, error) {
	var initialized bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM location_registry WHERE id = 1)`).Scan(&initialized); err != nil {
		return nil, false, fmt.Errorf("check location registry: %w", err)
	}
	if !initialized {
		return nil, false, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, latitude, longitude
		FROM saved_locations
		ORDER BY position
	`)
	if err != nil {
		return nil, false, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	var out []location.Location
	for rows.Next() {
		var loc location.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude); err != nil {
			return nil, false, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, loc)
	}
	return out, true, rows.Err()
}

// Save replaces the stored list in one transaction.
func (r *PostgresRepository) Save(ctx context.Context, locations []location.Location) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO location_registry (id, updated_at) VALUES (1, now())
		ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at
	`); err != nil {
		return fmt.Errorf("mark registry: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM saved_locations`); err != nil {
		return fmt.Errorf("clear locations: %w", err)
	}
	for i, loc := range capped(locations) {
		if _, err := tx.Exec(ctx, `
			INSERT INTO saved_locations (id, position, name, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5)
		`, loc.ID, i, loc.Name, loc.Latitude, loc.Longitude); err != nil {
			return fmt.Errorf("insert location %s: %w", loc.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var _ location.Repository = (*PostgresRepository)(nil)
