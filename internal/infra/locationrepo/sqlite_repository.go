package locationrepo

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/yanqian/weather-outfit/internal/domain/location"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS location_registry (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS saved_locations (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL
	);
`

// SQLiteRepository stores the location list in a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create location schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Load implements location.Repository.
func (r *SQLiteRepository) Load(ctx context.Context) ([]location.Location, bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM location_registry WHERE id = 1`).Scan(&count); err != nil {
		return nil, false, fmt.Errorf("check location registry: %w", err)
	}
	if count == 0 {
		return nil, false, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, latitude, longitude FROM saved_locations ORDER BY position`)
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

// Save implements location.Repository.
func (r *SQLiteRepository) Save(ctx context.Context, locations []location.Location) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO location_registry (id, updated_at) VALUES (1, CURRENT_TIMESTAMP)`); err != nil {
		return fmt.Errorf("mark registry: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM saved_locations`); err != nil {
		return fmt.Errorf("clear locations: %w", err)
	}
	for i, loc := range capped(locations) {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO saved_locations (id, position, name, latitude, longitude) VALUES (?, ?, ?, ?, ?)`,
			loc.ID, i, loc.Name, loc.Latitude, loc.Longitude,
		); err != nil {
			return fmt.Errorf("insert location %s: %w", loc.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var _ location.Repository = (*SQLiteRepository)(nil)
