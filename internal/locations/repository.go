// Package locations persists the user's saved viewports, so the
// dashboard can reopen on the location it was last showing.
package locations

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mwhitfield/stormview/internal/database"
	"github.com/mwhitfield/stormview/internal/models"
	_ "modernc.org/sqlite"
)

// Location is one saved viewport with a user-chosen name.
type Location struct {
	ID        int64
	Name      string
	Viewport  models.Viewport
	CreatedAt time.Time
}

// Repository handles persistence for saved locations
type Repository struct {
	dbPath string
}

// NewRepository creates a repository against the shared database.
func NewRepository() *Repository {
	return &Repository{dbPath: database.DBPath()}
}

// NewRepositoryAt creates a repository against a specific database file.
func NewRepositoryAt(dbPath string) *Repository {
	return &Repository{dbPath: dbPath}
}

// Save stores a location, replacing any existing entry with the same name.
func (r *Repository) Save(loc *Location) error {
	// Ensure schema exists (safe to call multiple times)
	if err := database.EnsureUserSchema(r.dbPath); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	query := `
		INSERT INTO saved_locations (name, latitude, longitude, zoom, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			zoom = excluded.zoom,
			created_at = excluded.created_at
	`

	if loc.CreatedAt.IsZero() {
		loc.CreatedAt = time.Now()
	}

	res, err := db.Exec(query,
		loc.Name,
		loc.Viewport.Lat,
		loc.Viewport.Lon,
		loc.Viewport.Zoom,
		loc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving location: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	loc.ID = id

	return nil
}

// Get retrieves a saved location by name.
func (r *Repository) Get(name string) (*Location, error) {
	if err := database.EnsureUserSchema(r.dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	row := db.QueryRow(
		"SELECT id, name, latitude, longitude, zoom, created_at FROM saved_locations WHERE name = ?",
		name,
	)

	var loc Location
	err = row.Scan(&loc.ID, &loc.Name, &loc.Viewport.Lat, &loc.Viewport.Lon, &loc.Viewport.Zoom, &loc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no saved location named %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading location: %w", err)
	}

	return &loc, nil
}

// List retrieves all saved locations ordered by name.
func (r *Repository) List() ([]Location, error) {
	if err := database.EnsureUserSchema(r.dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query("SELECT id, name, latitude, longitude, zoom, created_at FROM saved_locations ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var loc Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Viewport.Lat, &loc.Viewport.Lon, &loc.Viewport.Zoom, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// Delete removes a saved location by name.
func (r *Repository) Delete(name string) error {
	if err := database.EnsureUserSchema(r.dbPath); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", r.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec("DELETE FROM saved_locations WHERE name = ?", name); err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	return nil
}
