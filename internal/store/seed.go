package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
	"github.com/fivec-maps/catalog-import/internal/catalog"
)

// SeedColleges inserts the colleges that do not exist yet and returns how many were added.
// Running it again is a no-op.
func (d *DB) SeedColleges(ctx context.Context, colleges []catalog.College) (int, error) {
	added := 0
	var finalErr error

	for _, c := range colleges {
		res, err := d.db.ExecContext(ctx, d.rebind(`
			INSERT INTO colleges (name, code) VALUES (?, ?)
			ON CONFLICT (code) DO NOTHING
		`), c.Name, string(c.Code))
		if err != nil {
			finalErr = errors.Join(finalErr, fmt.Errorf("college %s: %w", c.Code, err))
			continue
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}

	if finalErr != nil {
		return added, apperrors.Storage("seeding colleges", finalErr)
	}
	return added, nil
}

// SeedLocations inserts the locations for college code that do not exist yet, matched
// by name, and returns how many were added. The college must already be seeded.
func (d *DB) SeedLocations(ctx context.Context, code catalog.CollegeCode, locations []catalog.Location) (int, error) {
	college, err := d.FindCollege(ctx, string(code))
	if err != nil {
		return 0, err
	}
	if college == nil {
		return 0, apperrors.Storage("seeding locations", fmt.Errorf("college %s: %w", code, apperrors.ErrNotFound))
	}

	added := 0
	var finalErr error
	for _, loc := range locations {
		res, err := d.db.ExecContext(ctx, d.rebind(`
			INSERT INTO locations (name, latitude, longitude, category, college_id)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (name) DO NOTHING
		`), loc.Name, loc.Latitude, loc.Longitude, loc.Category, college.ID)
		if err != nil {
			finalErr = errors.Join(finalErr, fmt.Errorf("location %q: %w", loc.Name, err))
			continue
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}

	if finalErr != nil {
		return added, apperrors.Storage("seeding locations", finalErr)
	}
	return added, nil
}
