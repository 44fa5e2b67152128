package store

import (
	"context"
	"database/sql"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
	"github.com/fivec-maps/catalog-import/internal/catalog"
)

// FindCollege returns the college with code outside of a run, or nil.
func (d *DB) FindCollege(ctx context.Context, code string) (*catalog.College, error) {
	var c catalog.College
	var dbCode string
	err := d.db.QueryRowContext(ctx, d.rebind(`SELECT id, name, code FROM colleges WHERE code = ?`), code).
		Scan(&c.ID, &c.Name, &dbCode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Storage("find college", err)
	}
	c.Code = catalog.CollegeCode(dbCode)
	return &c, nil
}

// ListColleges returns every college ordered by id.
func (d *DB) ListColleges(ctx context.Context) ([]catalog.College, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, name, code FROM colleges ORDER BY id ASC`)
	if err != nil {
		return nil, apperrors.Storage("query colleges", err)
	}
	defer rows.Close()

	colleges := make([]catalog.College, 0, len(catalog.KnownColleges))
	for rows.Next() {
		var c catalog.College
		var code string
		if err := rows.Scan(&c.ID, &c.Name, &code); err != nil {
			return nil, apperrors.Storage("scan college", err)
		}
		c.Code = catalog.CollegeCode(code)
		colleges = append(colleges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("query colleges", err)
	}
	return colleges, nil
}

// ListLocations returns every location ordered by id.
func (d *DB) ListLocations(ctx context.Context) ([]catalog.Location, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, latitude, longitude, category, college_id
		FROM locations
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, apperrors.Storage("query locations", err)
	}
	defer rows.Close()

	var locations []catalog.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, apperrors.Storage("scan location", err)
		}
		locations = append(locations, *loc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("query locations", err)
	}
	return locations, nil
}

// CountCourses returns the number of courses in semester, or of all courses when
// semester is empty.
func (d *DB) CountCourses(ctx context.Context, semester string) (int, error) {
	query := `SELECT COUNT(*) FROM courses`
	var args []interface{}
	if semester != "" {
		query += ` WHERE semester = ?`
		args = append(args, semester)
	}

	var n int
	if err := d.db.QueryRowContext(ctx, d.rebind(query), args...).Scan(&n); err != nil {
		return 0, apperrors.Storage("count courses", err)
	}
	return n, nil
}

const listingColumns = `c.id, c.course_code, c.section, c.title, c.department_code, c.college_id, c.location_id,
	c.instructors, c.days, c.meeting_time, c.seats_available, c.credit, c.notes, c.semester,
	c.created_at, c.updated_at, col.code, l.name`

// ListListings returns the courses of semester joined with their college code and
// location name, ordered by course code, section and semester. An empty semester lists
// every course.
func (d *DB) ListListings(ctx context.Context, semester string) ([]catalog.Listing, error) {
	query := `SELECT ` + listingColumns + `
		FROM courses c
		JOIN colleges col ON col.id = c.college_id
		LEFT JOIN locations l ON l.id = c.location_id`
	var args []interface{}
	if semester != "" {
		query += ` WHERE c.semester = ?`
		args = append(args, semester)
	}
	query += ` ORDER BY c.course_code ASC, c.section ASC, c.semester ASC`

	rows, err := d.db.QueryContext(ctx, d.rebind(query), args...)
	if err != nil {
		return nil, apperrors.Storage("query listings", err)
	}
	defer rows.Close()

	listings := make([]catalog.Listing, 0)
	for rows.Next() {
		var code string
		var location sql.NullString
		c, err := scanCourse(rows, &code, &location)
		if err != nil {
			return nil, apperrors.Storage("scan listing", err)
		}
		listings = append(listings, catalog.Listing{
			Course:   c,
			College:  catalog.CollegeCode(code),
			Location: location.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("query listings", err)
	}
	return listings, nil
}
