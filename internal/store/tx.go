package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
	"github.com/fivec-maps/catalog-import/internal/catalog"
)

const courseColumns = `id, course_code, section, title, department_code, college_id, location_id,
	instructors, days, meeting_time, seats_available, credit, notes, semester, created_at, updated_at`

// Tx is the unit of work for one pipeline run.
type Tx struct {
	tx         *sql.Tx
	driver     string
	savepoints int
}

// guard runs fn under a fresh savepoint. A failure rolls back to the savepoint only.
func (t *Tx) guard(ctx context.Context, op string, fn func() error) error {
	t.savepoints++
	return savepoint(ctx, t.tx, fmt.Sprintf("sp_%d", t.savepoints), op, fn)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func savepoint(ctx context.Context, ex execer, name, op string, fn func() error) error {
	if _, err := ex.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return apperrors.Storage(op, err)
	}

	if err := fn(); err != nil {
		if _, rbErr := ex.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return apperrors.Storage(op, errors.Join(err, rbErr))
		}
		cause := classify(err)
		if _, relErr := ex.ExecContext(ctx, "RELEASE SAVEPOINT "+name); relErr != nil {
			cause = errors.Join(cause, relErr)
		}
		return apperrors.Storage(op, cause)
	}

	if _, err := ex.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return apperrors.Storage(op, err)
	}
	return nil
}

func (t *Tx) queryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return t.tx.QueryRowContext(ctx, rebind(t.driver, query), args...)
}

func (t *Tx) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.tx.ExecContext(ctx, rebind(t.driver, query), args...)
}

// FindCollege returns the college with code, or nil.
func (t *Tx) FindCollege(ctx context.Context, code string) (*catalog.College, error) {
	var college *catalog.College
	err := t.guard(ctx, "find college", func() error {
		var c catalog.College
		var dbCode string
		err := t.queryRow(ctx, `SELECT id, name, code FROM colleges WHERE code = ?`, code).
			Scan(&c.ID, &c.Name, &dbCode)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		c.Code = catalog.CollegeCode(dbCode)
		college = &c
		return nil
	})
	return college, err
}

// FindLocationByNameSubstring returns the lowest-id location whose name contains
// fragment, ignoring case, or nil.
func (t *Tx) FindLocationByNameSubstring(ctx context.Context, fragment string) (*catalog.Location, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, nil
	}

	var location *catalog.Location
	err := t.guard(ctx, "find location", func() error {
		row := t.queryRow(ctx, `
			SELECT id, name, latitude, longitude, category, college_id
			FROM locations
			WHERE LOWER(name) LIKE '%' || LOWER(?) || '%' ESCAPE '\'
			ORDER BY id ASC
			LIMIT 1
		`, escapeLike(fragment))

		loc, err := scanLocation(row)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		location = loc
		return nil
	})
	return location, err
}

// FindCourse returns the course with the natural key, or nil.
func (t *Tx) FindCourse(ctx context.Context, key catalog.NaturalKey) (*catalog.PersistedCourse, error) {
	var course *catalog.PersistedCourse
	err := t.guard(ctx, "find course", func() error {
		row := t.queryRow(ctx, `SELECT `+courseColumns+`
			FROM courses
			WHERE course_code = ? AND section = ? AND semester = ?`,
			key.CourseCode, key.Section, key.Semester)

		c, err := scanCourse(row)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		course = c
		return nil
	})
	return course, err
}

// InsertCourse inserts a new course. A taken natural key fails with apperrors.ErrDuplicate.
func (t *Tx) InsertCourse(ctx context.Context, f catalog.CourseFields) (*catalog.PersistedCourse, error) {
	var course *catalog.PersistedCourse
	err := t.guard(ctx, "insert course", func() error {
		now := unixNow()
		var id int64
		err := t.queryRow(ctx, `
			INSERT INTO courses (course_code, section, title, department_code, college_id, location_id,
				instructors, days, meeting_time, seats_available, credit, notes, semester, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id
		`, f.CourseCode, f.Section, f.Title, f.DepartmentCode, f.CollegeID, nullInt(f.LocationID),
			f.Instructors, nullString(f.Days), nullString(f.Time), f.SeatsAvailable, f.Credit, f.Notes,
			f.Semester, now, now).Scan(&id)
		if err != nil {
			return err
		}
		course = persisted(id, f, now, now)
		return nil
	})
	return course, err
}

// UpdateCourse overwrites the non-key fields of course id.
func (t *Tx) UpdateCourse(ctx context.Context, id int64, f catalog.CourseFields) (*catalog.PersistedCourse, error) {
	var course *catalog.PersistedCourse
	err := t.guard(ctx, "update course", func() error {
		now := unixNow()
		res, err := t.exec(ctx, `
			UPDATE courses
			SET title = ?, department_code = ?, college_id = ?, location_id = ?, instructors = ?,
				days = ?, meeting_time = ?, seats_available = ?, credit = ?, notes = ?, updated_at = ?
			WHERE id = ?
		`, f.Title, f.DepartmentCode, f.CollegeID, nullInt(f.LocationID), f.Instructors,
			nullString(f.Days), nullString(f.Time), f.SeatsAvailable, f.Credit, f.Notes, now, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("course %d: %w", id, apperrors.ErrNotFound)
		}

		c, err := scanCourse(t.queryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id))
		if err != nil {
			return err
		}
		course = c
		return nil
	})
	return course, err
}

// Commit commits the run's work.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return apperrors.Storage("commit", err)
	}
	return nil
}

// Rollback discards the run's work. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.Storage("rollback", err)
	}
	return nil
}

func persisted(id int64, f catalog.CourseFields, createdAt, updatedAt int64) *catalog.PersistedCourse {
	return &catalog.PersistedCourse{
		ID:             id,
		CourseCode:     f.CourseCode,
		Section:        f.Section,
		Title:          f.Title,
		DepartmentCode: f.DepartmentCode,
		CollegeID:      f.CollegeID,
		LocationID:     f.LocationID,
		Instructors:    f.Instructors,
		Days:           f.Days,
		Time:           f.Time,
		SeatsAvailable: f.SeatsAvailable,
		Credit:         f.Credit,
		Notes:          f.Notes,
		Semester:       f.Semester,
		CreatedAt:      timeFromUnix(createdAt),
		UpdatedAt:      timeFromUnix(updatedAt),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanCourse scans the courseColumns of row followed by any extra destinations.
func scanCourse(row rowScanner, extra ...interface{}) (*catalog.PersistedCourse, error) {
	var c catalog.PersistedCourse
	var locationID sql.NullInt64
	var days, meetingTime sql.NullString
	var createdAt, updatedAt int64

	dest := []interface{}{&c.ID, &c.CourseCode, &c.Section, &c.Title, &c.DepartmentCode, &c.CollegeID,
		&locationID, &c.Instructors, &days, &meetingTime, &c.SeatsAvailable, &c.Credit, &c.Notes,
		&c.Semester, &createdAt, &updatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if locationID.Valid {
		id := locationID.Int64
		c.LocationID = &id
	}
	if days.Valid {
		c.Days = &days.String
	}
	if meetingTime.Valid {
		c.Time = &meetingTime.String
	}
	c.CreatedAt = timeFromUnix(createdAt)
	c.UpdatedAt = timeFromUnix(updatedAt)
	return &c, nil
}

func scanLocation(row rowScanner) (*catalog.Location, error) {
	var loc catalog.Location
	var collegeID sql.NullInt64
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.Category, &collegeID); err != nil {
		return nil, err
	}
	loc.CollegeID = collegeID.Int64
	return &loc, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so fragment matches literally.
func escapeLike(fragment string) string {
	return likeEscaper.Replace(fragment)
}
