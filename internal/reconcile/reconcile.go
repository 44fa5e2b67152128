// Package reconcile decides whether a parsed course is inserted, updated or skipped
// against the courses already persisted for a semester.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
	"github.com/fivec-maps/catalog-import/internal/catalog"
)

// Mode is the policy for courses whose natural key already exists.
type Mode string

const (
	ModeSkip   Mode = "skip"
	ModeUpdate Mode = "update"

	DefaultMode = ModeSkip
)

// ParseMode parses a mode name. An empty name is DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMode, nil
	case ModeSkip:
		return ModeSkip, nil
	case ModeUpdate:
		return ModeUpdate, nil
	default:
		return "", fmt.Errorf("%w: unknown reconcile mode %q (want skip or update)", apperrors.ErrInvalidConfig, s)
	}
}

// Outcome is what happened to one course.
type Outcome int

const (
	Imported Outcome = iota
	Updated
	Skipped
	Errored
)

func (o Outcome) String() string {
	switch o {
	case Imported:
		return "imported"
	case Updated:
		return "updated"
	case Skipped:
		return "skipped"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the per-course reconciliation result.
type Result struct {
	Key      catalog.NaturalKey
	Outcome  Outcome
	CourseID int64
	Err      error
}

// Store is the write side of the persistence layer. FindCourse returns (nil, nil)
// when the key is absent.
type Store interface {
	FindCourse(ctx context.Context, key catalog.NaturalKey) (*catalog.PersistedCourse, error)
	InsertCourse(ctx context.Context, fields catalog.CourseFields) (*catalog.PersistedCourse, error)
	UpdateCourse(ctx context.Context, id int64, fields catalog.CourseFields) (*catalog.PersistedCourse, error)
}

// Refs are the resolved references for a course. Location may be nil.
type Refs struct {
	College  *catalog.College
	Location *catalog.Location
}

// Reconciler applies one Mode to every course it sees.
type Reconciler struct {
	store Store
	mode  Mode
}

// New creates a Reconciler. An empty mode is DefaultMode.
func New(store Store, mode Mode) *Reconciler {
	if mode == "" {
		mode = DefaultMode
	}
	return &Reconciler{store: store, mode: mode}
}

// Mode returns the reconciler's policy.
func (r *Reconciler) Mode() Mode {
	return r.mode
}

// Reconcile persists course for semester. Store failures come back as an Errored
// result wrapping apperrors.ErrStorage; Reconcile itself never fails.
func (r *Reconciler) Reconcile(ctx context.Context, course *catalog.ParsedCourse, semester string, refs Refs) Result {
	key := course.Key(semester)
	result := Result{Key: key}

	if refs.College == nil {
		return errored(result, apperrors.Storage("reconciling "+key.String(),
			fmt.Errorf("college reference: %w", apperrors.ErrNotFound)))
	}

	existing, err := r.store.FindCourse(ctx, key)
	if err != nil {
		return errored(result, apperrors.Storage("finding course "+key.String(), err))
	}

	fields := catalog.FieldsFrom(course, semester, refs.College, refs.Location)

	if existing != nil {
		result.CourseID = existing.ID
		if r.mode != ModeUpdate {
			result.Outcome = Skipped
			return result
		}

		// Updates never move a course to another college.
		fields.CollegeID = existing.CollegeID
		if _, err := r.store.UpdateCourse(ctx, existing.ID, fields); err != nil {
			return errored(result, apperrors.Storage("updating course "+key.String(), err))
		}
		result.Outcome = Updated
		return result
	}

	inserted, err := r.store.InsertCourse(ctx, fields)
	if err != nil {
		return errored(result, apperrors.Storage("inserting course "+key.String(), err))
	}
	result.CourseID = inserted.ID
	result.Outcome = Imported
	return result
}

func errored(r Result, err error) Result {
	r.Outcome = Errored
	r.Err = err
	return r
}
