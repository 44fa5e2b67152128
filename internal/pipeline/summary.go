package pipeline

import (
	"errors"
	"sort"
	"time"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
	"github.com/fivec-maps/catalog-import/internal/catalog"
	"github.com/fivec-maps/catalog-import/internal/reconcile"
)

// RecordError is one per-record failure or note reported in a Summary.
type RecordError struct {
	Row     int    `json:"row"`
	Key     string `json:"key,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Summary is the report of one run. It is the only place per-record failures surface.
type Summary struct {
	RunID      string         `json:"run_id"`
	Semester   string         `json:"semester"`
	Source     string         `json:"source"`
	Mode       reconcile.Mode `json:"mode,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	TableFound bool           `json:"table_found"`

	catalog.RunCounts

	// Fallbacks counts courses whose college resolved to the default.
	Fallbacks int `json:"fallbacks"`
	// Unlocated counts courses reconciled without a location.
	Unlocated int `json:"unlocated"`
	// Ambiguous counts courses with at least one extraction note.
	Ambiguous int `json:"ambiguous"`

	Errors []RecordError `json:"errors"`

	Courses []*catalog.ParsedCourse `json:"-"`
}

// Duration returns how long the run took.
func (s *Summary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// Counts returns a copy of the run totals.
func (s *Summary) Counts() *catalog.RunCounts {
	counts := s.RunCounts
	return &counts
}

func (s *Summary) addError(row int, key string, err error) {
	entry := RecordError{
		Row:     row,
		Key:     key,
		Kind:    apperrors.Kind(err),
		Message: err.Error(),
	}

	var rec *apperrors.RecordError
	if errors.As(err, &rec) {
		if entry.Row == 0 {
			entry.Row = rec.Row
		}
		if entry.Key == "" {
			entry.Key = rec.Key
		}
		if rec.Message != "" {
			entry.Message = rec.Message
		}
	}
	s.Errors = append(s.Errors, entry)
}

func (s *Summary) sortErrors() {
	sort.SliceStable(s.Errors, func(i, j int) bool {
		return s.Errors[i].Row < s.Errors[j].Row
	})
}

// Snapshot returns the JSON snapshot of the run's parsed courses.
func (s *Summary) Snapshot() *catalog.Snapshot {
	snap := catalog.NewSnapshot(s.Semester, s.Source, s.Courses)
	snap.RunID = s.RunID
	snap.Counts = s.Counts()
	return snap
}
