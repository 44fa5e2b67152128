package catalog

import (
	"sort"
	"time"
)

// RunCounts are the per-run totals reported by the pipeline.
type RunCounts struct {
	Parsed    int `json:"parsed"`
	Imported  int `json:"imported"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Errored   int `json:"errored"`
	Malformed int `json:"malformed"`
}

// Snapshot is the JSON record of one scrape run.
type Snapshot struct {
	Semester    string          `json:"semester"`
	Source      string          `json:"source"`
	RunID       string          `json:"run_id,omitempty"`
	GeneratedAt string          `json:"generated_at"` // RFC3339
	Courses     []*ParsedCourse `json:"courses"`
	Counts      *RunCounts      `json:"counts,omitempty"`
}

// NewSnapshot creates a snapshot of courses for semester.
func NewSnapshot(semester, source string, courses []*ParsedCourse) *Snapshot {
	if courses == nil {
		courses = make([]*ParsedCourse, 0)
	}
	return &Snapshot{
		Semester:    semester,
		Source:      source,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Courses:     courses,
	}
}

// Index returns the snapshot's courses keyed by Label. Later rows win on duplicates.
func (s *Snapshot) Index() map[string]*ParsedCourse {
	index := make(map[string]*ParsedCourse, len(s.Courses))
	for _, c := range s.Courses {
		index[c.Label()] = c
	}
	return index
}

// DiffResult contains the differences between a previous snapshot and a fresh scrape
type DiffResult struct {
	New     []*ParsedCourse `json:"new"`
	Removed []*ParsedCourse `json:"removed"`
	Changes []*CourseChange `json:"changes"`
}

// Empty reports whether nothing changed.
func (d *DiffResult) Empty() bool {
	return len(d.New) == 0 && len(d.Removed) == 0 && len(d.Changes) == 0
}

// CourseChange is one field that differs between two scrapes of the same course.
type CourseChange struct {
	Course   string `json:"course"` // CODE-SECTION
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// Diff compares current courses against a previous snapshot of the same semester.
func Diff(previous *Snapshot, current []*ParsedCourse) *DiffResult {
	result := &DiffResult{
		New:     make([]*ParsedCourse, 0),
		Removed: make([]*ParsedCourse, 0),
		Changes: make([]*CourseChange, 0),
	}

	prevIndex := map[string]*ParsedCourse{}
	if previous != nil {
		prevIndex = previous.Index()
	}

	seen := make(map[string]bool, len(current))
	for _, c := range current {
		label := c.Label()
		if seen[label] {
			continue
		}
		seen[label] = true

		old, exists := prevIndex[label]
		if !exists {
			result.New = append(result.New, c)
			continue
		}
		result.Changes = append(result.Changes, DetectChanges(old, c)...)
	}

	for label, old := range prevIndex {
		if !seen[label] {
			result.Removed = append(result.Removed, old)
		}
	}

	sort.Slice(result.New, func(i, j int) bool {
		return result.New[i].Label() < result.New[j].Label()
	})
	sort.Slice(result.Removed, func(i, j int) bool {
		return result.Removed[i].Label() < result.Removed[j].Label()
	})
	sort.SliceStable(result.Changes, func(i, j int) bool {
		return result.Changes[i].Course < result.Changes[j].Course
	})

	return result
}

// DetectChanges returns the tracked fields that differ between two versions of a course.
func DetectChanges(previous, current *ParsedCourse) []*CourseChange {
	if previous == nil || current == nil {
		return nil
	}

	label := current.Label()
	pairs := []struct {
		field    string
		old, new string
	}{
		{"title", previous.Title, current.Title},
		{"days", Deref(previous.Days), Deref(current.Days)},
		{"time_range", Deref(previous.TimeRange), Deref(current.TimeRange)},
		{"building", Deref(previous.Building), Deref(current.Building)},
		{"room", Deref(previous.Room), Deref(current.Room)},
		{"instructors", previous.Instructors, current.Instructors},
		{"seats_available", previous.SeatsAvailable, current.SeatsAvailable},
	}

	var changes []*CourseChange
	for _, p := range pairs {
		if p.old == p.new {
			continue
		}
		changes = append(changes, &CourseChange{
			Course:   label,
			Field:    p.field,
			OldValue: p.old,
			NewValue: p.new,
		})
	}
	return changes
}
