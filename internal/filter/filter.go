// Package filter narrows stored course listings for the courses and export-ics commands.
//
// Every non-empty criterion must match. Within a criterion any one value is enough:
//   - Departments and Colleges compare codes exactly (case-insensitive)
//   - Days keeps courses meeting on at least one of the given weekdays
//   - Instructors, Buildings and Query are case-insensitive substring matches
//   - From and Until keep courses whose meeting time lies inside the window
//
// Example usage:
//
//	f := filter.New()
//	f.Colleges = []catalog.CollegeCode{catalog.Pomona}
//	f.Days = catalog.ParseDays("TR")
//	listings = f.Apply(listings)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/fivec-maps/catalog-import/internal/catalog"
)

// Filter holds course listing criteria.
type Filter struct {
	Departments []string              `json:"departments,omitempty"`
	Colleges    []catalog.CollegeCode `json:"colleges,omitempty"`
	Days        []time.Weekday        `json:"days,omitempty"`
	Instructors []string              `json:"instructors,omitempty"`
	Buildings   []string              `json:"buildings,omitempty"`

	// Query matches course code or title.
	Query string `json:"query,omitempty"`

	From  *catalog.ClockTime `json:"from,omitempty"`
	Until *catalog.ClockTime `json:"until,omitempty"`
}

// New returns a filter with no active criteria.
func New() *Filter {
	return &Filter{}
}

// IsEmpty reports whether the filter would match every listing.
func (f *Filter) IsEmpty() bool {
	return len(f.Departments) == 0 &&
		len(f.Colleges) == 0 &&
		len(f.Days) == 0 &&
		len(f.Instructors) == 0 &&
		len(f.Buildings) == 0 &&
		strings.TrimSpace(f.Query) == "" &&
		f.From == nil &&
		f.Until == nil
}

// Matches reports whether l satisfies all active criteria.
// Day and time criteria never match a course without a parsed schedule.
func (f *Filter) Matches(l catalog.Listing) bool {
	if f.IsEmpty() {
		return true
	}
	c := l.Course
	if c == nil {
		return false
	}

	if len(f.Departments) > 0 && !equalsAny(c.DepartmentCode, f.Departments) {
		return false
	}

	if len(f.Colleges) > 0 {
		matched := false
		for _, code := range f.Colleges {
			if strings.EqualFold(string(l.College), string(code)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Days) > 0 {
		if c.Days == nil || !meetsOnAny(catalog.ParseDays(*c.Days), f.Days) {
			return false
		}
	}

	if len(f.Instructors) > 0 && !containsAny(c.Instructors, f.Instructors) {
		return false
	}

	if len(f.Buildings) > 0 && !containsAny(l.Location, f.Buildings) {
		return false
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		if !containsAny(c.CourseCode, []string{q}) && !containsAny(c.Title, []string{q}) {
			return false
		}
	}

	if f.From != nil || f.Until != nil {
		if c.Time == nil {
			return false
		}
		start, end, err := catalog.ParseTimeRange(*c.Time)
		if err != nil {
			return false
		}
		if f.From != nil && start < *f.From {
			return false
		}
		if f.Until != nil && end > *f.Until {
			return false
		}
	}

	return true
}

// Apply returns the listings matching f. An empty filter returns listings unchanged.
func (f *Filter) Apply(listings []catalog.Listing) []catalog.Listing {
	if f.IsEmpty() {
		return listings
	}

	var filtered []catalog.Listing
	for _, l := range listings {
		if f.Matches(l) {
			filtered = append(filtered, l)
		}
	}
	return filtered
}

// String describes the active criteria, e.g. "Colleges: PO | Days: TR".
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if len(f.Departments) > 0 {
		parts = append(parts, fmt.Sprintf("Departments: %s", strings.Join(f.Departments, ", ")))
	}

	if len(f.Colleges) > 0 {
		codes := make([]string, len(f.Colleges))
		for i, c := range f.Colleges {
			codes[i] = string(c)
		}
		parts = append(parts, fmt.Sprintf("Colleges: %s", strings.Join(codes, ", ")))
	}

	if len(f.Days) > 0 {
		parts = append(parts, fmt.Sprintf("Days: %s", FormatDays(f.Days)))
	}

	if len(f.Instructors) > 0 {
		parts = append(parts, fmt.Sprintf("Instructors: %s", strings.Join(f.Instructors, ", ")))
	}

	if len(f.Buildings) > 0 {
		parts = append(parts, fmt.Sprintf("Buildings: %s", strings.Join(f.Buildings, ", ")))
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		parts = append(parts, fmt.Sprintf("Query: %s", q))
	}

	if f.From != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.From))
	}

	if f.Until != nil {
		parts = append(parts, fmt.Sprintf("Until: %s", f.Until))
	}

	return strings.Join(parts, " | ")
}

func equalsAny(s string, values []string) bool {
	for _, v := range values {
		if strings.EqualFold(s, strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

func containsAny(s string, values []string) bool {
	lower := strings.ToLower(s)
	for _, v := range values {
		if strings.Contains(lower, strings.ToLower(strings.TrimSpace(v))) {
			return true
		}
	}
	return false
}

func meetsOnAny(days, want []time.Weekday) bool {
	for _, d := range days {
		for _, w := range want {
			if d == w {
				return true
			}
		}
	}
	return false
}
