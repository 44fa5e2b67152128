package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fivec-maps/catalog-import/internal/catalog"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByCode       SortOrder = "code"
	SortByDepartment SortOrder = "department"
	SortByCollege    SortOrder = "college"
	SortByTime       SortOrder = "time"
	SortByTitle      SortOrder = "title"
)

// ParseSortOrder validates a --sort value.
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case "":
		return SortByCode, nil
	case SortByCode, SortByDepartment, SortByCollege, SortByTime, SortByTitle:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort: %s (must be code, department, college, time or title)", s)
	}
}

// sortListings sorts listings in place. Ties fall back to course code and section.
func sortListings(listings []catalog.Listing, order SortOrder) {
	switch order {
	case SortByDepartment:
		sort.SliceStable(listings, func(i, j int) bool {
			a, b := listings[i].Course, listings[j].Course
			if a.DepartmentCode != b.DepartmentCode {
				return a.DepartmentCode < b.DepartmentCode
			}
			return compareByCode(listings[i], listings[j])
		})
	case SortByCollege:
		sort.SliceStable(listings, func(i, j int) bool {
			if listings[i].College != listings[j].College {
				return listings[i].College < listings[j].College
			}
			return compareByCode(listings[i], listings[j])
		})
	case SortByTime:
		sort.SliceStable(listings, func(i, j int) bool {
			return compareByTime(listings[i], listings[j])
		})
	case SortByTitle:
		sort.SliceStable(listings, func(i, j int) bool {
			a, b := strings.ToLower(listings[i].Course.Title), strings.ToLower(listings[j].Course.Title)
			if a != b {
				return a < b
			}
			return compareByCode(listings[i], listings[j])
		})
	default:
		sort.SliceStable(listings, func(i, j int) bool {
			return compareByCode(listings[i], listings[j])
		})
	}
}

func compareByCode(i, j catalog.Listing) bool {
	if i.Course.CourseCode != j.Course.CourseCode {
		return i.Course.CourseCode < j.Course.CourseCode
	}
	return i.Course.Section < j.Course.Section
}

// compareByTime orders by first meeting day, then start time. Courses without a
// parseable schedule go last.
func compareByTime(i, j catalog.Listing) bool {
	dayI, startI, okI := firstSlot(i.Course)
	dayJ, startJ, okJ := firstSlot(j.Course)

	if okI && okJ {
		if dayI != dayJ {
			return dayI < dayJ
		}
		if startI != startJ {
			return startI < startJ
		}
		return compareByCode(i, j)
	}

	if okI {
		return true
	}
	if okJ {
		return false
	}
	return compareByCode(i, j)
}

// firstSlot returns the earliest weekday (Monday first) and the start time of c.
func firstSlot(c *catalog.PersistedCourse) (int, catalog.ClockTime, bool) {
	days := catalog.ParseDays(catalog.Deref(c.Days))
	if len(days) == 0 {
		return 0, 0, false
	}
	start, _, err := catalog.ParseTimeRange(catalog.Deref(c.Time))
	if err != nil {
		return 0, 0, false
	}

	first := 7
	for _, d := range days {
		if n := mondayFirst(d); n < first {
			first = n
		}
	}
	return first, start, true
}

func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}
