package scraper

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
	"github.com/fivec-maps/catalog-import/internal/catalog"
)

const (
	// DefaultDelimiter separates course code and section, e.g. "CSCI051 - 01".
	DefaultDelimiter = " - "

	// UnknownDepartment is returned when a course code has no leading letters.
	UnknownDepartment = "UNKNOWN"
)

var (
	departmentPattern = regexp.MustCompile(`^[A-Z]+`)
	daysPattern       = regexp.MustCompile(`^([A-Z]+)\s+`)
	timeRangePattern  = regexp.MustCompile(`\d+:\d+[AP]M-\d+:\d+[AP]M`)

	nbspReplacer = strings.NewReplacer("&nbsp;", " ", "\u00a0", " ")
)

// collegeMarkers are checked in order; the first marker found in the meetings text wins.
var collegeMarkers = []struct {
	marker string
	code   catalog.CollegeCode
}{
	{"PO Campus", catalog.Pomona},
	{"CMC Campus", catalog.ClaremontMcKenna},
	{"SC Campus", catalog.Scripps},
	{"Scripps", catalog.Scripps},
	{"HMC Campus", catalog.HarveyMudd},
	{"Mudd", catalog.HarveyMudd},
	{"PZ Campus", catalog.Pitzer},
	{"Pitzer", catalog.Pitzer},
}

// SplitCodeSection splits raw on the last occurrence of delimiter.
// With no delimiter, or nothing after it, the section is catalog.DefaultSection.
func SplitCodeSection(raw, delimiter string) (code, section string) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	i := strings.LastIndex(raw, delimiter)
	if i < 0 {
		return Clean(raw), catalog.DefaultSection
	}

	code = Clean(raw[:i])
	section = Clean(raw[i+len(delimiter):])
	if section == "" {
		section = catalog.DefaultSection
	}
	return code, section
}

// ExtractDepartment returns the leading run of uppercase letters of a course code,
// or UnknownDepartment.
func ExtractDepartment(code string) string {
	if dept := departmentPattern.FindString(strings.TrimSpace(code)); dept != "" {
		return dept
	}
	return UnknownDepartment
}

// ExtractLocation returns the building and room from the part of meetings after the
// last "/", e.g. "MW 11:00AM-12:15PM / PO Campus, Lincoln, 1135" gives Lincoln, 1135.
func ExtractLocation(meetings string) (building, room *string) {
	meetings = nbspReplacer.Replace(meetings)

	i := strings.LastIndex(meetings, "/")
	if i < 0 {
		return nil, nil
	}

	parts := strings.Split(meetings[i+1:], ",")
	for j := range parts {
		parts[j] = Clean(parts[j])
	}

	if len(parts) >= 2 {
		building = catalog.StringPtr(parts[1])
	}
	if len(parts) >= 3 {
		room = catalog.StringPtr(parts[2])
	}
	return building, room
}

// ExtractTime returns the days token and time range from the part of meetings before
// the first "/" (or all of it when there is none).
func ExtractTime(meetings string) (days, timeRange *string) {
	segment := nbspReplacer.Replace(meetings)
	if i := strings.Index(segment, "/"); i >= 0 {
		segment = segment[:i]
	}
	segment = strings.TrimSpace(segment)

	if m := daysPattern.FindStringSubmatch(segment); m != nil {
		days = catalog.StringPtr(m[1])
	}
	timeRange = catalog.StringPtr(timeRangePattern.FindString(segment))
	return days, timeRange
}

// ExtractCollege returns the college whose campus marker appears first in the
// marker priority order, or catalog.DefaultCollege.
func ExtractCollege(meetings string) catalog.CollegeCode {
	meetings = nbspReplacer.Replace(meetings)
	for _, m := range collegeMarkers {
		if strings.Contains(meetings, m.marker) {
			return m.code
		}
	}
	return catalog.DefaultCollege
}

// Options controls how rows become courses.
type Options struct {
	TableClass  string
	Delimiter   string
	Departments catalog.DepartmentNames
}

// DefaultOptions returns the options for the standard catalog layout.
func DefaultOptions() Options {
	return Options{
		TableClass:  DefaultTableClass,
		Delimiter:   DefaultDelimiter,
		Departments: catalog.DefaultDepartmentNames,
	}
}

// BuildCourse assembles a ParsedCourse from a raw row. The returned notes wrap
// apperrors.ErrExtractionAmbiguous; they describe fields left nil and never mean the
// course is unusable.
func BuildCourse(row RawCourseRow, opts Options) (*catalog.ParsedCourse, []error) {
	code, section := SplitCodeSection(row.CourseSection, opts.Delimiter)
	dept := ExtractDepartment(code)
	days, timeRange := ExtractTime(row.Meetings)
	building, room := ExtractLocation(row.Meetings)

	departments := opts.Departments
	if departments == nil {
		departments = catalog.DefaultDepartmentNames
	}

	course := &catalog.ParsedCourse{
		CourseCode:     code,
		Section:        section,
		Title:          row.Title,
		DepartmentCode: dept,
		CollegeCode:    ExtractCollege(row.Meetings),
		Building:       building,
		Room:           room,
		Days:           days,
		TimeRange:      timeRange,
		SeatsAvailable: row.Seats,
		Credit:         row.Credit,
		Meetings:       row.Meetings,
		Instructors:    row.Instructors,
		Notes:          row.Notes,
	}
	if dept != UnknownDepartment {
		course.DepartmentName = departments.Name(dept)
	}

	var notes []error
	if row.Meetings != "" && timeRange == nil {
		notes = append(notes, ambiguous(row, course, "no time range in meetings %q", row.Meetings))
	}
	if strings.Contains(row.Meetings, "/") && building == nil {
		notes = append(notes, ambiguous(row, course, "no building after \"/\" in meetings %q", row.Meetings))
	}
	if dept == UnknownDepartment {
		notes = append(notes, ambiguous(row, course, "no department prefix in course code %q", code))
	}

	return course, notes
}

func ambiguous(row RawCourseRow, course *catalog.ParsedCourse, format string, args ...interface{}) error {
	return apperrors.NewRecordError(apperrors.ErrExtractionAmbiguous, row.Index, course.Label(), fmt.Sprintf(format, args...))
}
