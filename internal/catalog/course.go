package catalog

import (
	"fmt"
	"time"
)

// DefaultSection is used when a course/section cell carries no section.
const DefaultSection = "01"

// ParsedCourse is the normalised form of one catalog table row.
// DepartmentCode is always derived from CourseCode by the extractor.
type ParsedCourse struct {
	CourseCode     string      `json:"course_code"`
	Section        string      `json:"section"`
	Title          string      `json:"title"`
	DepartmentCode string      `json:"department_code"`
	DepartmentName string      `json:"department_name,omitempty"`
	CollegeCode    CollegeCode `json:"college_code"`
	Building       *string     `json:"building"`
	Room           *string     `json:"room"`
	Days           *string     `json:"days"`
	TimeRange      *string     `json:"time_range"`
	SeatsAvailable string      `json:"seats_available"`
	Credit         string      `json:"credit"`
	Meetings       string      `json:"meetings"`
	Instructors    string      `json:"instructors"`
	Notes          string      `json:"notes"`
}

// Key returns the natural key of the course for a semester.
func (c *ParsedCourse) Key(semester string) NaturalKey {
	return NaturalKey{
		CourseCode: c.CourseCode,
		Section:    c.Section,
		Semester:   semester,
	}
}

// Label returns "CODE-SECTION", the form used in logs and text output.
func (c *ParsedCourse) Label() string {
	return c.CourseCode + "-" + c.Section
}

// NaturalKey identifies a unique course offering.
type NaturalKey struct {
	CourseCode string `json:"course_code"`
	Section    string `json:"section"`
	Semester   string `json:"semester"`
}

func (k NaturalKey) String() string {
	return fmt.Sprintf("%s-%s@%s", k.CourseCode, k.Section, k.Semester)
}

// Location is a campus building known to the persistence layer.
type Location struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Category  string  `json:"category"`
	CollegeID int64   `json:"college_id"`
}

// PersistedCourse is a stored course offering.
type PersistedCourse struct {
	ID             int64     `json:"id"`
	CourseCode     string    `json:"course_code"`
	Section        string    `json:"section"`
	Title          string    `json:"title"`
	DepartmentCode string    `json:"department_code"`
	CollegeID      int64     `json:"college_id"`
	LocationID     *int64    `json:"location_id"`
	Instructors    string    `json:"instructors"`
	Days           *string   `json:"days"`
	Time           *string   `json:"time"`
	SeatsAvailable string    `json:"seats_available"`
	Credit         string    `json:"credit"`
	Notes          string    `json:"notes"`
	Semester       string    `json:"semester"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Key returns the natural key of the stored course.
func (c *PersistedCourse) Key() NaturalKey {
	return NaturalKey{
		CourseCode: c.CourseCode,
		Section:    c.Section,
		Semester:   c.Semester,
	}
}

// CourseFields is the write set for inserting or updating a course.
type CourseFields struct {
	CourseCode     string
	Section        string
	Semester       string
	Title          string
	DepartmentCode string
	CollegeID      int64
	LocationID     *int64
	Instructors    string
	Days           *string
	Time           *string
	SeatsAvailable string
	Credit         string
	Notes          string
}

// FieldsFrom builds the write set for course in semester with resolved references.
// location may be nil.
func FieldsFrom(course *ParsedCourse, semester string, college *College, location *Location) CourseFields {
	fields := CourseFields{
		CourseCode:     course.CourseCode,
		Section:        course.Section,
		Semester:       semester,
		Title:          course.Title,
		DepartmentCode: course.DepartmentCode,
		Instructors:    course.Instructors,
		Days:           course.Days,
		Time:           course.TimeRange,
		SeatsAvailable: course.SeatsAvailable,
		Credit:         course.Credit,
		Notes:          course.Notes,
	}
	if college != nil {
		fields.CollegeID = college.ID
	}
	if location != nil {
		id := location.ID
		fields.LocationID = &id
	}
	return fields
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
