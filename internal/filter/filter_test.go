package filter

import (
	"testing"
	"time"

	"github.com/fivec-maps/catalog-import/internal/catalog"
)

func clock(s string) *catalog.ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func listing(code, dept string, college catalog.CollegeCode, days, tm, instructors, location string) catalog.Listing {
	c := &catalog.PersistedCourse{
		CourseCode:     code,
		Section:        "01",
		Title:          "Course " + code,
		DepartmentCode: dept,
		Instructors:    instructors,
	}
	if days != "" {
		c.Days = catalog.StringPtr(days)
	}
	if tm != "" {
		c.Time = catalog.StringPtr(tm)
	}
	return catalog.Listing{Course: c, College: college, Location: location}
}

func testListings() []catalog.Listing {
	return []catalog.Listing{
		listing("CSCI051", "CSCI", catalog.Pomona, "MW", "11:00AM-12:15PM", "Osborn, Joseph", "Lincoln Hall"),
		listing("MATH030", "MATH", catalog.HarveyMudd, "TR", "1:15PM-2:30PM", "Staff", "Shanahan Center"),
		listing("AFRI010A", "AFRI", catalog.Pitzer, "F", "9:00AM-9:50AM", "Jones, Ann", ""),
		listing("PHYS051", "PHYS", catalog.Pomona, "", "", "Staff", ""),
	}
}

func codes(listings []catalog.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.Course.CourseCode
	}
	return out
}

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"empty filter", New(), true},
		{"blank query", &Filter{Query: "  "}, true},
		{"with college", &Filter{Colleges: []catalog.CollegeCode{catalog.Pomona}}, false},
		{"with days", &Filter{Days: []time.Weekday{time.Monday}}, false},
		{"with until", &Filter{Until: clock("5:00PM")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   []string
	}{
		{
			name:   "empty filter keeps all",
			filter: New(),
			want:   []string{"CSCI051", "MATH030", "AFRI010A", "PHYS051"},
		},
		{
			name:   "department is case-insensitive",
			filter: &Filter{Departments: []string{"csci", "MATH"}},
			want:   []string{"CSCI051", "MATH030"},
		},
		{
			name:   "college",
			filter: &Filter{Colleges: []catalog.CollegeCode{catalog.Pomona}},
			want:   []string{"CSCI051", "PHYS051"},
		},
		{
			name:   "days skip unscheduled courses",
			filter: &Filter{Days: []time.Weekday{time.Thursday, time.Friday}},
			want:   []string{"MATH030", "AFRI010A"},
		},
		{
			name:   "instructor substring",
			filter: &Filter{Instructors: []string{"osborn"}},
			want:   []string{"CSCI051"},
		},
		{
			name:   "building substring",
			filter: &Filter{Buildings: []string{"shanahan"}},
			want:   []string{"MATH030"},
		},
		{
			name:   "query matches code or title",
			filter: &Filter{Query: "afri"},
			want:   []string{"AFRI010A"},
		},
		{
			name:   "time window",
			filter: &Filter{From: clock("10:00AM"), Until: clock("3:00PM")},
			want:   []string{"CSCI051", "MATH030"},
		},
		{
			name: "criteria combine",
			filter: &Filter{
				Colleges: []catalog.CollegeCode{catalog.Pomona, catalog.HarveyMudd},
				Days:     []time.Weekday{time.Tuesday},
			},
			want: []string{"MATH030"},
		},
		{
			name:   "no matches",
			filter: &Filter{Departments: []string{"ECON"}},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codes(tt.filter.Apply(testListings()))
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Apply()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFilter_MatchesNilCourse(t *testing.T) {
	f := &Filter{Query: "x"}
	if f.Matches(catalog.Listing{}) {
		t.Error("Matches() should reject a listing without a course")
	}
}

func TestFilter_String(t *testing.T) {
	if got := New().String(); got != "No active filters" {
		t.Errorf("String() = %q", got)
	}

	f := &Filter{
		Colleges: []catalog.CollegeCode{catalog.Pomona, catalog.Scripps},
		Days:     []time.Weekday{time.Tuesday, time.Thursday},
		From:     clock("9:00AM"),
	}
	want := "Colleges: PO, SC | Days: TR | From: 09:00"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
