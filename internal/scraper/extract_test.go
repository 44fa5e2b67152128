package scraper

import (
	"errors"
	"testing"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
	"github.com/fivec-maps/catalog-import/internal/catalog"
)

func ptr(s string) *string { return &s }

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func show(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestSplitCodeSection(t *testing.T) {
	tests := []struct {
		raw         string
		delimiter   string
		wantCode    string
		wantSection string
	}{
		{"CSCI051 - 01", " - ", "CSCI051", "01"},
		{"AFRI010A AF - 01", " - ", "AFRI010A AF", "01"},
		{"MATH030 HM - 02", " - ", "MATH030 HM", "02"},
		{"ECON050 CM", " - ", "ECON050 CM", "01"},
		{"CSCI051 - ", " - ", "CSCI051", "01"},
		{"HIST - 100 - 03", " - ", "HIST - 100", "03"},
		{"  PHYS051   -   04 ", " - ", "PHYS051", "04"},
		{"CSCI051-02", "-", "CSCI051", "02"},
		{"CSCI051-02", " - ", "CSCI051-02", "01"},
		{"CSCI051 - 05", "", "CSCI051", "05"},
		{"", " - ", "", "01"},
	}

	for _, tt := range tests {
		t.Run(tt.raw+"|"+tt.delimiter, func(t *testing.T) {
			code, section := SplitCodeSection(tt.raw, tt.delimiter)
			if code != tt.wantCode || section != tt.wantSection {
				t.Errorf("SplitCodeSection(%q, %q) = (%q, %q), want (%q, %q)",
					tt.raw, tt.delimiter, code, section, tt.wantCode, tt.wantSection)
			}
		})
	}
}

func TestExtractDepartment(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"AFRI010A AF", "AFRI"},
		{"CSCI051", "CSCI"},
		{"101", UnknownDepartment},
		{"", UnknownDepartment},
		{"csci051", UnknownDepartment},
		{"PE 010", "PE"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := ExtractDepartment(tt.code); got != tt.want {
				t.Errorf("ExtractDepartment(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}

	code, _ := SplitCodeSection("AFRI010A AF - 01", DefaultDelimiter)
	if got := ExtractDepartment(code); got != "AFRI" {
		t.Errorf("department after split = %q, want AFRI", got)
	}
}

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		name         string
		meetings     string
		wantBuilding *string
		wantRoom     *string
	}{
		{"full", "MW 11:00AM-12:15PM / PO Campus, Lincoln, 1135", ptr("Lincoln"), ptr("1135")},
		{"no slash", "MW 11:00AM-12:15PM PO Campus, Lincoln, 1135", nil, nil},
		{"building only", "TR 1:15PM-2:30PM / SC Campus, Balch", ptr("Balch"), nil},
		{"campus only", "F 9:00AM-9:50AM / PO Campus", nil, nil},
		{"nbsp entity", "MW 9:00AM-9:50AM / HMC Campus,&nbsp;Shanahan&nbsp;Center, 1460", ptr("Shanahan Center"), ptr("1460")},
		{"nbsp rune", "MW 9:00AM-9:50AM / HMC Campus,\u00a0Parsons\u00a0Hall, B171", ptr("Parsons Hall"), ptr("B171")},
		{"last slash wins", "MW 9:00AM-9:50AM / PO Campus, Seaver North, 1 / CMC Campus, Roberts North, 15", ptr("Roberts North"), ptr("15")},
		{"empty building", "MW 9:00AM-9:50AM / PO Campus, , 101", nil, ptr("101")},
		{"empty", "", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			building, room := ExtractLocation(tt.meetings)
			if !equalPtr(building, tt.wantBuilding) {
				t.Errorf("building = %s, want %s", show(building), show(tt.wantBuilding))
			}
			if !equalPtr(room, tt.wantRoom) {
				t.Errorf("room = %s, want %s", show(room), show(tt.wantRoom))
			}
		})
	}
}

func TestExtractTime(t *testing.T) {
	tests := []struct {
		name      string
		meetings  string
		wantDays  *string
		wantRange *string
	}{
		{"full", "MW 11:00AM-12:15PM / PO Campus, Lincoln, 1135", ptr("MW"), ptr("11:00AM-12:15PM")},
		{"no slash", "MWF 9:00AM-9:50AM", ptr("MWF"), ptr("9:00AM-9:50AM")},
		{"no slash with location text", "TR 2:45PM-4:00PM PZ Campus, Broad Center", ptr("TR"), ptr("2:45PM-4:00PM")},
		{"time only", "11:00AM-12:15PM / PO Campus, Lincoln, 1135", nil, ptr("11:00AM-12:15PM")},
		{"days only", "TR TBA / PO Campus, Lincoln", ptr("TR"), nil},
		{"bare days token", "TR / PO Campus, Lincoln", nil, nil},
		{"tba", "TBA", nil, nil},
		{"time after slash ignored", "MW TBA / 11:00AM-12:15PM", ptr("MW"), nil},
		{"empty", "", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, timeRange := ExtractTime(tt.meetings)
			if !equalPtr(days, tt.wantDays) {
				t.Errorf("days = %s, want %s", show(days), show(tt.wantDays))
			}
			if !equalPtr(timeRange, tt.wantRange) {
				t.Errorf("time range = %s, want %s", show(timeRange), show(tt.wantRange))
			}
		})
	}
}

func TestExtractCollege(t *testing.T) {
	tests := []struct {
		meetings string
		want     catalog.CollegeCode
	}{
		{"MW 11:00AM-12:15PM / PO Campus, Lincoln, 1135", catalog.Pomona},
		{"MW 1:15PM-2:30PM / CMC Campus, Bauer Center, 34", catalog.ClaremontMcKenna},
		{"TR 9:35AM-10:50AM / SC Campus, Balch, 106", catalog.Scripps},
		{"TR 9:35AM-10:50AM / Scripps Humanities", catalog.Scripps},
		{"MWF 9:00AM-9:50AM / HMC Campus, Shanahan Center, 1460", catalog.HarveyMudd},
		{"Mudd Library", catalog.HarveyMudd},
		{"TR 2:45PM-4:00PM / PZ Campus, Broad Center, 210", catalog.Pitzer},
		{"Pitzer Avery Hall", catalog.Pitzer},
		{"PO Campus and Pitzer", catalog.Pomona},
		{"MW 1:15PM-2:30PM / CMC&nbsp;Campus, Bauer Center, 10", catalog.ClaremontMcKenna},
		{"TR 9:35AM-10:50AM / PZ\u00a0Campus, Broad Center, 210", catalog.Pitzer},
		{"TBA", catalog.Pomona},
		{"", catalog.Pomona},
	}

	for _, tt := range tests {
		t.Run(tt.meetings, func(t *testing.T) {
			if got := ExtractCollege(tt.meetings); got != tt.want {
				t.Errorf("ExtractCollege(%q) = %q, want %q", tt.meetings, got, tt.want)
			}
		})
	}
}

func TestBuildCourse(t *testing.T) {
	row := RawCourseRow{
		Index:         3,
		CourseSection: "CSCI051 - 01",
		Title:         "Intro to Computer Science",
		Seats:         "5/30",
		Credit:        "1.00",
		Meetings:      "MW 11:00AM-12:15PM / PO Campus, Lincoln, 1135",
		Instructors:   "Osborn, Joseph",
		Notes:         "Lab required",
	}

	course, notes := BuildCourse(row, DefaultOptions())
	if len(notes) != 0 {
		t.Errorf("unexpected notes: %v", notes)
	}

	checks := []struct {
		field, got, want string
	}{
		{"CourseCode", course.CourseCode, "CSCI051"},
		{"Section", course.Section, "01"},
		{"DepartmentCode", course.DepartmentCode, "CSCI"},
		{"DepartmentName", course.DepartmentName, "Computer Science"},
		{"CollegeCode", string(course.CollegeCode), "PO"},
		{"Days", show(course.Days), "MW"},
		{"TimeRange", show(course.TimeRange), "11:00AM-12:15PM"},
		{"Building", show(course.Building), "Lincoln"},
		{"Room", show(course.Room), "1135"},
		{"SeatsAvailable", course.SeatsAvailable, "5/30"},
		{"Credit", course.Credit, "1.00"},
		{"Instructors", course.Instructors, "Osborn, Joseph"},
		{"Notes", course.Notes, "Lab required"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
}

func TestBuildCourse_AmbiguousNotes(t *testing.T) {
	tests := []struct {
		name      string
		row       RawCourseRow
		wantNotes int
	}{
		{
			name:      "tba meetings",
			row:       RawCourseRow{Index: 1, CourseSection: "PHYS051 - 01", Meetings: "TBA"},
			wantNotes: 1,
		},
		{
			name:      "slash without building",
			row:       RawCourseRow{Index: 2, CourseSection: "PHYS051 - 02", Meetings: "MW 9:00AM-9:50AM / PO Campus"},
			wantNotes: 1,
		},
		{
			name:      "numeric course code",
			row:       RawCourseRow{Index: 3, CourseSection: "101 - 01", Meetings: "MW 9:00AM-9:50AM / PO Campus, Lincoln, 1"},
			wantNotes: 1,
		},
		{
			name:      "empty meetings",
			row:       RawCourseRow{Index: 4, CourseSection: "ART010 - 01"},
			wantNotes: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course, notes := BuildCourse(tt.row, DefaultOptions())
			if course == nil {
				t.Fatal("BuildCourse returned nil course")
			}
			if len(notes) != tt.wantNotes {
				t.Fatalf("got %d notes, want %d: %v", len(notes), tt.wantNotes, notes)
			}
			for _, n := range notes {
				if !errors.Is(n, apperrors.ErrExtractionAmbiguous) {
					t.Errorf("note %v should wrap ErrExtractionAmbiguous", n)
				}
				var rec *apperrors.RecordError
				if !errors.As(n, &rec) || rec.Row != tt.row.Index {
					t.Errorf("note %v should carry row %d", n, tt.row.Index)
				}
			}
		})
	}
}

func TestBuildCourse_DepartmentTable(t *testing.T) {
	opts := DefaultOptions()
	opts.Departments = catalog.DepartmentNames{"AFRI": "Africana Studies"}

	course, _ := BuildCourse(RawCourseRow{CourseSection: "AFRI010A AF - 01", Meetings: "TR 2:45PM-4:00PM / PZ Campus, Broad Center, 210"}, opts)
	if course.DepartmentName != "Africana Studies" {
		t.Errorf("DepartmentName = %q", course.DepartmentName)
	}

	course, _ = BuildCourse(RawCourseRow{CourseSection: "101 - 01"}, opts)
	if course.DepartmentName != "" {
		t.Errorf("unknown department should have no name, got %q", course.DepartmentName)
	}
}
