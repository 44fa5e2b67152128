package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
	"github.com/fivec-maps/catalog-import/internal/catalog"
)

func TestTable_ScrapeCourses(t *testing.T) {
	page := loadFixture(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	strategy, err := NewStrategy(StrategyTable, catalog.Pomona, server.URL, NewLoader(0, ""), DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("NewStrategy() error: %v", err)
	}

	batch, err := strategy.ScrapeCourses(context.Background())
	if err != nil {
		t.Fatalf("ScrapeCourses() error: %v", err)
	}

	if !batch.TableFound {
		t.Error("TableFound = false")
	}
	if batch.Source != server.URL {
		t.Errorf("Source = %q, want %q", batch.Source, server.URL)
	}
	if len(batch.Courses) != 5 || len(batch.Malformed) != 1 {
		t.Fatalf("got %d courses and %d malformed, want 5 and 1", len(batch.Courses), len(batch.Malformed))
	}

	byCode := map[string]*catalog.ParsedCourse{}
	for _, c := range batch.ParsedCourses() {
		byCode[c.CourseCode] = c
	}

	tests := []struct {
		code     string
		section  string
		dept     string
		college  catalog.CollegeCode
		building string
	}{
		{"CSCI051", "01", "CSCI", catalog.Pomona, "Lincoln"},
		{"AFRI010A AF", "01", "AFRI", catalog.Pitzer, "Broad Center"},
		{"MATH030 HM", "02", "MATH", catalog.HarveyMudd, "Shanahan Center"},
		{"PHYS051", "01", "PHYS", catalog.Pomona, ""},
		{"ECON050 CM", "01", "ECON", catalog.ClaremontMcKenna, "Bauer Center"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c, ok := byCode[tt.code]
			if !ok {
				t.Fatalf("course %s not parsed", tt.code)
			}
			if c.Section != tt.section || c.DepartmentCode != tt.dept || c.CollegeCode != tt.college {
				t.Errorf("got section=%q dept=%q college=%q", c.Section, c.DepartmentCode, c.CollegeCode)
			}
			if catalog.Deref(c.Building) != tt.building {
				t.Errorf("Building = %q, want %q", catalog.Deref(c.Building), tt.building)
			}
		})
	}

	// PHYS051 meets TBA and carries one extraction note.
	for _, p := range batch.Courses {
		if p.Course.CourseCode == "PHYS051" && len(p.Notes) != 1 {
			t.Errorf("PHYS051 notes = %v, want 1", p.Notes)
		}
	}
}

func TestTable_ScrapeCoursesUnavailable(t *testing.T) {
	table := &Table{College: catalog.Pomona, Page: "testdata/does-not-exist.html", Options: DefaultOptions()}

	_, err := table.ScrapeCourses(context.Background())
	if !errors.Is(err, apperrors.ErrSourceUnavailable) {
		t.Errorf("ScrapeCourses() error = %v, want ErrSourceUnavailable", err)
	}
}

func TestStatic(t *testing.T) {
	locations := []catalog.Location{{Name: "Seaver North", Latitude: 34.0980, Longitude: -117.7070, Category: "academic"}}

	strategy, err := NewStrategy(StrategyStatic, catalog.Pomona, "ignored.html", nil, DefaultOptions(), locations)
	if err != nil {
		t.Fatalf("NewStrategy() error: %v", err)
	}
	if strategy.Code() != catalog.Pomona {
		t.Errorf("Code() = %q", strategy.Code())
	}

	batch, err := strategy.ScrapeCourses(context.Background())
	if err != nil || len(batch.Courses) != 0 {
		t.Errorf("ScrapeCourses() = %v, %v; want empty batch", batch, err)
	}

	got, err := strategy.ScrapeLocations(context.Background())
	if err != nil || len(got) != 1 || got[0].Name != "Seaver North" {
		t.Errorf("ScrapeLocations() = %v, %v", got, err)
	}
}

func TestNewStrategy_Unknown(t *testing.T) {
	if _, err := NewStrategy("selenium", catalog.Pomona, "", nil, DefaultOptions(), nil); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
