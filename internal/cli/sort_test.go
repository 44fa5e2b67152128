package cli

import (
	"testing"

	"github.com/fivec-maps/catalog-import/internal/catalog"
)

func sortFixture() []catalog.Listing {
	mk := func(code, dept string, college catalog.CollegeCode, title, days, tm string) catalog.Listing {
		c := &catalog.PersistedCourse{CourseCode: code, Section: "01", DepartmentCode: dept, Title: title}
		if days != "" {
			c.Days = catalog.StringPtr(days)
			c.Time = catalog.StringPtr(tm)
		}
		return catalog.Listing{Course: c, College: college}
	}
	return []catalog.Listing{
		mk("MATH030", "MATH", catalog.HarveyMudd, "calculus", "TR", "9:00AM-9:50AM"),
		mk("CSCI051", "CSCI", catalog.Pomona, "Intro to CS", "MW", "11:00AM-12:15PM"),
		mk("PHYS051", "PHYS", catalog.Pomona, "Mechanics", "", ""),
		mk("AFRI010A", "AFRI", catalog.Pitzer, "Africana Studies", "MW", "9:00AM-9:50AM"),
	}
}

func TestSortListings(t *testing.T) {
	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortByCode, []string{"AFRI010A", "CSCI051", "MATH030", "PHYS051"}},
		{SortByDepartment, []string{"AFRI010A", "CSCI051", "MATH030", "PHYS051"}},
		{SortByCollege, []string{"MATH030", "CSCI051", "PHYS051", "AFRI010A"}},
		{SortByTime, []string{"AFRI010A", "CSCI051", "MATH030", "PHYS051"}},
		{SortByTitle, []string{"AFRI010A", "MATH030", "CSCI051", "PHYS051"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			listings := sortFixture()
			sortListings(listings, tt.order)
			for i, l := range listings {
				if l.Course.CourseCode != tt.want[i] {
					t.Errorf("position %d = %s, want %s", i, l.Course.CourseCode, tt.want[i])
				}
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	if order, err := ParseSortOrder(""); err != nil || order != SortByCode {
		t.Errorf("ParseSortOrder(\"\") = %q, %v", order, err)
	}
	if order, err := ParseSortOrder("Time"); err != nil || order != SortByTime {
		t.Errorf("ParseSortOrder(Time) = %q, %v", order, err)
	}
	if _, err := ParseSortOrder("seats"); err == nil {
		t.Error("ParseSortOrder(seats) should fail")
	}
}
