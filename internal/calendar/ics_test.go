package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/fivec-maps/catalog-import/internal/catalog"
)

func testListing(code, days, tm, location string) catalog.Listing {
	c := &catalog.PersistedCourse{
		CourseCode:     code,
		Section:        "01",
		Title:          "Intro; Part 1, Lab",
		DepartmentCode: "CSCI",
		Instructors:    "Osborn, Joseph",
		Credit:         "1.00",
		SeatsAvailable: "5/30",
		Semester:       "Fall 2024",
	}
	if days != "" {
		c.Days = catalog.StringPtr(days)
	}
	if tm != "" {
		c.Time = catalog.StringPtr(tm)
	}
	return catalog.Listing{Course: c, College: catalog.Pomona, Location: location}
}

func testOptions() Options {
	return Options{
		TermStart: time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC),
		Name:      "Fall 2024",
		Now:       func() time.Time { return time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	listings := []catalog.Listing{
		testListing("CSCI051", "MW", "11:00AM-12:15PM", "Lincoln Hall"),
		testListing("MATH030", "TR", "1:15PM-2:30PM", ""),
		testListing("PHYS051", "", "", ""),
	}

	var buf bytes.Buffer
	n, skipped, err := Write(&buf, listings, testOptions())
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if n != 2 {
		t.Errorf("Write() = %d events, want 2", n)
	}
	if len(skipped) != 1 || skipped[0].Label != "PHYS051-01" {
		t.Errorf("skipped = %+v", skipped)
	}

	out := buf.String()
	for _, want := range []string{
		"PRODID:" + ProductID,
		"METHOD:PUBLISH",
		"X-WR-CALNAME:Fall 2024",
		"UID:CSCI051-01-fall-2024@catalog-import",
		"DTSTART;TZID=America/Los_Angeles:20240904T110000",
		"DTEND;TZID=America/Los_Angeles:20240904T121500",
		"RRULE:FREQ=WEEKLY;BYDAY=MO,WE;UNTIL=20241217T080000Z",
		"DTSTART;TZID=America/Los_Angeles:20240903T131500",
		`SUMMARY:CSCI051-01 Intro\; Part 1\, Lab`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("calendar missing %q", want)
		}
	}
	if !strings.Contains(out, "\r\n") {
		t.Error("calendar should use \\r\\n line endings")
	}

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseCalendar() error: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("parsed %d events, want 2", len(events))
	}

	first := events[0]
	if got := first.GetProperty(ics.ComponentPropertySummary).Value; got != "CSCI051-01 Intro; Part 1, Lab" {
		t.Errorf("summary = %q", got)
	}
	if got := first.GetProperty(ics.ComponentPropertyLocation).Value; got != "Lincoln Hall" {
		t.Errorf("location = %q", got)
	}
	if events[1].GetProperty(ics.ComponentPropertyLocation) != nil {
		t.Error("unlocated course should have no LOCATION")
	}
	if got := first.GetProperty(ics.ComponentPropertyDescription).Value; !strings.Contains(got, "Instructors: Osborn, Joseph") {
		t.Errorf("description = %q", got)
	}
}

func TestBuild_SkipsUnparseableTime(t *testing.T) {
	_, skipped, err := Build([]catalog.Listing{
		testListing("CSCI051", "MW", "TBA", ""),
		{},
	}, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 1 || skipped[0].Reason != "no meeting time" {
		t.Errorf("skipped = %+v", skipped)
	}
}

func TestBuild_SkipsTBADays(t *testing.T) {
	cal, skipped, err := Build([]catalog.Listing{
		testListing("CSCI051", "TBA", "11:00AM-12:15PM", ""),
	}, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(cal.Events()) != 0 {
		t.Errorf("events = %d, want 0", len(cal.Events()))
	}
	if len(skipped) != 1 || skipped[0].Reason != "no meeting days" {
		t.Errorf("skipped = %+v", skipped)
	}
}

func TestBuild_RequiresTermStart(t *testing.T) {
	if _, _, err := Build(nil, Options{}); err == nil {
		t.Error("Build() should fail without a term start")
	}
}

func TestFirstMeeting(t *testing.T) {
	tuesday := time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		days []time.Weekday
		want int
	}{
		{[]time.Weekday{time.Tuesday}, 3},
		{[]time.Weekday{time.Monday, time.Wednesday}, 4},
		{[]time.Weekday{time.Monday}, 9},
	}
	for _, tt := range tests {
		if got := firstMeeting(tuesday, tt.days); got.Day() != tt.want {
			t.Errorf("firstMeeting(%v) = %d, want %d", tt.days, got.Day(), tt.want)
		}
	}
}

func TestEventUID(t *testing.T) {
	c := &catalog.PersistedCourse{CourseCode: "AFRI010A", Section: "02", Semester: "Spring  2025"}
	if got := EventUID(c); got != "AFRI010A-02-spring-2025@catalog-import" {
		t.Errorf("EventUID() = %q", got)
	}
}
