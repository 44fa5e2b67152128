// Package calendar renders stored course listings as a weekly recurring iCalendar feed.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"

	"github.com/fivec-maps/catalog-import/internal/catalog"
)

const (
	// ProductID identifies the generator in PRODID.
	ProductID = "-//fivec-maps//catalog-import//EN"
	// Timezone is the local time of every Claremont campus.
	Timezone = "America/Los_Angeles"
	// DefaultWeeks is the length of a regular semester.
	DefaultWeeks = 15

	localFormat = "20060102T150405"
	utcFormat   = "20060102T150405Z"
)

var byDay = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

// Options controls how listings are laid out on the calendar.
type Options struct {
	// TermStart is the first day of classes. Only its date is used.
	TermStart time.Time
	Weeks     int
	Name      string
	Now       func() time.Time
}

// Skipped is a listing that could not be placed on the calendar.
type Skipped struct {
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

// Build creates one recurring event per scheduled listing. Listings without a
// parseable days and time pair are returned as skipped.
func Build(listings []catalog.Listing, opts Options) (*ics.Calendar, []Skipped, error) {
	if opts.TermStart.IsZero() {
		return nil, nil, fmt.Errorf("term start date is required")
	}
	if opts.Weeks <= 0 {
		opts.Weeks = DefaultWeeks
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	loc, err := time.LoadLocation(Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("load timezone: %w", err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRTimezone(Timezone)
	if opts.Name != "" {
		cal.SetName(opts.Name)
		cal.SetXWRCalName(opts.Name)
	}

	termStart := time.Date(opts.TermStart.Year(), opts.TermStart.Month(), opts.TermStart.Day(), 0, 0, 0, 0, loc)
	termEnd := termStart.AddDate(0, 0, opts.Weeks*7)
	stamp := now()

	var skipped []Skipped
	for _, l := range listings {
		c := l.Course
		if c == nil {
			continue
		}
		label := c.CourseCode + "-" + c.Section

		days := catalog.ParseDays(catalog.Deref(c.Days))
		if len(days) == 0 {
			skipped = append(skipped, Skipped{Label: label, Reason: "no meeting days"})
			continue
		}
		start, end, err := catalog.ParseTimeRange(catalog.Deref(c.Time))
		if err != nil {
			skipped = append(skipped, Skipped{Label: label, Reason: "no meeting time"})
			continue
		}

		first := firstMeeting(termStart, days)
		begin := time.Date(first.Year(), first.Month(), first.Day(), start.Hour(), start.Minute(), 0, 0, loc)
		finish := time.Date(first.Year(), first.Month(), first.Day(), end.Hour(), end.Minute(), 0, 0, loc)

		evt := cal.AddEvent(EventUID(c))
		evt.SetDtStampTime(stamp)
		evt.SetModifiedAt(c.UpdatedAt)
		evt.SetProperty(ics.ComponentPropertyDtStart, begin.Format(localFormat), ics.WithTZID(Timezone))
		evt.SetProperty(ics.ComponentPropertyDtEnd, finish.Format(localFormat), ics.WithTZID(Timezone))
		evt.AddRrule(rrule(days, termEnd))
		evt.SetSummary(fmt.Sprintf("%s %s", label, c.Title))
		if l.Location != "" {
			evt.SetLocation(l.Location)
		}
		evt.SetDescription(describe(l))
		evt.SetTimeTransparency(ics.TransparencyOpaque)
	}

	return cal, skipped, nil
}

// Write serializes the calendar for listings to w and returns the event count.
func Write(w io.Writer, listings []catalog.Listing, opts Options) (int, []Skipped, error) {
	cal, skipped, err := Build(listings, opts)
	if err != nil {
		return 0, nil, err
	}
	if err := cal.SerializeTo(w, ics.WithNewLineWindows); err != nil {
		return 0, skipped, fmt.Errorf("write calendar: %w", err)
	}
	return len(cal.Events()), skipped, nil
}

// EventUID is stable across exports so calendar clients update events in place.
func EventUID(c *catalog.PersistedCourse) string {
	semester := strings.ToLower(strings.Join(strings.Fields(c.Semester), "-"))
	return fmt.Sprintf("%s-%s-%s@catalog-import", c.CourseCode, c.Section, semester)
}

func firstMeeting(termStart time.Time, days []time.Weekday) time.Time {
	for i := 0; i < 7; i++ {
		d := termStart.AddDate(0, 0, i)
		for _, wd := range days {
			if d.Weekday() == wd {
				return d
			}
		}
	}
	return termStart
}

func rrule(days []time.Weekday, until time.Time) string {
	codes := make([]string, len(days))
	for i, d := range days {
		codes[i] = byDay[d]
	}
	return fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", strings.Join(codes, ","), until.UTC().Format(utcFormat))
}

func describe(l catalog.Listing) string {
	c := l.Course
	lines := []string{fmt.Sprintf("%s (%s)", c.DepartmentCode, l.College)}
	if c.Instructors != "" {
		lines = append(lines, "Instructors: "+c.Instructors)
	}
	if c.Credit != "" {
		lines = append(lines, "Credit: "+c.Credit)
	}
	if c.SeatsAvailable != "" {
		lines = append(lines, "Seats: "+c.SeatsAvailable)
	}
	if c.Notes != "" {
		lines = append(lines, c.Notes)
	}
	return strings.Join(lines, "\n")
}
