package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/fivec-maps/catalog-import/internal/catalog"
)

var dayLetters = map[time.Weekday]string{
	time.Monday:    "M",
	time.Tuesday:   "T",
	time.Wednesday: "W",
	time.Thursday:  "R",
	time.Friday:    "F",
	time.Saturday:  "S",
	time.Sunday:    "U",
}

// SplitList splits a comma-separated flag value, dropping empty entries.
func SplitList(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseColleges parses "PO,hmc" into known college codes.
func ParseColleges(input string) ([]catalog.CollegeCode, error) {
	var codes []catalog.CollegeCode
	for _, part := range SplitList(input) {
		code, ok := catalog.ParseCollegeCode(part)
		if !ok {
			return nil, fmt.Errorf("unknown college code: %s", part)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// ParseDays parses a days flag such as "MWF" or "TTh".
func ParseDays(input string) ([]time.Weekday, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	days := catalog.ParseDays(input)
	if len(days) == 0 {
		return nil, fmt.Errorf("no weekdays in %q", input)
	}
	return days, nil
}

// ParseClock parses a single time of day such as "9:00AM".
func ParseClock(input string) (*catalog.ClockTime, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	t, err := time.Parse("3:04PM", strings.ToUpper(input))
	if err != nil {
		return nil, fmt.Errorf("invalid time %q, expected e.g. 9:00AM", input)
	}
	c := catalog.ClockTime(t.Hour()*60 + t.Minute())
	return &c, nil
}

// FormatDays renders weekdays with the catalog's letters, e.g. "MWF".
func FormatDays(days []time.Weekday) string {
	var b strings.Builder
	for _, d := range days {
		b.WriteString(dayLetters[d])
	}
	return b.String()
}
