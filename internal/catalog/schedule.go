package catalog

import (
	"fmt"
	"strings"
	"time"
)

// ParseDays expands a days token such as "MWF" or "TR" into weekdays, in token order.
// R and TH are Thursday, S is Saturday, U and SU are Sunday. A token holding any other
// character, such as "TBA", yields nil.
func ParseDays(token string) []time.Weekday {
	token = strings.ToUpper(strings.TrimSpace(token))
	days := make([]time.Weekday, 0, len(token))
	seen := make(map[time.Weekday]bool)

	add := func(d time.Weekday) {
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}

	for i := 0; i < len(token); i++ {
		switch token[i] {
		case 'M':
			add(time.Monday)
		case 'T':
			if i+1 < len(token) && token[i+1] == 'H' {
				add(time.Thursday)
				i++
				continue
			}
			add(time.Tuesday)
		case 'W':
			add(time.Wednesday)
		case 'R':
			add(time.Thursday)
		case 'F':
			add(time.Friday)
		case 'S':
			if i+1 < len(token) && token[i+1] == 'U' {
				add(time.Sunday)
				i++
				continue
			}
			add(time.Saturday)
		case 'U':
			add(time.Sunday)
		case ' ', ',':
		default:
			return nil
		}
	}
	return days
}

// ClockTime is a time of day in minutes after midnight.
type ClockTime int

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// ParseTimeRange parses "11:00AM-12:15PM" into start and end times of day.
func ParseTimeRange(s string) (start, end ClockTime, err error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time range %q", s)
	}

	start, err = parseClock(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err = parseClock(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, fmt.Errorf("time range %q ends before it starts", s)
	}
	return start, end, nil
}

func parseClock(s string) (ClockTime, error) {
	t, err := time.Parse("3:04PM", strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}
