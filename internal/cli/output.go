package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fivec-maps/catalog-import/internal/calendar"
	"github.com/fivec-maps/catalog-import/internal/catalog"
	"github.com/fivec-maps/catalog-import/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// textWriter is implemented by every command result.
type textWriter interface {
	writeText(w io.Writer, verbose bool) error
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result textWriter, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return result.writeText(w, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// ImportResult reports one pipeline run per source.
type ImportResult struct {
	Semester string                 `json:"semester"`
	Runs     []*pipeline.Summary    `json:"runs"`
	Stored   int                    `json:"stored"`
	Metrics  map[string]interface{} `json:"metrics,omitempty"`
}

func (r *ImportResult) writeText(w io.Writer, verbose bool) error {
	for i, s := range r.Runs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeSummary(w, s, verbose)
	}
	fmt.Fprintf(w, "\nCourses stored for %s: %d\n", r.Semester, r.Stored)
	if verbose && len(r.Metrics) > 0 {
		fmt.Fprintln(w, "\nMetrics:")
		if counters, ok := r.Metrics["counters"].(map[string]int64); ok {
			names := make([]string, 0, len(counters))
			for name := range counters {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(w, "  %-24s %d\n", name, counters[name])
			}
		}
	}
	return nil
}

func writeSummary(w io.Writer, s *pipeline.Summary, verbose bool) {
	fmt.Fprintf(w, "Run %s: %s (%s)\n", s.RunID, s.Source, s.Semester)
	if !s.TableFound {
		fmt.Fprintln(w, "  WARNING: catalog table not found")
	}
	fmt.Fprintf(w, "  Parsed:    %d\n", s.Parsed)
	fmt.Fprintf(w, "  Imported:  %d\n", s.Imported)
	fmt.Fprintf(w, "  Updated:   %d\n", s.Updated)
	fmt.Fprintf(w, "  Skipped:   %d\n", s.Skipped)
	fmt.Fprintf(w, "  Errored:   %d (malformed %d)\n", s.Errored, s.Malformed)
	fmt.Fprintf(w, "  Fallbacks: %d  Unlocated: %d  Ambiguous: %d\n", s.Fallbacks, s.Unlocated, s.Ambiguous)
	if verbose {
		fmt.Fprintf(w, "  Mode: %s  Duration: %s\n", s.Mode, s.Duration())
	}

	for _, e := range s.Errors {
		if e.Key != "" {
			fmt.Fprintf(w, "  row %d %s [%s]: %s\n", e.Row, e.Key, e.Kind, e.Message)
		} else {
			fmt.Fprintf(w, "  row %d [%s]: %s\n", e.Row, e.Kind, e.Message)
		}
	}
}

// ScrapeResult reports a scrape and its difference from the previous snapshot.
type ScrapeResult struct {
	Semester     string              `json:"semester"`
	Source       string              `json:"source"`
	SnapshotPath string              `json:"snapshot_path"`
	Counts       *catalog.RunCounts  `json:"counts"`
	Diff         *catalog.DiffResult `json:"diff,omitempty"`
	Refreshed    bool                `json:"refreshed,omitempty"`
	Import       *pipeline.Summary   `json:"import,omitempty"`
}

func (r *ScrapeResult) writeText(w io.Writer, verbose bool) error {
	fmt.Fprintf(w, "Scraped %d courses from %s (%s)\n", r.Counts.Parsed, r.Source, r.Semester)
	if r.Counts.Malformed > 0 {
		fmt.Fprintf(w, "Skipped %d malformed rows\n", r.Counts.Malformed)
	}
	fmt.Fprintf(w, "Snapshot: %s\n", r.SnapshotPath)

	switch {
	case r.Refreshed:
		fmt.Fprintln(w, "Snapshot refreshed successfully.")
	case r.Diff == nil || r.Diff.Empty():
		fmt.Fprintln(w, "No changes since last scrape.")
	default:
		for _, c := range r.Diff.New {
			fmt.Fprintf(w, "NEW: %s %s\n", c.Label(), c.Title)
		}
		for _, c := range r.Diff.Removed {
			fmt.Fprintf(w, "REMOVED: %s %s\n", c.Label(), c.Title)
		}
		for _, ch := range r.Diff.Changes {
			fmt.Fprintf(w, "CHANGED: %s %s: %q -> %q\n", ch.Course, ch.Field, ch.OldValue, ch.NewValue)
		}
		fmt.Fprintf(w, "\nTotal: %d new, %d removed, %d changed\n",
			len(r.Diff.New), len(r.Diff.Removed), len(r.Diff.Changes))
	}

	if r.Import != nil {
		fmt.Fprintln(w)
		writeSummary(w, r.Import, verbose)
	}
	return nil
}

// SeedResult reports rows added by seed.
type SeedResult struct {
	Colleges  int            `json:"colleges"`
	Locations map[string]int `json:"locations"`

	// Stored lists the location names held per college code after seeding.
	Stored        map[string][]string `json:"stored"`
	TotalColleges int                 `json:"total_colleges"`
}

func (r *SeedResult) writeText(w io.Writer, verbose bool) error {
	fmt.Fprintf(w, "Seeded %d colleges\n", r.Colleges)

	codes := make([]string, 0, len(r.Locations))
	for code := range r.Locations {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "Seeded %d locations for %s\n", r.Locations[code], code)
	}

	stored := make([]string, 0, len(r.Stored))
	total := 0
	for code, names := range r.Stored {
		stored = append(stored, code)
		total += len(names)
	}
	sort.Strings(stored)
	fmt.Fprintf(w, "Database holds %d colleges and %d locations\n", r.TotalColleges, total)
	if verbose {
		for _, code := range stored {
			fmt.Fprintf(w, "  %s: %s\n", code, strings.Join(r.Stored[code], ", "))
		}
	}
	return nil
}

// CoursesResult is a filtered course listing.
type CoursesResult struct {
	Semester string            `json:"semester"`
	Filter   string            `json:"filter"`
	Count    int               `json:"count"`
	Courses  []catalog.Listing `json:"courses"`
}

func (r *CoursesResult) writeText(w io.Writer, verbose bool) error {
	if r.Count == 0 {
		fmt.Fprintln(w, "No courses found.")
		return nil
	}

	for _, l := range r.Courses {
		c := l.Course
		schedule := strings.TrimSpace(catalog.Deref(c.Days) + " " + catalog.Deref(c.Time))
		if schedule == "" {
			schedule = "TBA"
		}
		fmt.Fprintf(w, "%-12s %-4s %-40s %-22s %s\n", c.CourseCode+"-"+c.Section, l.College, truncate(c.Title, 40), schedule, l.Location)
		if verbose {
			if c.Instructors != "" {
				fmt.Fprintf(w, "     Instructors: %s\n", c.Instructors)
			}
			fmt.Fprintf(w, "     Seats: %s  Credit: %s\n", c.SeatsAvailable, c.Credit)
			if c.Notes != "" {
				fmt.Fprintf(w, "     Notes: %s\n", c.Notes)
			}
		}
	}

	if verbose {
		fmt.Fprintf(w, "\nFilter: %s\n", r.Filter)
	}
	fmt.Fprintf(w, "\nTotal: %d courses\n", r.Count)
	return nil
}

// ExportResult reports a calendar export.
type ExportResult struct {
	Path    string             `json:"path"`
	Events  int                `json:"events"`
	Skipped []calendar.Skipped `json:"skipped"`
}

func (r *ExportResult) writeText(w io.Writer, verbose bool) error {
	fmt.Fprintf(w, "Wrote %d events to %s\n", r.Events, r.Path)
	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped %d unscheduled courses\n", len(r.Skipped))
		if verbose {
			for _, s := range r.Skipped {
				fmt.Fprintf(w, "  %s: %s\n", s.Label, s.Reason)
			}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
