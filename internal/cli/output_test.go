package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fivec-maps/catalog-import/internal/catalog"
	"github.com/fivec-maps/catalog-import/internal/pipeline"
)

func TestWriteOutput_Summary(t *testing.T) {
	summary := &pipeline.Summary{
		RunID:      "run-1",
		Semester:   "Fall 2024",
		Source:     "catalog.html",
		TableFound: true,
		RunCounts:  catalog.RunCounts{Parsed: 3, Imported: 2, Errored: 1, Malformed: 1},
		Errors: []pipeline.RecordError{
			{Row: 2, Key: "CSCI051-01@Fall 2024", Kind: "storage_error", Message: "insert course: disk I/O error"},
			{Row: 4, Kind: "row_malformed", Message: "expected at least 6 cells"},
		},
	}
	result := &ImportResult{Runs: []*pipeline.Summary{summary}}

	var text bytes.Buffer
	if err := WriteOutput(&text, result, FormatText, false); err != nil {
		t.Fatal(err)
	}
	out := text.String()
	for _, want := range []string{
		"Run run-1: catalog.html (Fall 2024)",
		"Imported:  2",
		"row 2 CSCI051-01@Fall 2024 [storage_error]: insert course: disk I/O error",
		"row 4 [row_malformed]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Mode:") {
		t.Error("mode and duration should only print in verbose mode")
	}

	var js bytes.Buffer
	if err := WriteOutput(&js, result, FormatJSON, false); err != nil {
		t.Fatal(err)
	}
	var decoded map[string][]map[string]interface{}
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got := decoded["runs"][0]["imported"]; got != float64(2) {
		t.Errorf("runs[0].imported = %v", got)
	}
	if _, ok := decoded["runs"][0]["Courses"]; ok {
		t.Error("courses should not be serialized in the summary")
	}
}

func TestWriteOutput_EmptyCourses(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, &CoursesResult{}, FormatText, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No courses found.\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %q, %v", f, err)
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("ParseFormat(yaml) should fail")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Introduction", 8); got != "Intro..." {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("Intro", 8); got != "Intro" {
		t.Errorf("truncate() = %q", got)
	}
}
