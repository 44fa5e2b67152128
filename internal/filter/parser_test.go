package filter

import (
	"reflect"
	"testing"
	"time"

	"github.com/fivec-maps/catalog-import/internal/catalog"
)

func TestSplitList(t *testing.T) {
	got := SplitList(" CSCI, ,math ,")
	want := []string{"CSCI", "math"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitList() = %v, want %v", got, want)
	}
	if got := SplitList(""); got != nil {
		t.Errorf("SplitList(\"\") = %v, want nil", got)
	}
}

func TestParseColleges(t *testing.T) {
	got, err := ParseColleges("po, hmc")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []catalog.CollegeCode{catalog.Pomona, catalog.HarveyMudd}) {
		t.Errorf("ParseColleges() = %v", got)
	}

	if _, err := ParseColleges("PO,UCLA"); err == nil {
		t.Error("ParseColleges() should reject unknown codes")
	}
}

func TestParseDays(t *testing.T) {
	got, err := ParseDays("TTh")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []time.Weekday{time.Tuesday, time.Thursday}) {
		t.Errorf("ParseDays() = %v", got)
	}

	if days, err := ParseDays(""); err != nil || days != nil {
		t.Errorf("ParseDays(\"\") = %v, %v", days, err)
	}
	if _, err := ParseDays("xyz"); err == nil {
		t.Error("ParseDays(xyz) should fail")
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"9:00AM", "09:00", false},
		{"1:30pm", "13:30", false},
		{"12:00AM", "00:00", false},
		{"13:00", "", true},
		{"noon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got.String() != tt.want {
				t.Errorf("ParseClock(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}

	if got, err := ParseClock(""); got != nil || err != nil {
		t.Errorf("ParseClock(\"\") = %v, %v", got, err)
	}
}

func TestFormatDays(t *testing.T) {
	if got := FormatDays([]time.Weekday{time.Monday, time.Wednesday, time.Friday}); got != "MWF" {
		t.Errorf("FormatDays() = %q, want MWF", got)
	}
}
