package scraper

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fivec-maps/catalog-import/internal/catalog"
)

const (
	StrategyTable  = "table"
	StrategyStatic = "static"
)

// Strategy produces courses and locations for one college.
type Strategy interface {
	Code() catalog.CollegeCode
	// Source names where the courses came from, for summaries and snapshots.
	Source() string
	ScrapeCourses(ctx context.Context) (*Batch, error)
	ScrapeLocations(ctx context.Context) ([]catalog.Location, error)
}

// Parsed is one extracted course with its row position and extraction notes.
type Parsed struct {
	Row    int
	Course *catalog.ParsedCourse
	Notes  []error
}

// Batch is the output of one page.
type Batch struct {
	Source     string
	TableFound bool
	Courses    []Parsed
	Malformed  []MalformedRow
}

// BuildBatch runs every row of rs through BuildCourse, keeping document order.
func BuildBatch(source string, rs *RowSet, opts Options) *Batch {
	b := &Batch{
		Source:     source,
		TableFound: rs.TableFound,
		Courses:    make([]Parsed, 0, len(rs.Rows)),
		Malformed:  rs.Malformed,
	}
	for _, row := range rs.Rows {
		course, notes := BuildCourse(row, opts)
		b.Courses = append(b.Courses, Parsed{Row: row.Index, Course: course, Notes: notes})
	}
	return b
}

// ParsedCourses returns the courses of the batch in order.
func (b *Batch) ParsedCourses() []*catalog.ParsedCourse {
	out := make([]*catalog.ParsedCourse, 0, len(b.Courses))
	for _, p := range b.Courses {
		out = append(out, p.Course)
	}
	return out
}

// Table scrapes a captured catalog page.
type Table struct {
	College   catalog.CollegeCode
	Page      string
	Loader    *Loader
	Options   Options
	Locations []catalog.Location
}

func (t *Table) Code() catalog.CollegeCode { return t.College }
func (t *Table) Source() string            { return t.Page }

// ScrapeCourses loads the page and extracts every row. Only a load failure is returned
// as an error.
func (t *Table) ScrapeCourses(ctx context.Context) (*Batch, error) {
	loader := t.Loader
	if loader == nil {
		loader = NewLoader(0, "")
	}

	data, err := loader.Load(ctx, t.Page)
	if err != nil {
		return nil, err
	}

	rs, err := ParseRows(bytes.NewReader(data), t.Options.TableClass)
	if err != nil {
		return nil, err
	}
	return BuildBatch(t.Page, rs, t.Options), nil
}

func (t *Table) ScrapeLocations(ctx context.Context) ([]catalog.Location, error) {
	return t.Locations, nil
}

// Static serves a fixed location list and no courses.
type Static struct {
	College   catalog.CollegeCode
	Locations []catalog.Location
}

func (s *Static) Code() catalog.CollegeCode { return s.College }
func (s *Static) Source() string            { return "static:" + string(s.College) }

func (s *Static) ScrapeCourses(ctx context.Context) (*Batch, error) {
	return &Batch{
		Source:    s.Source(),
		Courses:   make([]Parsed, 0),
		Malformed: make([]MalformedRow, 0),
	}, nil
}

func (s *Static) ScrapeLocations(ctx context.Context) ([]catalog.Location, error) {
	return s.Locations, nil
}

// NewStrategy selects a strategy by kind. page is ignored for static strategies.
func NewStrategy(kind string, college catalog.CollegeCode, page string, loader *Loader, opts Options, locations []catalog.Location) (Strategy, error) {
	switch kind {
	case StrategyTable, "":
		return &Table{College: college, Page: page, Loader: loader, Options: opts, Locations: locations}, nil
	case StrategyStatic:
		return &Static{College: college, Locations: locations}, nil
	default:
		return nil, fmt.Errorf("unknown scraper strategy %q", kind)
	}
}
