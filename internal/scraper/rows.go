package scraper

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/fivec-maps/catalog-import/internal/apperrors"
)

const (
	// DefaultTableClass is the class of the catalog table in captured pages.
	DefaultTableClass = "footable"

	// MinCells is the number of cells a row needs: course/section, title, seats,
	// credit, meetings and instructors. A seventh cell holds notes.
	MinCells = 6
)

// RawCourseRow is the cleaned cell text of one catalog row.
type RawCourseRow struct {
	Index         int // 1-based position among the table body rows
	CourseSection string
	Title         string
	Seats         string
	Credit        string
	Meetings      string
	Instructors   string
	Notes         string
}

// MalformedRow is a table row that could not become a RawCourseRow.
type MalformedRow struct {
	Index  int
	Cells  int
	Reason string
}

// Err returns the row as an apperrors.ErrRowMalformed record error.
func (m MalformedRow) Err() error {
	return apperrors.NewRecordError(apperrors.ErrRowMalformed, m.Index, "", m.Reason)
}

// RowSet is the result of walking a catalog table.
type RowSet struct {
	TableFound bool
	Rows       []RawCourseRow
	Malformed  []MalformedRow
}

// Total returns the number of body rows seen.
func (rs *RowSet) Total() int {
	return len(rs.Rows) + len(rs.Malformed)
}

// ParseRows reads an HTML document and walks the rows of the first table with
// class tableClass. A missing table is not an error; the RowSet reports TableFound false.
func ParseRows(r io.Reader, tableClass string) (*RowSet, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return ParseDocument(doc, tableClass), nil
}

// ParseDocument walks the catalog table of an already parsed document.
func ParseDocument(doc *goquery.Document, tableClass string) *RowSet {
	if tableClass == "" {
		tableClass = DefaultTableClass
	}

	rs := &RowSet{
		Rows:      make([]RawCourseRow, 0),
		Malformed: make([]MalformedRow, 0),
	}

	table := doc.Find("table." + tableClass).First()
	if table.Length() == 0 {
		return rs
	}
	rs.TableFound = true

	body := table.ChildrenFiltered("tbody").First()
	body.ChildrenFiltered("tr").Each(func(i int, tr *goquery.Selection) {
		index := i + 1
		cells := tr.ChildrenFiltered("td")

		if cells.Length() < MinCells {
			rs.Malformed = append(rs.Malformed, MalformedRow{
				Index:  index,
				Cells:  cells.Length(),
				Reason: fmt.Sprintf("%d cells, need at least %d", cells.Length(), MinCells),
			})
			return
		}

		text := make([]string, cells.Length())
		cells.Each(func(j int, td *goquery.Selection) {
			text[j] = Clean(td.Text())
		})

		if text[0] == "" {
			rs.Malformed = append(rs.Malformed, MalformedRow{
				Index:  index,
				Cells:  len(text),
				Reason: "empty course/section cell",
			})
			return
		}

		row := RawCourseRow{
			Index:         index,
			CourseSection: text[0],
			Title:         text[1],
			Seats:         text[2],
			Credit:        text[3],
			Meetings:      text[4],
			Instructors:   text[5],
		}
		if len(text) > MinCells {
			row.Notes = text[6]
		}
		rs.Rows = append(rs.Rows, row)
	})

	return rs
}
