// Package scraper turns a captured course-catalog page into parsed course records.
//
// A page is loaded from a local file or an http(s) URL, the rows of the catalog table
// (table.footable by default) are walked with goquery, and each row's cells are run
// through the field extractors: course code and section, department, meeting days and
// time, building and room, and college. Extractors never fail; a pattern that does not
// match yields a nil field. Rows with too few cells are reported as malformed rather
// than aborting the page.
package scraper
