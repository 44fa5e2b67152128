package scraper

import "strings"

// Clean trims s and collapses internal whitespace runs, including non-breaking
// spaces, to a single space.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}
