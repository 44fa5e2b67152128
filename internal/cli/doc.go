// Package cli implements the command-line interface for catalog-import.
//
// The cli package provides the Cobra-based CLI with commands to scrape catalog pages into
// semester snapshots, import them into the database, seed colleges and locations, list and
// filter stored courses, and export them as an iCalendar file. Results print as text or JSON.
// A source that cannot be loaded exits with status 2; setup failures exit with status 1.
package cli
