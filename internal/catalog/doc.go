// Package catalog provides the canonical course-catalog entities for the five colleges.
//
// ParsedCourse is what the scraper extracts from one table row. College, Location and
// PersistedCourse mirror rows owned by the persistence layer. A Snapshot is the JSON
// form of one scrape run, and Diff compares two snapshots by natural key.
package catalog
