// Package storage keeps JSON snapshots of parsed courses on disk.
//
// Each semester has its own file, snapshot_<semester-slug>.json, under the data
// directory (default ~/.local/share/catalog-import/). A new scrape is compared
// against the previous file for the same semester before it replaces it.
package storage
