// Package store persists colleges, locations and courses through database/sql.
//
// Two drivers are supported: "sqlite" (modernc.org/sqlite, the default) and
// "postgres" (pgx through its database/sql adapter). Queries are written with "?"
// placeholders and rebound for postgres.
//
// A pipeline run works inside a single Tx. Every read and write on a Tx runs under
// its own savepoint, so one failed statement leaves earlier work in the transaction
// intact and the run can still commit.
package store
