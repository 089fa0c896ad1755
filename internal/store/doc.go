// Package store persists pulse state in SQLite: the CRM customer base, the
// product catalog, generated sales opportunities, and pipeline run records.
//
// The schema is versioned as a whole; incompatible databases fail fast at
// open time rather than migrating silently. Writes retry briefly on
// SQLITE_BUSY so the daemon and one-shot CLI invocations can share a
// database file.
package store
