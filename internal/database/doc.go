// Package database provides the PostgreSQL connection pool for the optional
// history archive. The live dataset itself is never read from the database.
package database
