// Package archive implements the optional write-only Postgres archive of
// score history points.
//
// The archive exists for offline analysis. It is strictly one-way: the live
// store is seeded from the static snapshot on every start and never reads
// the archive back, so running without a database changes nothing about the
// dataset's behavior.
package archive
