// Package sqlite persists the embedding index artifact in a single SQLite file.
//
// The adapter uses modernc.org/sqlite, a pure Go SQLite implementation, so the
// binary builds without CGO.
//
// # Schema
//
// The schema is managed through versioned migrations in migrations/. An
// artifact holds one index_meta row and one chunks row per embedded chunk;
// chunks.position is the vector position and chunks.vector is the embedding
// encoded as little-endian float32.
//
// # Atomic replacement
//
// Save writes a complete database to a temporary file in the same directory
// and renames it over the previous artifact. Readers holding the old file keep
// a consistent view; new readers see the new build.
package sqlite
