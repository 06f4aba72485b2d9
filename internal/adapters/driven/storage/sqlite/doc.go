// Package sqlite provides a SQLite-backed implementation of the
// VectorStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Documents are
// stored with their embedding vectors as little-endian float32 blobs;
// similarity search embeds the query and ranks rows by cosine
// similarity in process.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory. Each migration is a pair of .up.sql and
// .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.paperdesk/data/papers.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
