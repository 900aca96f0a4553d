// Package room provides the Room entity and its SQLite repository.
//
// Rooms are created and renamed through the GraphQL mutations and are never
// deleted. Validation runs inside the repository's persist path, so callers
// learn about bad input from the same call that would have written the row.
//
// # Thread Safety
//
// SQLiteRepository is safe for concurrent use from multiple goroutines
// (SQLite WAL mode + a single pooled connection).
package room
