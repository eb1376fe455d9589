// Package store persists parsed Subtext documents in SQLite, keyed by note
// id. Each row also keeps the note's fingerprint so the indexer can skip
// notes that have not changed.
package store
