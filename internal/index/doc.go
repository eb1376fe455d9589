// Package index keeps the document store in step with a note source.
//
// Each run loads every note, reparses only those whose fingerprint changed,
// removes notes that disappeared and optionally publishes an Event per stored
// note.
package index
