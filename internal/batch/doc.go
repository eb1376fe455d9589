// Package batch applies the Subtext block parser to many notes at once.
//
// A PARSE_NOTES request carries an array of {id, content} records; the
// response holds one {id, parsedContent} record per note in input order.
// Ids are opaque JSON values and are echoed back unchanged.
//
// Parse is the plain sequential form. Dispatcher fans the same work out over
// a bounded pool and can isolate per-note failures.
package batch
