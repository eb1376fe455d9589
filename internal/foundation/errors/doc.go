// Package errors provides the classified error type shared by every layer of
// the Subtext service.
//
// A ClassifiedError carries a category (validation, parse, store, transport,
// internal, ...), a severity and a retry strategy. Two categories matter to
// the parser itself:
//   - CategoryValidation: a batch request that is not an array of notes.
//   - CategoryInternal: the block parser reached a state its rules cannot
//     produce. This is a parser bug, never bad input.
//
// The CLI and HTTP adapters turn classified errors into exit codes and
// status codes.
//
// Example usage:
//
//	err := errors.ValidationError("unsupported action").
//		WithContext("action", action).
//		Build()
package errors
