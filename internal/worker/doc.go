// Package worker carries PARSE_NOTES batches over NATS.
//
// Worker subscribes to a subject in a queue group and replies with the JSON
// result array, or with an ErrorReply when the request is invalid. Client is
// the requesting side. EventPublisher announces stored notes on the events
// subject.
package worker
