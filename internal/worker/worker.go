package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/subtext/internal/batch"
	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
	"git.home.luguber.info/inful/subtext/internal/logfields"
)

// ErrorReply is sent back instead of a result array when a request fails.
type ErrorReply struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Worker answers PARSE_NOTES requests on a NATS subject. Workers sharing a
// queue group split the requests between them.
type Worker struct {
	conn       *nats.Conn
	dispatcher *batch.Dispatcher
	subject    string
	queue      string
	timeout    time.Duration
	logger     *slog.Logger

	sub *nats.Subscription
}

// New creates a Worker. A zero timeout means requests are never cut short.
func New(conn *nats.Conn, d *batch.Dispatcher, subject, queue string, timeout time.Duration, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		conn:       conn,
		dispatcher: d,
		subject:    subject,
		queue:      queue,
		timeout:    timeout,
		logger:     logger.With(logfields.Subject(subject)),
	}
}

// Start subscribes the worker.
func (w *Worker) Start() error {
	sub, err := w.conn.QueueSubscribe(w.subject, w.queue, func(msg *nats.Msg) {
		reply := w.handle(msg.Data)
		if msg.Reply == "" {
			w.logger.Warn("Dropping PARSE_NOTES request without reply subject")
			return
		}
		if err := msg.Respond(reply); err != nil {
			w.logger.Error("Failed to respond", logfields.Error(err))
		}
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryTransport, "failed to subscribe").
			WithContext("subject", w.subject).
			Build()
	}
	w.sub = sub
	w.logger.Info("Parse worker listening", slog.String("queue", w.queue))
	return nil
}

// Connected reports whether the worker's NATS connection is up.
func (w *Worker) Connected() bool {
	return w.conn != nil && w.conn.IsConnected()
}

// Stop drains the subscription so in-flight requests are answered.
func (w *Worker) Stop() error {
	if w.sub == nil {
		return nil
	}
	return w.sub.Drain()
}

func (w *Worker) handle(data []byte) []byte {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	out, err := w.dispatcher.HandlePayload(ctx, data)
	if err == nil {
		return out
	}

	reply := ErrorReply{Error: err.Error()}
	if c, ok := errors.AsClassified(err); ok {
		reply = ErrorReply{Error: c.Message(), Code: string(c.Category())}
	}
	w.logger.Warn("PARSE_NOTES request failed", logfields.Error(err))
	b, merr := json.Marshal(reply)
	if merr != nil {
		return []byte(`{"error":"internal error"}`)
	}
	return b
}
