package worker

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/subtext/internal/batch"
	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
	"git.home.luguber.info/inful/subtext/internal/retry"
)

// Client sends PARSE_NOTES requests to remote workers.
type Client struct {
	conn    *nats.Conn
	subject string
	timeout time.Duration
	retry   retry.Policy
}

// NewClient creates a Client. timeout bounds each attempt when ctx has no
// deadline of its own. Requests are not retried unless WithRetry is used.
func NewClient(conn *nats.Conn, subject string, timeout time.Duration) *Client {
	return &Client{conn: conn, subject: subject, timeout: timeout, retry: retry.NewPolicy("", 0, 0, 0)}
}

// WithRetry sets the policy used for transient request failures.
func (c *Client) WithRetry(p retry.Policy) *Client {
	c.retry = p
	return c
}

// ParseNotes sends notes to a worker and returns its results.
func (c *Client) ParseNotes(ctx context.Context, notes []batch.Note) ([]batch.Result, error) {
	if notes == nil {
		notes = []batch.Note{}
	}
	payload, err := json.Marshal(batch.Request{Action: batch.ActionParseNotes, Notes: notes})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return c.Request(ctx, payload)
}

// Request sends a raw payload and decodes the reply. No responders and
// per-attempt timeouts are retried according to the client's policy.
func (c *Client) Request(ctx context.Context, payload []byte) ([]batch.Result, error) {
	var msg *nats.Msg
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		msg, err = c.request(ctx, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	return DecodeReply(msg.Data)
}

func (c *Client) request(ctx context.Context, payload []byte) (*nats.Msg, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	msg, err := c.conn.RequestWithContext(ctx, c.subject, payload)
	if err == nil {
		return msg, nil
	}
	b := errors.WrapError(err, errors.CategoryTransport, "PARSE_NOTES request failed").
		WithContext("subject", c.subject)
	switch {
	case stderrors.Is(err, nats.ErrNoResponders):
		b = b.Retryable()
	case stderrors.Is(err, nats.ErrTimeout) || stderrors.Is(err, context.DeadlineExceeded):
		// The request already waited out its timeout.
		b = b.WithRetry(errors.RetryImmediate)
	}
	return nil, b.Build()
}

// DecodeReply turns a worker reply into results, or into the error the
// worker reported.
func DecodeReply(data []byte) ([]batch.Result, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		var reply ErrorReply
		if err := json.Unmarshal(trimmed, &reply); err != nil {
			return nil, fmt.Errorf("decode error reply: %w", err)
		}
		category := errors.ErrorCategory(reply.Code)
		if category == "" {
			category = errors.CategoryRuntime
		}
		return nil, errors.NewError(category, reply.Error).WithContext("remote", true).Build()
	}

	var results []batch.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return results, nil
}
