package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/subtext/internal/index"
)

// EventPublisher publishes index events on a NATS subject.
type EventPublisher struct {
	conn    *nats.Conn
	subject string
}

var _ index.Publisher = (*EventPublisher)(nil)

func NewEventPublisher(conn *nats.Conn, subject string) *EventPublisher {
	return &EventPublisher{conn: conn, subject: subject}
}

func (p *EventPublisher) Publish(_ context.Context, ev index.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := nats.NewMsg(p.subject)
	msg.Header.Set("Subtext-Note-Id", ev.NoteID)
	msg.Data = data
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
