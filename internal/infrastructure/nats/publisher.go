package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Publisher publishes account events as JSON on core NATS subjects.
type Publisher struct {
	conn conn
}

func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("go-rider-auth"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &Publisher{conn: nc}, nil
}

func (p *Publisher) Publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	slog.DebugContext(ctx, "publishing event", "subject", subject)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close flushes pending messages before closing the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
