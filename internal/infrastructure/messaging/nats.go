package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"offerings-backend/internal/application/notifications"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const (
	connectWait   = 5 * time.Second
	maxReconnects = 5
	reconnectWait = 2 * time.Second

	DefaultSubject = "listings.review"
)

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Connect opens a NATS connection with reconnect logging.
func Connect(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("offerings-backend notifications"),
		nats.Timeout(connectWait),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return nc, nil
}

// Publisher publishes notification events as JSON on Subject. The kind is
// appended as a subject token, e.g. listings.review.NewListing.
type Publisher struct {
	Conn    Conn
	Subject string
}

func (p *Publisher) subject(kind notifications.Kind) string {
	s := p.Subject
	if s == "" {
		s = DefaultSubject
	}
	return s + "." + string(kind)
}

func (p *Publisher) Notify(ctx context.Context, e notifications.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.Conn.Publish(p.subject(e.Kind), data)
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() error {
	if p == nil || p.Conn == nil {
		return nil
	}
	return p.Conn.Drain()
}
