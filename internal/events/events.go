// Package events publishes domain events after successful writes.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/nats-io/nats.go"
)

const (
	UserRegistered = "users.registered"
	AccountDeleted = "accounts.deleted"
	PostCreated    = "posts.created"
	PostDeleted    = "posts.deleted"
	PostLiked      = "posts.liked"
	PostUnliked    = "posts.unliked"
	PostCommented  = "posts.commented"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close() error
}

// Event is the envelope written to the wire.
type Event struct {
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type NATSPublisher struct {
	conn *nats.Conn
	log  *slog.Logger
}

func ConnectNATS(url string, log *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("devconnector"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, xerrors.New(err)
	}

	log.Info("Connected to NATS", "url", conn.ConnectedUrl())
	return &NATSPublisher{conn: conn, log: log}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, subject string, payload any) error {
	if !p.conn.IsConnected() {
		return xerrors.New(nats.ErrConnectionClosed)
	}

	data, err := json.Marshal(Event{Subject: subject, OccurredAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return xerrors.New(err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

func (Nop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, subject string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{Subject: subject, OccurredAt: time.Now().UTC(), Payload: payload})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	subjects := make([]string, len(r.Events))
	for i, e := range r.Events {
		subjects[i] = e.Subject
	}
	return subjects
}
