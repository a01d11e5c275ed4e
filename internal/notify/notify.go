// Package notify publishes "document rendered" notifications.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
	"git.home.luguber.info/inful/mdrender/internal/logfields"
)

// RenderedEvent describes one rendered document.
type RenderedEvent struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Title       string    `json:"title,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Bytes       int       `json:"bytes"`
	Cached      bool      `json:"cached"`
	Error       string    `json:"error,omitempty"`
	RenderedAt  time.Time `json:"rendered_at"`
}

// Publisher sends rendered-document notifications.
type Publisher interface {
	PublishRendered(ctx context.Context, ev RenderedEvent) error
	Close() error
}

// NoopPublisher drops every notification.
type NoopPublisher struct{}

func (NoopPublisher) PublishRendered(context.Context, RenderedEvent) error { return nil }
func (NoopPublisher) Close() error                                         { return nil }

// conn is the subset of *nats.Conn used for publishing.
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes notifications as JSON on a NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
	now     func() time.Time
}

// NewNATSPublisher connects to url and publishes on subject.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("mdrender"))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to connect to NATS").
			WithContext("url", url).
			Retryable().
			Build()
	}
	slog.Info("NATS publisher initialized", logfields.URL(url), logfields.Subject(subject))
	return newNATSPublisher(nc, subject), nil
}

func newNATSPublisher(c conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: c, subject: subject, now: time.Now}
}

// PublishRendered implements Publisher. Missing IDs and timestamps are filled in.
func (p *NATSPublisher) PublishRendered(ctx context.Context, ev RenderedEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.RenderedAt.IsZero() {
		ev.RenderedAt = p.now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal rendered event").Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to publish rendered event").
			WithContext("subject", p.subject).
			Retryable().
			Build()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to flush rendered event").
			WithContext("subject", p.subject).
			Retryable().
			Build()
	}

	slog.Debug("Published rendered event",
		logfields.Subject(p.subject),
		logfields.Path(ev.Path),
		logfields.Fingerprint(ev.Fingerprint))
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
