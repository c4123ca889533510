// Package amqp publishes invoice events to a RabbitMQ topic exchange.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/SscSPs/billing_app/internal/core/ports/notifications"
	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// session is one open connection and channel to the broker.
type session interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	IsClosed() bool
	Close() error
}

// Publisher delivers invoice events, one message per event, routed by event type.
// A session closed by the broker is replaced on the next Publish.
type Publisher struct {
	exchangeName string
	connect      func() (session, error)
	session      session
	mu           sync.Mutex
}

var _ notifications.Publisher = (*Publisher)(nil)

// NewPublisher dials url and declares a durable topic exchange.
func NewPublisher(url, exchangeName string) (*Publisher, error) {
	if exchangeName == "" {
		return nil, errors.New("exchange name is required")
	}

	p := &Publisher{
		exchangeName: exchangeName,
		connect: func() (session, error) {
			s, err := dial(url, exchangeName)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	}
	s, err := p.connect()
	if err != nil {
		return nil, err
	}
	p.session = s
	return p, nil
}

// Publish sends every event and stops at the first failure. A publish that fails because
// the session was closed is retried once on a fresh session.
func (p *Publisher) Publish(ctx context.Context, events ...domain.InvoiceEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, event := range events {
		msg, err := newPublishing(event)
		if err != nil {
			return err
		}

		err = p.publish(ctx, event, msg)
		if err != nil && p.session != nil && (errors.Is(err, amqp091.ErrClosed) || p.session.IsClosed()) {
			p.dropSession()
			err = p.publish(ctx, event, msg)
		}
		if err != nil {
			return fmt.Errorf("publish %s for invoice %s: %w", event.Type, event.InvoiceID, err)
		}

		slog.DebugContext(ctx, "Published invoice event",
			"type", event.Type,
			"invoice_id", event.InvoiceID,
			"exchange", p.exchangeName)
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, event domain.InvoiceEvent, msg amqp091.Publishing) error {
	s, err := p.openSession(ctx)
	if err != nil {
		return err
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return s.PublishWithContext(
		pubCtx,
		p.exchangeName,    // exchange
		routingKey(event), // routing key
		false,             // mandatory
		false,             // immediate
		msg,
	)
}

// openSession returns the current session, reconnecting when the broker closed it.
// Callers hold p.mu.
func (p *Publisher) openSession(ctx context.Context) (session, error) {
	if p.session != nil && !p.session.IsClosed() {
		return p.session, nil
	}
	p.dropSession()

	s, err := p.connect()
	if err != nil {
		return nil, fmt.Errorf("reconnect AMQP: %w", err)
	}
	p.session = s
	slog.InfoContext(ctx, "Reconnected to AMQP broker", "exchange", p.exchangeName)
	return s, nil
}

func (p *Publisher) dropSession() {
	if p.session != nil {
		p.session.Close()
		p.session = nil
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil {
		return nil
	}
	err := p.session.Close()
	p.session = nil
	return err
}

// brokerSession is a session backed by a live RabbitMQ connection.
type brokerSession struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func dial(url, exchangeName string) (*brokerSession, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	s := &brokerSession{conn: conn, channel: channel}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return s, nil
}

func (s *brokerSession) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	return s.channel.PublishWithContext(ctx, exchange, key, mandatory, immediate, msg)
}

func (s *brokerSession) IsClosed() bool {
	return s.conn.IsClosed() || s.channel.IsClosed()
}

func (s *brokerSession) Close() error {
	s.channel.Close()
	return s.conn.Close()
}

func routingKey(event domain.InvoiceEvent) string {
	return string(event.Type)
}

func newPublishing(event domain.InvoiceEvent) (amqp091.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	}, nil
}
