package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes persistent JSON messages to ExchangeName.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// DialAMQP connects to url and declares the durable topic exchange.
func DialAMQP(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("events: declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, channel: ch}, nil
}

// Publish marshals payload to JSON and publishes it under routingKey.
// Channels are not safe for concurrent publishing, so calls are serialised.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", routingKey, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx, ExchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("events: publish %s: %w", routingKey, err)
	}
	return nil
}

// IsConnected reports whether the underlying connection is still open.
func (p *AMQPPublisher) IsConnected() bool {
	return p.conn != nil && p.channel != nil && !p.conn.IsClosed()
}

// Close closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// New returns an AMQPPublisher for url, or Nop when url is empty.
func New(url string) (Publisher, error) {
	if url == "" {
		return Nop{}, nil
	}
	return DialAMQP(url)
}

// Broker connection states reported by Status.
const (
	StatusDisabled     = "disabled"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// Status reports p's broker connection for health checks. Publishers that
// hold no connection, such as Nop, report StatusDisabled.
func Status(p Publisher) string {
	c, ok := p.(interface{ IsConnected() bool })
	switch {
	case !ok:
		return StatusDisabled
	case c.IsConnected():
		return StatusConnected
	default:
		return StatusDisconnected
	}
}
