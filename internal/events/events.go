// Package events publishes domain events to the AMQP topic exchange.
package events

import (
	"context"
	"sync"
	"time"
)

// ExchangeName is the topic exchange every event is published to.
const ExchangeName = "events"

// Routing keys.
const (
	TasksGenerated = "workflow.tasks.generated"
)

// Publisher sends a JSON-encodable payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// TasksGeneratedEvent is published after a successful workflow run.
type TasksGeneratedEvent struct {
	ClientID    string    `json:"client_id"`
	TemplateID  string    `json:"template_id"`
	StartDate   string    `json:"start_date"`
	TaskIDs     []string  `json:"task_ids"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// Message is one event captured by a Recorder.
type Message struct {
	RoutingKey string
	Payload    any
}

// Recorder keeps published events in memory. Err, when set, is returned
// from every Publish call instead of recording.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (r *Recorder) Publish(_ context.Context, routingKey string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.messages = append(r.messages, Message{RoutingKey: routingKey, Payload: payload})
	return nil
}

func (r *Recorder) Close() error { return nil }

// Messages returns a copy of the recorded events.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
