// Package events publishes entry lifecycle events for other systems to consume.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jdholdren/retrodex/internal/dex"
)

const (
	ActionCreated = "entry.created"
	ActionDeleted = "entry.deleted"
	ActionLiked   = "entry.liked"
)

type Event struct {
	Action    string     `json:"action"`
	EntryID   string     `json:"entryId"`
	Entry     *dex.Entry `json:"entry,omitempty"`
	UserID    string     `json:"userId,omitempty"`
	Likes     *int       `json:"likes,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

type (
	RabbitMQ struct {
		conn     *amqp.Connection
		channel  *amqp.Channel
		exchange string
	}

	Config struct {
		URL       string
		Exchange  string
		QueueName string
	}
)

// NewRabbitMQ connects and declares a direct exchange with one durable queue
// bound for every action.
func NewRabbitMQ(cfg Config) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error opening channel: %w", err)
	}

	if err := declare(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	slog.Info("connected to rabbitmq", "exchange", cfg.Exchange, "queue", cfg.QueueName)
	return &RabbitMQ{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
	}, nil
}

func declare(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("error declaring exchange: %w", err)
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("error declaring queue: %w", err)
	}
	for _, key := range []string{ActionCreated, ActionDeleted, ActionLiked} {
		if err := ch.QueueBind(q.Name, key, cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	return nil
}

// Publish sends the event with its action as the routing key.
func (r *RabbitMQ) Publish(ctx context.Context, evt Event) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("error encoding event: %w", err)
	}

	err = r.channel.PublishWithContext(ctx, r.exchange, evt.Action, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
		Timestamp:    evt.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("error publishing event: %w", err)
	}

	slog.DebugContext(ctx, "published event", "action", evt.Action, "entry_id", evt.EntryID)
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
