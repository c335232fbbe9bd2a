// Package service provides the outbound side of domain events: publishing
// them to RabbitMQ after a write has committed.
package service

import (
    "context"
    "encoding/json"
    "time"

    "github.com/pkg/errors"
    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/camp-signup/internal/queue"
)

// defaultDialTimeout bounds the dial and handshake when ctx has no deadline.
const defaultDialTimeout = 5 * time.Second

// AMQPPublisher publishes events to a durable queue through the default
// exchange.  Each call dials its own connection, bounded by the caller's
// context; the event rate of this API is one per write at most.
type AMQPPublisher struct {
    URL   string
    Queue string
}

// NewAMQPPublisher returns a publisher for the given broker and queue.
func NewAMQPPublisher(url, queueName string) *AMQPPublisher {
    return &AMQPPublisher{URL: url, Queue: queueName}
}

// Publish sends ev as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.Event) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return errors.Wrap(err, "marshal event")
    }

    if err := ctx.Err(); err != nil {
        return errors.Wrap(err, "rabbitmq: dial")
    }
    // the handshake deadline follows ctx; amqp091 defaults to 30s otherwise
    timeout := defaultDialTimeout
    if deadline, ok := ctx.Deadline(); ok {
        timeout = time.Until(deadline)
    }
    if timeout <= 0 {
        return errors.Wrap(context.DeadlineExceeded, "rabbitmq: dial")
    }
    conn, err := amqp.DialConfig(p.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(timeout),
    })
    if err != nil {
        return errors.Wrap(err, "rabbitmq: dial")
    }
    defer func() { _ = conn.Close() }()
    // channel open and queue declare have no deadline of their own; closing
    // the connection when ctx ends unblocks them
    stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
    defer stop()

    ch, err := conn.Channel()
    if err != nil {
        return errors.Wrap(err, "rabbitmq: channel open")
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
        return errors.Wrap(err, "rabbitmq: queue declare")
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        MessageId:    ev.ID,
        Type:         ev.Type,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
        return errors.Wrap(err, "rabbitmq: publish")
    }
    return nil
}

// NopPublisher drops every event.  It is used when events are disabled.
type NopPublisher struct{}

// Publish implements the publisher contract and never fails.
func (NopPublisher) Publish(context.Context, queue.Event) error { return nil }
