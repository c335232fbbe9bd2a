// Package queue contains the background consumer that listens to the camp
// events queue and appends one human-friendly line per event to a log file.
package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/pkg/errors"
    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/rs/zerolog/log"
)

// ConsumerConfig tells the consumer where to read from and write to.
type ConsumerConfig struct {
    URL     string // broker URL
    Queue   string // durable queue name
    LogPath string // file events are appended to
}

// StartEventConsumer connects to RabbitMQ, declares the queue (durable) and
// consumes until ctx is cancelled.  Broker failures are retried with
// exponential backoff capped at 30s; a message that cannot be handled is
// rejected without requeue so the consumer keeps going.
func StartEventConsumer(ctx context.Context, cfg ConsumerConfig) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(cfg.URL)
        if err != nil {
            log.Warn().Err(err).Dur("retry_in", backoff).Msg("event-consumer: failed to dial broker")
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = consumeLoop(ctx, conn, cfg)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn().Err(err).Msg("event-consumer: consume loop ended; reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg ConsumerConfig) error {
    ch, err := conn.Channel()
    if err != nil {
        return errors.Wrap(err, "channel open")
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn().Err(err).Msg("event-consumer: set QoS failed")
    }
    if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
        return errors.Wrap(err, "queue declare")
    }
    msgs, err := ch.Consume(cfg.Queue, "", false, false, false, false, nil)
    if err != nil {
        return errors.Wrap(err, "queue consume")
    }
    log.Info().Str("queue", cfg.Queue).Msg("event-consumer: consuming")

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := HandleMessage(d.Body, cfg.LogPath); err != nil {
                log.Error().Err(err).Msg("event-consumer: handle message failed")
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// HandleMessage decodes one event and appends its log line to path,
// creating the parent directory when needed.
func HandleMessage(body []byte, path string) error {
    var ev Event
    if err := json.Unmarshal(body, &ev); err != nil {
        return errors.Wrap(err, "unmarshal")
    }
    if ev.Type == "" {
        return errors.New("event without type")
    }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return errors.Wrap(err, "mkdir logs")
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return errors.Wrap(err, "open log file")
    }
    defer f.Close()

    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return errors.Wrap(err, "write log")
    }
    return nil
}

// FormatLine renders an event as a single newline-terminated line.
func FormatLine(ev Event) string {
    fields := []string{fmt.Sprintf("id=%s", ev.ID)}
    if ev.SignupID != 0 {
        fields = append(fields, fmt.Sprintf("signup_id=%d", ev.SignupID))
    }
    if ev.CamperID != 0 {
        fields = append(fields, fmt.Sprintf("camper_id=%d", ev.CamperID))
    }
    if ev.CamperName != "" {
        fields = append(fields, fmt.Sprintf("camper=%q", ev.CamperName))
    }
    if ev.CamperAge != 0 {
        fields = append(fields, fmt.Sprintf("age=%d", ev.CamperAge))
    }
    if ev.ActivityID != 0 {
        fields = append(fields, fmt.Sprintf("activity_id=%d", ev.ActivityID))
    }
    if ev.ActivityName != "" {
        fields = append(fields, fmt.Sprintf("activity=%q", ev.ActivityName))
    }
    if ev.Time != nil {
        fields = append(fields, fmt.Sprintf("time=%d", *ev.Time))
    }
    if ev.Type == TypeActivityDeleted {
        fields = append(fields, fmt.Sprintf("removed_signups=%d", ev.RemovedSignups))
    }
    return fmt.Sprintf("[%s] %s | %s\n", ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, strings.Join(fields, " | "))
}
