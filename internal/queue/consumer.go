package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Consumer listens on the booking queues and appends one line per message
// to the booking log.
type Consumer struct {
	URL     string
	LogPath string
	Log     logrus.FieldLogger

	mu sync.Mutex // serialises writes to LogPath
}

// NewConsumer returns a consumer writing to logPath, or logs/booking.log
// when logPath is empty.
func NewConsumer(url, logPath string, log logrus.FieldLogger) *Consumer {
	if logPath == "" {
		logPath = filepath.Join("logs", "booking.log")
	}
	return &Consumer{URL: url, LogPath: logPath, Log: log}
}

// Run connects to the broker, declares both booking queues and consumes
// until ctx is done. Dial failures and dropped connections are retried
// with exponential back-off capped at 30s. It returns nil once ctx ends.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.WithError(err).WithField("retry_in", backoff.String()).Warn("booking-consumer: dial failed")
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.Log.WithError(err).Warn("booking-consumer: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.WithError(err).Warn("booking-consumer: set QoS failed")
	}

	requested, err := declareAndConsume(ch, BookingRequestedQueue)
	if err != nil {
		return err
	}
	updated, err := declareAndConsume(ch, BookingUpdatedQueue)
	if err != nil {
		return err
	}

	for {
		var (
			d  amqp.Delivery
			ok bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok = <-requested:
		case d, ok = <-updated:
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := c.handle(d.RoutingKey, d.Body); err != nil {
			c.Log.WithError(err).WithField("queue", d.RoutingKey).Error("booking-consumer: handle message failed")
			_ = d.Nack(false, false) // no requeue, a poison message would spin forever
			continue
		}
		_ = d.Ack(false)
	}
}

func declareAndConsume(ch *amqp.Channel, name string) (<-chan amqp.Delivery, error) {
	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("queue declare %s: %w", name, err)
	}
	msgs, err := ch.Consume(name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("queue consume %s: %w", name, err)
	}
	return msgs, nil
}

// handle decodes one message from queue and appends its log line.
func (c *Consumer) handle(queue string, body []byte) error {
	var line string
	switch queue {
	case BookingRequestedQueue:
		var ev BookingRequestedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line = requestedLine(ev)
	case BookingUpdatedQueue:
		var ev BookingUpdatedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line = updatedLine(ev)
	default:
		return fmt.Errorf("unexpected queue %q", queue)
	}
	return c.appendLine(line)
}

func (c *Consumer) appendLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func requestedLine(ev BookingRequestedEvent) string {
	return fmt.Sprintf("[%s] Booking requested | reference=%s | draft_id=%s | tour_id=%d | tour=%q | name=%q | email=%s | date=%s | guests=%d | total=%d cents\n",
		ev.RequestedAt, ev.Reference, ev.DraftID, ev.TourID, ev.TourTitle, ev.Name, ev.Email, ev.Date, ev.Guests, ev.TotalCents)
}

func updatedLine(ev BookingUpdatedEvent) string {
	return fmt.Sprintf("[%s] Booking updated | booking_id=%s | customer=%q | tour=%q | date=%s %s | participants=%d | status=%q | payment=%q | price=%d cents\n",
		ev.UpdatedAt, ev.BookingID, ev.Customer, ev.Tour, ev.Date, ev.Time, ev.Participants, ev.Status, ev.PaymentStatus, ev.PriceCents)
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
