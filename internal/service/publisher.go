// Package service connects the booking flows to RabbitMQ: submitted drafts
// are handed to the reservation desk as BookingRequestedEvent messages and
// back-office saves are announced as BookingUpdatedEvent messages.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/weshowyou-tours/internal/booking"
	"github.com/iliyamo/weshowyou-tours/internal/model"
	q "github.com/iliyamo/weshowyou-tours/internal/queue"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// openFunc opens a channel and returns a func releasing it and its
// connection.
type openFunc func(url string) (channel, func(), error)

// AMQPClient publishes booking events. It is a booking.ReservationClient
// for submitted drafts and a booking.UpdateNotifier for back-office saves.
// Each publish dials its own connection.
type AMQPClient struct {
	URL string
	Log logrus.FieldLogger

	open openFunc
	now  func() time.Time
}

var (
	_ booking.ReservationClient = (*AMQPClient)(nil)
	_ booking.UpdateNotifier    = (*AMQPClient)(nil)
)

func NewAMQPClient(url string, log logrus.FieldLogger) *AMQPClient {
	return &AMQPClient{URL: url, Log: log, open: dial, now: time.Now}
}

func dial(url string) (channel, func(), error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return ch, func() {
		_ = ch.Close()
		_ = conn.Close()
	}, nil
}

// Reserve publishes the submitted draft to the booking.requested queue. The
// reservation counts as accepted once the broker has taken the message.
func (c *AMQPClient) Reserve(ctx context.Context, req booking.ReservationRequest) (booking.ReservationResult, error) {
	now := c.now().UTC()
	requestedAt := req.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = now
	}
	ev := q.BookingRequestedEvent{
		Reference:   booking.NewReference(),
		DraftID:     req.DraftID,
		TourID:      req.Tour.ID,
		TourTitle:   req.Tour.Title,
		Name:        req.Draft.Name,
		Email:       req.Draft.Email,
		Date:        req.Draft.Date,
		Guests:      req.Draft.Guests,
		TotalCents:  req.TotalCents,
		RequestedAt: requestedAt.Format(time.RFC3339),
	}
	if err := c.publish(ctx, q.BookingRequestedQueue, ev); err != nil {
		return booking.ReservationResult{}, err
	}
	return booking.ReservationResult{Reference: ev.Reference, AcceptedAt: now}, nil
}

// BookingUpdated publishes a BookingUpdatedEvent for b.
func (c *AMQPClient) BookingUpdated(ctx context.Context, b model.Booking) error {
	updatedAt := b.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = c.now()
	}
	return c.publish(ctx, q.BookingUpdatedQueue, q.BookingUpdatedEvent{
		BookingID:     b.ID,
		Customer:      b.Customer,
		Tour:          b.Tour,
		Date:          b.Date,
		Time:          b.Time,
		Participants:  b.Participants,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		PriceCents:    b.PriceCents,
		UpdatedAt:     updatedAt.UTC().Format(time.RFC3339),
	})
}

func (c *AMQPClient) publish(ctx context.Context, queue string, event any) error {
	log := c.Log.WithField("queue", queue)
	body, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("rabbitmq: marshal event failed")
		return err
	}
	ch, release, err := c.open(c.URL)
	if err != nil {
		log.WithError(err).Error("rabbitmq: dial failed")
		return err
	}
	defer release()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		log.WithError(err).Error("rabbitmq: queue declare failed")
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    c.now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		log.WithError(err).Error("rabbitmq: publish failed")
		return err
	}
	return nil
}
