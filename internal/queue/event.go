// Package queue defines the messages exchanged with the reservation system
// over RabbitMQ and the consumer that records them in the booking log.
package queue

// Queue names. Both queues are durable and use the default exchange with
// the queue name as routing key.
const (
	BookingRequestedQueue = "booking.requested"
	BookingUpdatedQueue   = "booking.updated"
)

// BookingRequestedEvent is published when a visitor submits a booking draft.
// It carries everything the reservation desk needs to call the customer back.
type BookingRequestedEvent struct {
	Reference   string `json:"reference"`
	DraftID     string `json:"draft_id"`
	TourID      uint64 `json:"tour_id"`
	TourTitle   string `json:"tour_title"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Date        string `json:"date"`
	Guests      int    `json:"guests"`
	TotalCents  int64  `json:"total_cents"`
	RequestedAt string `json:"requested_at"`
}

// BookingUpdatedEvent is published after staff save a booking in the
// back-office.
type BookingUpdatedEvent struct {
	BookingID     string `json:"booking_id"`
	Customer      string `json:"customer"`
	Tour          string `json:"tour"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Participants  int    `json:"participants"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	PriceCents    int64  `json:"price_cents"`
	UpdatedAt     string `json:"updated_at"`
}
