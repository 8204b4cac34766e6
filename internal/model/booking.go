package model

import "time"

// BookingStatus is the lifecycle state of a booking as shown in the
// back-office.
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusCompleted BookingStatus = "Completed"
	StatusCancelled BookingStatus = "Cancelled"
)

// BookingStatuses lists every status in the order the edit form offers them.
var BookingStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	for _, v := range BookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PaymentStatus records how much of a booking has been paid.
type PaymentStatus string

const (
	PaymentNotPaid     PaymentStatus = "Not Paid"
	PaymentDepositPaid PaymentStatus = "Deposit Paid"
	PaymentFullyPaid   PaymentStatus = "Fully Paid"
	PaymentRefunded    PaymentStatus = "Refunded"
)

// PaymentStatuses lists every payment status in form order.
var PaymentStatuses = []PaymentStatus{PaymentNotPaid, PaymentDepositPaid, PaymentFullyPaid, PaymentRefunded}

func (p PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if p == v {
			return true
		}
	}
	return false
}

// Booking is a reservation record for a tour as handled by the back-office.
// It references its tour by name only; nothing enforces that the name exists
// in the catalog.
//
// Fields:
//
//	ID               – booking reference such as BK-1001.
//	Date             – tour day, YYYY-MM-DD.
//	Time             – departure time, HH:MM.
//	Participants     – number of guests, at least one.
//	PriceCents       – total price in euro cents, never negative.
//	CreatedAt        – creation timestamp.
//	UpdatedAt        – last update timestamp, stamped by the store on save.
type Booking struct {
	ID               string        `json:"id" validate:"required"`
	Customer         string        `json:"customer" validate:"required"`
	Email            string        `json:"email" validate:"required,email"`
	Phone            string        `json:"phone"`
	Tour             string        `json:"tour" validate:"required"`
	Date             string        `json:"date" validate:"required,datetime=2006-01-02"`
	Time             string        `json:"time" validate:"required,datetime=15:04"`
	Participants     int           `json:"participants" validate:"gte=1"`
	Status           BookingStatus `json:"status" validate:"booking_status"`
	PaymentStatus    PaymentStatus `json:"payment_status" validate:"payment_status"`
	PriceCents       int64         `json:"price_cents" validate:"gte=0"`
	SpecialRequests  string        `json:"special_requests"`
	GuideNotes       string        `json:"guide_notes"`
	PickupLocation   string        `json:"pickup_location"`
	EmergencyContact string        `json:"emergency_contact"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Upcoming reports whether the booking is still ahead of the given day and
// has not been closed out.
func (b Booking) Upcoming(today string) bool {
	if b.Status == StatusCancelled || b.Status == StatusCompleted {
		return false
	}
	return b.Date >= today
}
