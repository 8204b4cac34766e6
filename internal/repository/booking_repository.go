package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/weshowyou-tours/internal/model"
)

// BookingRepo is the MySQL BookingStore. Dates and times are stored in DATE
// and TIME columns and formatted back to the YYYY-MM-DD / HH:MM strings the
// model carries.
type BookingRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db, now: time.Now}
}

const bookingColumns = `id, customer, email, phone, tour,
	DATE_FORMAT(tour_date, '%Y-%m-%d'), TIME_FORMAT(tour_time, '%H:%i'),
	participants, status, payment_status, price_cents, special_requests,
	guide_notes, pickup_location, emergency_contact, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.Customer, &b.Email, &b.Phone, &b.Tour, &b.Date, &b.Time,
		&b.Participants, &b.Status, &b.PaymentStatus, &b.PriceCents, &b.SpecialRequests,
		&b.GuideNotes, &b.PickupLocation, &b.EmergencyContact, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Get fetches one booking by id. It returns ErrBookingNotFound when no row
// matches.
func (r *BookingRepo) Get(ctx context.Context, id string) (model.Booking, error) {
	q := "SELECT " + bookingColumns + " FROM bookings WHERE id = ?"
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, ErrBookingNotFound
		}
		return model.Booking{}, err
	}
	return b, nil
}

// List returns all bookings ordered by id.
func (r *BookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	q := "SELECT " + bookingColumns + " FROM bookings ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save upserts the booking. created_at is preserved on update; updated_at is
// always stamped with the current time.
func (r *BookingRepo) Save(ctx context.Context, b model.Booking) (model.Booking, error) {
	now := r.now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	const q = `INSERT INTO bookings
		(id, customer, email, phone, tour, tour_date, tour_time, participants, status,
		 payment_status, price_cents, special_requests, guide_notes, pickup_location,
		 emergency_contact, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		 customer = VALUES(customer), email = VALUES(email), phone = VALUES(phone),
		 tour = VALUES(tour), tour_date = VALUES(tour_date), tour_time = VALUES(tour_time),
		 participants = VALUES(participants), status = VALUES(status),
		 payment_status = VALUES(payment_status), price_cents = VALUES(price_cents),
		 special_requests = VALUES(special_requests), guide_notes = VALUES(guide_notes),
		 pickup_location = VALUES(pickup_location), emergency_contact = VALUES(emergency_contact),
		 updated_at = VALUES(updated_at)`
	_, err := r.db.ExecContext(ctx, q,
		b.ID, b.Customer, b.Email, b.Phone, b.Tour, b.Date, b.Time, b.Participants,
		string(b.Status), string(b.PaymentStatus), b.PriceCents, b.SpecialRequests,
		b.GuideNotes, b.PickupLocation, b.EmergencyContact, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	// re-read so the caller sees the stored created_at on updates
	return r.Get(ctx, b.ID)
}
