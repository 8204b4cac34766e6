// Package booking implements the booking draft form a visitor fills in from
// the public site, the registry that keeps open drafts addressable between
// requests, and the back-office edit form.
//
// A draft form moves Closed -> Open -> Submitting -> Closed on success, or
// Open -> Closed when cancelled. A failed submission goes back to Open with
// everything the visitor typed left in place.
package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/weshowyou-tours/internal/validation"
)

var (
	ErrFormNotOpen      = errors.New("booking form is not open")
	ErrSubmitInProgress = errors.New("booking submission already in progress")
	ErrUnknownField     = errors.New("unknown field")
	ErrDraftNotFound    = errors.New("draft not found")
)

// State is the position of a form in its lifecycle.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

// MarshalText lets states appear by name in JSON responses.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

const dateLayout = "2006-01-02"

// Draft is the transient record collected by the booking modal.
type Draft struct {
	TourID uint64 `json:"tour_id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Guests int    `json:"guests" validate:"gte=1,lte=50"`
}

// MaxGuests is the largest party one draft can book.
const MaxGuests = 50

// emptyDraft is the state right after Open: every field blank, one guest.
func emptyDraft(tourID uint64) Draft {
	return Draft{TourID: tourID, Guests: 1}
}

// setField applies one input change to d. It enforces only what the
// corresponding form control would: guests is a whole number between one
// and MaxGuests, and date is a calendar day no earlier than today.
func setField(d *Draft, name, value string, today time.Time) error {
	switch name {
	case "name":
		d.Name = value
	case "email":
		d.Email = strings.TrimSpace(value)
	case "date":
		value = strings.TrimSpace(value)
		if value != "" {
			day, err := time.Parse(dateLayout, value)
			if err != nil {
				return fieldError("date", "must be a date in YYYY-MM-DD form")
			}
			if day.Before(today) {
				return fieldError("date", "must not be before today")
			}
		}
		d.Date = value
	case "guests":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fieldError("guests", "must be a whole number")
		}
		if n < 1 {
			return fieldError("guests", "must be at least 1")
		}
		if n > MaxGuests {
			return fieldError("guests", fmt.Sprintf("must be at most %d", MaxGuests))
		}
		d.Guests = n
	default:
		return ErrUnknownField
	}
	return nil
}

func fieldError(field, msg string) error {
	return &validation.Error{Fields: map[string]string{field: msg}}
}

// startOfDay truncates t to midnight UTC.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
