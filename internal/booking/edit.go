package booking

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/weshowyou-tours/internal/model"
	"github.com/iliyamo/weshowyou-tours/internal/repository"
	"github.com/iliyamo/weshowyou-tours/internal/utils"
	"github.com/iliyamo/weshowyou-tours/internal/validation"
)

// UpdateNotifier is told about every booking the back-office saves.
type UpdateNotifier interface {
	BookingUpdated(ctx context.Context, b model.Booking) error
}

// Editor opens edit forms over a booking store.
type Editor struct {
	Store    repository.BookingStore
	Notifier UpdateNotifier // optional
	Log      logrus.FieldLogger
}

// Load opens an edit form holding a copy of booking id.
func (e *Editor) Load(ctx context.Context, id string) (*EditForm, error) {
	b, err := e.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EditForm{editor: e, booking: b, state: StateOpen}, nil
}

// EditForm is the back-office edit form for one booking. Changes stay on
// the form until Submit saves them.
type EditForm struct {
	editor *Editor

	mu      sync.Mutex
	booking model.Booking
	state   State
}

// Booking returns the form's current values.
func (f *EditForm) Booking() model.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.booking
}

// UpdateField writes one field. participants is coerced to an integer and
// price from a euro amount; status and payment_status accept only their
// enumerated values. The id is not editable.
func (f *EditForm) UpdateField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateOpen {
		if f.state == StateSubmitting {
			return ErrSubmitInProgress
		}
		return ErrFormNotOpen
	}
	b := &f.booking
	switch name {
	case "customer":
		b.Customer = value
	case "email":
		b.Email = strings.TrimSpace(value)
	case "phone":
		b.Phone = value
	case "tour":
		b.Tour = value
	case "date":
		b.Date = strings.TrimSpace(value)
	case "time":
		b.Time = strings.TrimSpace(value)
	case "participants":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fieldError("participants", "must be a whole number")
		}
		b.Participants = n
	case "status":
		s := model.BookingStatus(value)
		if !s.Valid() {
			return fieldError("status", "must be one of Pending, Confirmed, Completed, Cancelled")
		}
		b.Status = s
	case "payment_status":
		p := model.PaymentStatus(value)
		if !p.Valid() {
			return fieldError("payment_status", "must be one of Not Paid, Deposit Paid, Fully Paid, Refunded")
		}
		b.PaymentStatus = p
	case "price":
		cents, err := utils.ParseEuroCents(value)
		if err != nil {
			return fieldError("price", "must be a non-negative euro amount")
		}
		b.PriceCents = cents
	case "special_requests":
		b.SpecialRequests = value
	case "guide_notes":
		b.GuideNotes = value
	case "pickup_location":
		b.PickupLocation = value
	case "emergency_contact":
		b.EmergencyContact = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Submit validates the form and saves it. The saved record is returned and
// the form closes; on any error the form stays open with its values.
func (f *EditForm) Submit(ctx context.Context) (model.Booking, error) {
	f.mu.Lock()
	if f.state != StateOpen {
		st := f.state
		f.mu.Unlock()
		if st == StateSubmitting {
			return model.Booking{}, ErrSubmitInProgress
		}
		return model.Booking{}, ErrFormNotOpen
	}
	if err := validation.Struct(f.booking); err != nil {
		f.mu.Unlock()
		return model.Booking{}, err
	}
	b := f.booking
	f.state = StateSubmitting
	f.mu.Unlock()

	saved, err := f.editor.Store.Save(ctx, b)

	f.mu.Lock()
	if err != nil {
		f.state = StateOpen
		f.mu.Unlock()
		return model.Booking{}, err
	}
	f.booking = saved
	f.state = StateClosed
	f.mu.Unlock()

	if n := f.editor.Notifier; n != nil {
		if err := n.BookingUpdated(ctx, saved); err != nil && f.editor.Log != nil {
			f.editor.Log.WithError(err).WithField("booking_id", saved.ID).Warn("booking update notification failed")
		}
	}
	return saved, nil
}
