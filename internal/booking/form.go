package booking

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/weshowyou-tours/internal/model"
	"github.com/iliyamo/weshowyou-tours/internal/repository"
	"github.com/iliyamo/weshowyou-tours/internal/utils"
	"github.com/iliyamo/weshowyou-tours/internal/validation"
)

// ConfirmationMessage is shown to the visitor after a successful submit.
const ConfirmationMessage = "Thank you for your booking! We'll contact you shortly to confirm your tour."

// Confirmation describes an accepted submission.
type Confirmation struct {
	Reference  string    `json:"reference"`
	TourID     uint64    `json:"tour_id"`
	TourTitle  string    `json:"tour_title"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Date       string    `json:"date"`
	Guests     int       `json:"guests"`
	TotalCents int64     `json:"total_cents"`
	Total      string    `json:"total"`
	Message    string    `json:"message"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// Snapshot is a consistent copy of a form's visible state.
type Snapshot struct {
	State      State       `json:"state"`
	Draft      Draft       `json:"draft"`
	Tour       *model.Tour `json:"tour,omitempty"`
	TotalCents int64       `json:"total_cents"`
	Total      string      `json:"total"`
}

// Form is one visitor's booking modal. All methods are safe for concurrent
// use; a second Submit while one is in flight fails with
// ErrSubmitInProgress.
type Form struct {
	mu      sync.Mutex
	id      string
	state   State
	draft   Draft
	tour    model.Tour
	catalog repository.TourCatalog
	client  ReservationClient
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewForm returns a closed form that resolves tours through catalog and
// submits through client. A nil catalog accepts any tour id at a zero price.
func NewForm(catalog repository.TourCatalog, client ReservationClient, log logrus.FieldLogger) *Form {
	return &Form{catalog: catalog, client: client, log: log, now: time.Now}
}

// Open selects the tour and resets the draft to empty values. Reopening an
// open form starts over; a form mid-submission cannot be reopened.
func (f *Form) Open(ctx context.Context, tourID uint64) error {
	tour := model.Tour{ID: tourID}
	if f.catalog != nil {
		var err error
		if tour, err = f.catalog.Get(ctx, tourID); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return ErrSubmitInProgress
	}
	f.state = StateOpen
	f.tour = tour
	f.draft = emptyDraft(tourID)
	return nil
}

// UpdateField writes one field of the draft. Text is stored as typed;
// guests is coerced to an integer.
func (f *Form) UpdateField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case StateOpen:
	case StateSubmitting:
		return ErrSubmitInProgress
	default:
		return ErrFormNotOpen
	}
	return setField(&f.draft, name, value, startOfDay(f.now().UTC()))
}

// Cancel closes the form and discards the draft. Cancelling a form that is
// submitting has no effect on the submission in flight.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return
	}
	f.reset()
}

// Submit validates the draft, prices it and hands it to the reservation
// client. On success the form is closed and cleared. On failure the error is
// logged and returned, and the form stays open with the draft untouched.
func (f *Form) Submit(ctx context.Context) (Confirmation, error) {
	f.mu.Lock()
	switch f.state {
	case StateOpen:
	case StateSubmitting:
		f.mu.Unlock()
		return Confirmation{}, ErrSubmitInProgress
	default:
		f.mu.Unlock()
		return Confirmation{}, ErrFormNotOpen
	}
	if err := validation.Struct(f.draft); err != nil {
		f.mu.Unlock()
		return Confirmation{}, err
	}
	draft, tour := f.draft, f.tour
	total := Total(tour.UnitPriceCents, draft.Guests)
	f.state = StateSubmitting
	f.mu.Unlock()

	res, err := f.client.Reserve(ctx, ReservationRequest{
		DraftID:     f.id,
		Draft:       draft,
		Tour:        tour,
		TotalCents:  total,
		RequestedAt: f.now().UTC(),
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.log.WithError(err).WithFields(logrus.Fields{
			"draft_id": f.id,
			"tour_id":  tour.ID,
		}).Error("booking submission failed")
		f.state = StateOpen
		return Confirmation{}, err
	}
	f.reset()
	return Confirmation{
		Reference:  res.Reference,
		TourID:     tour.ID,
		TourTitle:  tour.Title,
		Name:       draft.Name,
		Email:      draft.Email,
		Date:       draft.Date,
		Guests:     draft.Guests,
		TotalCents: total,
		Total:      utils.FormatEuro(total),
		Message:    ConfirmationMessage,
		AcceptedAt: res.AcceptedAt,
	}, nil
}

// Snapshot returns the current state, draft and selected tour.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := Snapshot{State: f.state, Draft: f.draft}
	if f.state != StateClosed {
		tour := f.tour
		s.Tour = &tour
		s.TotalCents = Total(tour.UnitPriceCents, f.draft.Guests)
		s.Total = utils.FormatEuro(s.TotalCents)
	}
	return s
}

// State reports the current lifecycle state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) reset() {
	f.state = StateClosed
	f.draft = Draft{}
	f.tour = model.Tour{}
}

// Total is the displayed price: unit price times guest count. It saturates
// at math.MaxInt64 instead of wrapping.
func Total(unitCents int64, guests int) int64 {
	if guests <= 0 || unitCents <= 0 {
		return 0
	}
	if unitCents > math.MaxInt64/int64(guests) {
		return math.MaxInt64
	}
	return unitCents * int64(guests)
}
