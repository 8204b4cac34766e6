package booking

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v3"

	"github.com/iliyamo/weshowyou-tours/internal/model"
)

// ReservationRequest is what a submitted draft hands to the reservation
// system.
type ReservationRequest struct {
	DraftID     string
	Draft       Draft
	Tour        model.Tour
	TotalCents  int64
	RequestedAt time.Time
}

// ReservationResult is the reservation system's acknowledgement.
type ReservationResult struct {
	Reference  string
	AcceptedAt time.Time
}

// ReservationClient takes a submitted draft off the form's hands.
type ReservationClient interface {
	Reserve(ctx context.Context, req ReservationRequest) (ReservationResult, error)
}

// SimulatedClient stands in for a reservation backend: it waits Delay and
// then accepts every request. The wait ends early if ctx is cancelled.
type SimulatedClient struct {
	Delay time.Duration
}

func (c SimulatedClient) Reserve(ctx context.Context, req ReservationRequest) (ReservationResult, error) {
	if c.Delay > 0 {
		t := time.NewTimer(c.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ReservationResult{}, ctx.Err()
		case <-t.C:
		}
	}
	return ReservationResult{Reference: NewReference(), AcceptedAt: time.Now().UTC()}, nil
}

// NewReference returns a short, URL-safe reservation reference.
func NewReference() string {
	return "REQ-" + shortuuid.New()
}
