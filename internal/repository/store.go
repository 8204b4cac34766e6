package repository

import (
	"context"
	"time"

	"github.com/iliyamo/weshowyou-tours/internal/model"
)

// BookingStore is the back-office booking repository. Save inserts or
// replaces the record with the same ID and stamps UpdatedAt.
type BookingStore interface {
	Get(ctx context.Context, id string) (model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	Save(ctx context.Context, b model.Booking) (model.Booking, error)
}

// TourCatalog is the read-only public catalog.
type TourCatalog interface {
	List(ctx context.Context) ([]model.Tour, error)
	Get(ctx context.Context, id uint64) (model.Tour, error)
	GetBySlug(ctx context.Context, slug string) (model.Tour, error)
}

// StaffStore looks up back-office accounts.
type StaffStore interface {
	GetByEmail(ctx context.Context, email string) (model.Staff, error)
	GetByID(ctx context.Context, id uint64) (model.Staff, error)
}

// TokenStore persists refresh-token hashes for staff sessions.
type TokenStore interface {
	StoreRefresh(ctx context.Context, staffID uint64, tokenHash string, exp time.Time) error
	// ValidateRefresh returns the owning staff id of a live token or
	// ErrTokenInvalid.
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, staffID uint64) error
}
