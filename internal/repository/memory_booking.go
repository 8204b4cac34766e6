package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/weshowyou-tours/internal/model"
)

// MemoryBookingStore keeps bookings in a map guarded by a RWMutex. Records
// are copied in and out so callers never share state with the store.
type MemoryBookingStore struct {
	mu    sync.RWMutex
	items map[string]model.Booking
	now   func() time.Time
}

// NewMemoryBookingStore seeds a store with the given bookings.
func NewMemoryBookingStore(seed []model.Booking) *MemoryBookingStore {
	s := &MemoryBookingStore{items: make(map[string]model.Booking, len(seed)), now: time.Now}
	for _, b := range seed {
		s.items[b.ID] = b
	}
	return s
}

func (s *MemoryBookingStore) Get(_ context.Context, id string) (model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.items[id]
	if !ok {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, nil
}

// List returns bookings ordered by id.
func (s *MemoryBookingStore) List(_ context.Context) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Booking, 0, len(s.items))
	for _, b := range s.items {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryBookingStore) Save(_ context.Context, b model.Booking) (model.Booking, error) {
	now := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.items[b.ID]; ok {
		b.CreatedAt = prev.CreatedAt
	} else if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	s.items[b.ID] = b
	return b, nil
}
