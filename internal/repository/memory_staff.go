package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/weshowyou-tours/internal/model"
)

// MemoryStaffStore holds back-office accounts configured at startup.
type MemoryStaffStore struct {
	byID map[uint64]model.Staff
}

func NewMemoryStaffStore(accounts ...model.Staff) *MemoryStaffStore {
	s := &MemoryStaffStore{byID: make(map[uint64]model.Staff, len(accounts))}
	for _, a := range accounts {
		a.Email = normalizeEmail(a.Email)
		s.byID[a.ID] = a
	}
	return s
}

func (s *MemoryStaffStore) GetByEmail(_ context.Context, email string) (model.Staff, error) {
	email = normalizeEmail(email)
	for _, a := range s.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Staff{}, ErrStaffNotFound
}

func (s *MemoryStaffStore) GetByID(_ context.Context, id uint64) (model.Staff, error) {
	a, ok := s.byID[id]
	if !ok {
		return model.Staff{}, ErrStaffNotFound
	}
	return a, nil
}

type memoryToken struct {
	staffID uint64
	exp     time.Time
	revoked bool
}

// MemoryTokenStore keeps refresh-token hashes for the life of the process.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*memoryToken
	now    func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]*memoryToken), now: time.Now}
}

func (s *MemoryTokenStore) StoreRefresh(_ context.Context, staffID uint64, tokenHash string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenHash] = &memoryToken{staffID: staffID, exp: exp}
	return nil
}

func (s *MemoryTokenStore) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[tokenHash]
	if !ok || t.revoked || s.now().UTC().After(t.exp) {
		return 0, ErrTokenInvalid
	}
	return t.staffID, nil
}

func (s *MemoryTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tokens[tokenHash]; ok {
		t.revoked = true
	}
	return nil
}

func (s *MemoryTokenStore) RevokeAllForUser(_ context.Context, staffID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.staffID == staffID {
			t.revoked = true
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
