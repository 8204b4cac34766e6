package model

import "time"

// RoleStaff is the only role allowed into the back-office.
const RoleStaff = "STAFF"

// Staff is a back-office account. Only a bcrypt hash of the password is
// ever held.
type Staff struct {
	ID           uint64
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken models an entry in the refresh_tokens table. The raw token
// is never stored, only its SHA-256 hex digest.
type RefreshToken struct {
	ID        uint64
	StaffID   uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
