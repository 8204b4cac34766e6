// Package repository defines the storage interfaces the service depends on
// together with two implementations of each: fixture-seeded in-memory
// stores used by default, and MySQL stores over database/sql.
package repository

import "errors"

// ErrBookingNotFound is returned when no booking has the requested id.
// Handlers translate it into a 404 "booking not found" response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrTourNotFound is returned when a tour id or slug is not in the catalog.
var ErrTourNotFound = errors.New("tour not found")

// ErrStaffNotFound is returned when no back-office account matches.
var ErrStaffNotFound = errors.New("staff not found")

// ErrTokenInvalid covers unknown, expired and revoked refresh tokens.
var ErrTokenInvalid = errors.New("refresh token invalid")
