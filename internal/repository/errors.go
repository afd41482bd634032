// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let handlers and the booking
// service tell a missing row apart from a datastore failure.
package repository

import "errors"

// ErrTourNotFound is returned when no tour has the requested ID.  Handlers
// translate it into an HTTP 404 response.
var ErrTourNotFound = errors.New("tour not found")

// ErrBookingNotFound is returned when no booking has the requested ID.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound is returned when no user has the requested ID.
var ErrUserNotFound = errors.New("user not found")

// ErrConflict is returned when an insert collides with a unique key, such
// as a second user with the same identity-provider subject.  Handlers
// translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
