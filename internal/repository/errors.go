// Package repository holds the in-memory session store and the sentinel
// errors it reports.  Handlers translate ErrSessionNotFound and
// ErrBookingNotFound into HTTP 404 responses.
package repository

import "errors"

// ErrSessionNotFound is returned when a session ID is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// ErrBookingNotFound is returned when a booking number does not exist in
// the session.
var ErrBookingNotFound = errors.New("booking not found")
