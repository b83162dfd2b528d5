package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is the common root of every missing-entity error.
var ErrNotFound = errors.New("not found")

var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrPropertyNotFound    = fmt.Errorf("property %w", ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)
)

var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidTransition = errors.New("invalid reservation status transition")
	ErrInvalidInput      = errors.New("invalid input")
)

// Reservation creation rules.
var (
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrCapacityExceeded = errors.New("number of guests exceeds property capacity")
	ErrPropertyInactive = errors.New("property is not active")
	ErrSelfBooking      = errors.New("hosts cannot book their own property")
	ErrNotAvailable     = errors.New("property is not available for the selected dates")
)

var (
	ErrHasActiveBookings  = errors.New("property has active reservations")
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserHasDependents  = errors.New("user still owns properties or reservations")
)
