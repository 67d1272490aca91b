package models

import "errors"

// Sentinel errors shared across the service and repository layers. Handlers
// translate them into HTTP responses: not-found errors become 404, conflicts
// and disallowed transitions 409, authorization failures 403 and validation
// failures 400.
var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrCodeNotFound     = errors.New("reference code not found")
)

var (
	ErrScheduleExists    = errors.New("a schedule already exists for this doctor, date and time slot")
	ErrScheduleFull      = errors.New("schedule is fully booked")
	ErrScheduleHasActive = errors.New("schedule still has active bookings")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

var (
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation error")
)
