// Package workflow holds the two state machines shared by the schedule
// registry and the booking engine: admin approval of schedules and the
// booking status lifecycle.
package workflow

import (
	"clinic-booking-server/internal/models"
)

// bookingEdges enumerates the allowed booking transitions. Cancelled and
// completed are terminal; a pending booking cannot jump straight to
// completed.
var bookingEdges = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled},
}

// scheduleEdges enumerates the allowed approval transitions. Approved and
// rejected are terminal.
var scheduleEdges = map[models.ScheduleStatus][]models.ScheduleStatus{
	models.SchedulePending: {models.ScheduleApproved, models.ScheduleRejected},
}

// CanTransitionBooking reports whether a booking may move from one status
// to another.
func CanTransitionBooking(from, to models.BookingStatus) bool {
	for _, next := range bookingEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionSchedule reports whether a schedule may move from one
// approval state to another.
func CanTransitionSchedule(from, to models.ScheduleStatus) bool {
	for _, next := range scheduleEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalBooking reports whether a booking status admits no further
// transition.
func IsTerminalBooking(s models.BookingStatus) bool {
	return len(bookingEdges[s]) == 0
}
