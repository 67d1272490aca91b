package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/workflow"
)

// BookingService is the booking engine: it creates and cancels patient
// reservations against approved schedules and drives the booking status
// lifecycle. Capacity accounting is delegated to the repository's atomic
// compound operations so the invariant holds under concurrent requests.
type BookingService struct {
	bookings  BookingRepo
	schedules ScheduleRepo
	codes     CodeResolver
	log       zerolog.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(bookings BookingRepo, schedules ScheduleRepo, codes CodeResolver, log zerolog.Logger) *BookingService {
	return &BookingService{
		bookings:  bookings,
		schedules: schedules,
		codes:     codes,
		log:       log,
	}
}

// CreateBookingInput carries the fields for a new reservation.
type CreateBookingInput struct {
	DoctorID  string
	PatientID string
	Date      string
	TimeType  string
}

// Create reserves one capacity unit on the approved schedule matching
// (doctor, date, timeType) and records the booking in pending status with a
// fresh token. The reserve and the insert commit together; when the slot is
// full no booking row is left behind.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	date, err := time.Parse(DateLayout, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", models.ErrValidation, in.Date)
	}
	if _, err := s.codes.Resolve(models.CodeTypeTime, in.TimeType); err != nil {
		return nil, fmt.Errorf("%w: unknown time type %q", models.ErrValidation, in.TimeType)
	}

	schedule, err := s.schedules.FindApproved(ctx, in.DoctorID, date, models.TimeType(in.TimeType))
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ScheduleID: schedule.ID,
		DoctorID:   in.DoctorID,
		PatientID:  in.PatientID,
		Date:       date,
		TimeType:   models.TimeType(in.TimeType),
		StatusID:   models.BookingPending,
		Token:      uuid.New().String(),
	}
	if err := s.bookings.CreateWithReservation(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("booking_id", booking.ID).
		Str("schedule_id", schedule.ID).
		Str("patient_id", in.PatientID).
		Msg("booking created")

	return booking, nil
}

// Confirm moves a pending booking to confirmed. Only the assigned doctor or
// an admin may confirm.
func (s *BookingService) Confirm(ctx context.Context, id string, actor Actor) (*models.Booking, error) {
	return s.transition(ctx, id, models.BookingConfirmed, actor)
}

// Complete moves a confirmed booking to completed after the appointment
// took place. Only the assigned doctor or an admin may complete; completing
// a pending booking directly is not allowed.
func (s *BookingService) Complete(ctx context.Context, id string, actor Actor) (*models.Booking, error) {
	return s.transition(ctx, id, models.BookingCompleted, actor)
}

func (s *BookingService) transition(ctx context.Context, id string, to models.BookingStatus, actor Actor) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canManage(booking, actor) {
		return nil, fmt.Errorf("%w: only the assigned doctor or an admin may update this booking", models.ErrForbidden)
	}
	if !workflow.CanTransitionBooking(booking.StatusID, to) {
		return nil, fmt.Errorf("%w: booking %s -> %s", models.ErrInvalidTransition, booking.StatusID, to)
	}
	if err := s.bookings.UpdateStatus(ctx, id, booking.StatusID, to); err != nil {
		return nil, err
	}
	booking.StatusID = to

	s.log.Info().
		Str("booking_id", id).
		Str("status", string(to)).
		Msg("booking status updated")

	return booking, nil
}

// Cancel transitions a booking to cancelled and releases its capacity unit
// back to the schedule. The booking's patient, the assigned doctor and
// admins may cancel. Cancelling an already-cancelled booking returns the
// existing row without touching the counter again; a completed booking can
// no longer be cancelled.
func (s *BookingService) Cancel(ctx context.Context, id string, actor Actor) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(booking, actor) {
		return nil, fmt.Errorf("%w: not your booking", models.ErrForbidden)
	}

	cancelled, err := s.bookings.CancelWithRelease(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("booking_id", id).
		Str("schedule_id", cancelled.ScheduleID).
		Msg("booking cancelled")

	return cancelled, nil
}

// GetByID fetches a booking, visible to the involved patient, the assigned
// doctor and admins.
func (s *BookingService) GetByID(ctx context.Context, id string, actor Actor) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(booking, actor) {
		return nil, fmt.Errorf("%w: not your booking", models.ErrForbidden)
	}
	return booking, nil
}

// ListByDoctor returns a doctor's bookings, date ascending. Doctors may only
// list their own; admins may list any.
func (s *BookingService) ListByDoctor(ctx context.Context, doctorID string, actor Actor) ([]models.Booking, error) {
	if actor.Role != models.RoleAdmin && !(actor.Role == models.RoleDoctor && actor.ID == doctorID) {
		return nil, fmt.Errorf("%w: cannot list another doctor's bookings", models.ErrForbidden)
	}
	return s.bookings.ListByDoctor(ctx, doctorID)
}

// ListByPatient returns a patient's bookings, date ascending. Patients may
// only list their own; admins may list any.
func (s *BookingService) ListByPatient(ctx context.Context, patientID string, actor Actor) ([]models.Booking, error) {
	if actor.Role != models.RoleAdmin && actor.ID != patientID {
		return nil, fmt.Errorf("%w: cannot list another patient's bookings", models.ErrForbidden)
	}
	return s.bookings.ListByPatient(ctx, patientID)
}

// PurgeCancelled deletes cancelled bookings whose last update is older than
// the retention window and returns the number deleted. Safe to call
// repeatedly.
func (s *BookingService) PurgeCancelled(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	count, err := s.bookings.PurgeCancelled(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge cancelled bookings: %w", err)
	}
	if count > 0 {
		s.log.Info().Int64("count", count).Time("cutoff", cutoff).Msg("cancelled bookings purged")
	}
	return count, nil
}

func (s *BookingService) canManage(b *models.Booking, actor Actor) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return actor.Role == models.RoleDoctor && actor.ID == b.DoctorID
}

func (s *BookingService) canAccess(b *models.Booking, actor Actor) bool {
	if s.canManage(b, actor) {
		return true
	}
	return actor.Role == models.RolePatient && actor.ID == b.PatientID
}
