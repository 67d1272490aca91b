package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/workflow"
)

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// defaultListWindowDays is the doctor-facing listing window when the caller
// gives no date range: today plus the next three days.
const defaultListWindowDays = 3

// ScheduleService is the schedule registry: it creates, lists and updates
// doctor availability slots and runs the admin approval workflow over them.
type ScheduleService struct {
	schedules   ScheduleRepo
	codes       CodeResolver
	autoApprove bool
	log         zerolog.Logger
}

// NewScheduleService creates a new ScheduleService. When autoApprove is set,
// schedules created by an admin skip the pending state.
func NewScheduleService(schedules ScheduleRepo, codes CodeResolver, autoApprove bool, log zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		schedules:   schedules,
		codes:       codes,
		autoApprove: autoApprove,
		log:         log,
	}
}

// CreateScheduleInput carries the fields for a new slot.
type CreateScheduleInput struct {
	DoctorID  string
	Date      string
	TimeType  string
	MaxNumber int
	ActorRole models.Role
}

// Create validates the slot fields and inserts a new schedule with a zero
// reservation counter. Doctors get a pending slot awaiting admin approval;
// admins get an approved one when the auto-approve policy is on.
func (s *ScheduleService) Create(ctx context.Context, in CreateScheduleInput) (*models.Schedule, error) {
	date, timeType, err := s.validateSlot(in.Date, in.TimeType, in.MaxNumber)
	if err != nil {
		return nil, err
	}

	status := models.SchedulePending
	if in.ActorRole == models.RoleAdmin && s.autoApprove {
		status = models.ScheduleApproved
	}

	schedule := &models.Schedule{
		DoctorID:      in.DoctorID,
		Date:          date,
		TimeType:      timeType,
		MaxNumber:     in.MaxNumber,
		CurrentNumber: 0,
		Status:        status,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.log.Info().
		Str("schedule_id", schedule.ID).
		Str("doctor_id", schedule.DoctorID).
		Str("time_type", string(schedule.TimeType)).
		Str("status", string(schedule.Status)).
		Msg("schedule created")

	return schedule, nil
}

// Approve moves a pending schedule to approved. Approving an already
// approved schedule is a no-op; approving a rejected one is an error.
func (s *ScheduleService) Approve(ctx context.Context, id string) (*models.Schedule, error) {
	return s.transition(ctx, id, models.ScheduleApproved)
}

// Reject moves a pending schedule to rejected, freeing its slot tuple for a
// new proposal. Rejecting an already rejected schedule is a no-op.
func (s *ScheduleService) Reject(ctx context.Context, id string) (*models.Schedule, error) {
	return s.transition(ctx, id, models.ScheduleRejected)
}

func (s *ScheduleService) transition(ctx context.Context, id string, to models.ScheduleStatus) (*models.Schedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status == to {
		return schedule, nil
	}
	if !workflow.CanTransitionSchedule(schedule.Status, to) {
		return nil, fmt.Errorf("%w: schedule %s -> %s", models.ErrInvalidTransition, schedule.Status, to)
	}
	if err := s.schedules.UpdateStatus(ctx, id, schedule.Status, to); err != nil {
		return nil, err
	}
	schedule.Status = to

	s.log.Info().
		Str("schedule_id", id).
		Str("status", string(to)).
		Msg("schedule status updated")

	return schedule, nil
}

// UpdateScheduleInput carries the optional fields of a schedule update.
// Nil pointers leave the current value in place.
type UpdateScheduleInput struct {
	Date      *string
	TimeType  *string
	MaxNumber *int
}

// Update edits the slot fields of a schedule. Only pending schedules may
// change: an approved slot is public and may already carry bookings counted
// against its capacity.
func (s *ScheduleService) Update(ctx context.Context, id string, in UpdateScheduleInput) (*models.Schedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status != models.SchedulePending {
		return nil, fmt.Errorf("%w: only pending schedules can be edited", models.ErrInvalidTransition)
	}

	if in.Date != nil {
		date, err := time.Parse(DateLayout, *in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", models.ErrValidation, *in.Date)
		}
		schedule.Date = date
	}
	if in.TimeType != nil {
		if _, err := s.codes.Resolve(models.CodeTypeTime, *in.TimeType); err != nil {
			return nil, fmt.Errorf("%w: unknown time type %q", models.ErrValidation, *in.TimeType)
		}
		schedule.TimeType = models.TimeType(*in.TimeType)
	}
	if in.MaxNumber != nil {
		if *in.MaxNumber < 1 {
			return nil, fmt.Errorf("%w: maxNumber must be at least 1", models.ErrValidation)
		}
		schedule.MaxNumber = *in.MaxNumber
	}

	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}
	return schedule, nil
}

// ListScheduleInput narrows a schedule listing.
type ListScheduleInput struct {
	DoctorID string
	From     string
	To       string
	Status   string
}

// List returns schedules ordered by (date asc, timeType asc). A doctor
// filter without a date range defaults to the upcoming window patients care
// about: today through the next three days.
func (s *ScheduleService) List(ctx context.Context, in ListScheduleInput) ([]models.Schedule, error) {
	f := models.ScheduleFilter{DoctorID: in.DoctorID}

	if in.From != "" {
		from, err := time.Parse(DateLayout, in.From)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", models.ErrValidation, in.From)
		}
		f.From = &from
	}
	if in.To != "" {
		to, err := time.Parse(DateLayout, in.To)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", models.ErrValidation, in.To)
		}
		f.To = &to
	}
	if in.DoctorID != "" && f.From == nil && f.To == nil {
		from := time.Now().UTC().Truncate(24 * time.Hour)
		to := from.AddDate(0, 0, defaultListWindowDays)
		f.From = &from
		f.To = &to
	}

	if in.Status != "" {
		status := models.ScheduleStatus(in.Status)
		switch status {
		case models.SchedulePending, models.ScheduleApproved, models.ScheduleRejected:
			f.Status = &status
		default:
			return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, in.Status)
		}
	}

	return s.schedules.List(ctx, f)
}

// GetByID fetches one schedule.
func (s *ScheduleService) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	return s.schedules.GetByID(ctx, id)
}

// Delete removes a schedule outright. Refused while bookings still hold
// capacity on the slot; cancel or complete them first.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if schedule.CurrentNumber > 0 {
		return fmt.Errorf("%w: %d active bookings", models.ErrScheduleHasActive, schedule.CurrentNumber)
	}
	if err := s.schedules.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("schedule_id", id).Msg("schedule deleted")
	return nil
}

func (s *ScheduleService) validateSlot(dateStr, timeType string, maxNumber int) (time.Time, models.TimeType, error) {
	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid date %q", models.ErrValidation, dateStr)
	}
	if _, err := s.codes.Resolve(models.CodeTypeTime, timeType); err != nil {
		return time.Time{}, "", fmt.Errorf("%w: unknown time type %q", models.ErrValidation, timeType)
	}
	if maxNumber < 1 {
		return time.Time{}, "", fmt.Errorf("%w: maxNumber must be at least 1", models.ErrValidation)
	}
	return date, models.TimeType(timeType), nil
}
