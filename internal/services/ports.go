package services

import (
	"context"
	"time"

	"clinic-booking-server/internal/models"
)

// ScheduleRepo is the persistence surface the schedule registry needs.
type ScheduleRepo interface {
	Create(ctx context.Context, s *models.Schedule) error
	GetByID(ctx context.Context, id string) (*models.Schedule, error)
	FindApproved(ctx context.Context, doctorID string, date time.Time, timeType models.TimeType) (*models.Schedule, error)
	Update(ctx context.Context, s *models.Schedule) error
	UpdateStatus(ctx context.Context, id string, from, to models.ScheduleStatus) error
	List(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, error)
	Delete(ctx context.Context, id string) error
}

// BookingRepo is the persistence surface the booking engine needs. The two
// compound operations carry the capacity invariant: CreateWithReservation
// must claim a capacity unit and insert atomically, CancelWithRelease must
// flip the status and give the unit back atomically.
type BookingRepo interface {
	CreateWithReservation(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) error
	CancelWithRelease(ctx context.Context, id string) (*models.Booking, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Booking, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Booking, error)
	PurgeCancelled(ctx context.Context, cutoff time.Time) (int64, error)
}

// AllcodeRepo reads the reference-code table.
type AllcodeRepo interface {
	ListAll(ctx context.Context) ([]models.Allcode, error)
}

// CodeResolver validates reference codes before they are persisted.
type CodeResolver interface {
	Resolve(codeType, keyMap string) (*models.Allcode, error)
}

// Actor is the already-authenticated caller identity injected by the auth
// middleware. The engine enforces capacity and state invariants only; who
// may obtain a token is the auth service's problem.
type Actor struct {
	ID   string
	Role models.Role
}
