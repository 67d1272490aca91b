package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"clinic-booking-server/internal/models"
)

// BookingRepository persists patient reservations and owns the two
// transactional couplings with the schedule capacity counter: reserve on
// create, release on cancel.
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateWithReservation atomically claims one unit of the target schedule's
// capacity and inserts the booking. The claim is a single conditional
// UPDATE; zero rows affected means the slot is either gone, not approved or
// already full, never a lost race. The whole operation commits or rolls
// back together.
func (r *BookingRepository) CreateWithReservation(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Schedule{}).
			Where("id = ? AND status = ? AND current_number < max_number",
				b.ScheduleID, models.ScheduleApproved).
			UpdateColumn("current_number", gorm.Expr("current_number + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var s models.Schedule
			err := tx.Where("id = ? AND status = ?", b.ScheduleID, models.ScheduleApproved).
				First(&s).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrScheduleNotFound
			}
			if err != nil {
				return err
			}
			return models.ErrScheduleFull
		}
		return tx.Create(b).Error
	})
}

// GetByID fetches a booking by id.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// UpdateStatus moves a booking to a new status, conditioned on the status
// observed by the caller so concurrent transitions cannot double-apply.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status_id = ?", id, from).
		Update("status_id", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrInvalidTransition
	}
	return nil
}

// CancelWithRelease transitions a booking to cancelled and gives its
// capacity unit back to the schedule, in one transaction. Cancelling an
// already-cancelled booking is a no-op that returns the existing row; the
// counter is decremented exactly once per booking.
func (r *BookingRepository) CancelWithRelease(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrBookingNotFound
			}
			return err
		}

		switch b.StatusID {
		case models.BookingCancelled:
			return nil
		case models.BookingCompleted:
			return models.ErrInvalidTransition
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status_id = ?", id, b.StatusID).
			Update("status_id", models.BookingCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Raced with another transition; reload and reclassify.
			if err := tx.First(&b, "id = ?", id).Error; err != nil {
				return err
			}
			if b.StatusID == models.BookingCancelled {
				return nil
			}
			return models.ErrInvalidTransition
		}

		err := tx.Model(&models.Schedule{}).
			Where("id = ? AND current_number > 0", b.ScheduleID).
			UpdateColumn("current_number", gorm.Expr("current_number - 1")).Error
		if err != nil {
			return err
		}

		return tx.First(&b, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByDoctor returns a doctor's bookings ordered by appointment date.
func (r *BookingRepository) ListByDoctor(ctx context.Context, doctorID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("date asc").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListByPatient returns a patient's bookings ordered by appointment date.
func (r *BookingRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date asc").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// PurgeCancelled deletes cancelled bookings whose last update is older than
// the cutoff and reports how many rows went away. The schedule counters were
// already reconciled when the bookings were cancelled, so they are left
// untouched. Calling it again with the same cutoff deletes nothing.
func (r *BookingRepository) PurgeCancelled(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status_id = ? AND updated_at < ?", models.BookingCancelled, cutoff).
		Delete(&models.Booking{})
	return res.RowsAffected, res.Error
}
