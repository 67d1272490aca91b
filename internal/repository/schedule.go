package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"clinic-booking-server/internal/models"
)

// ScheduleRepository persists doctor availability slots.
type ScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a schedule after checking that no live (non-rejected)
// schedule exists for the same (doctor, date, timeType) slot. The check and
// the insert run in one transaction so two concurrent creates cannot both
// pass the duplicate check.
func (r *ScheduleRepository) Create(ctx context.Context, s *models.Schedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Schedule{}).
			Where("doctor_id = ? AND date = ? AND time_type = ? AND status <> ?",
				s.DoctorID, s.Date, s.TimeType, models.ScheduleRejected).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return models.ErrScheduleExists
		}
		return tx.Create(s).Error
	})
}

// GetByID fetches a schedule by id.
func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	var s models.Schedule
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindApproved locates the unique approved schedule for a booking tuple.
func (r *ScheduleRepository) FindApproved(ctx context.Context, doctorID string, date time.Time, timeType models.TimeType) (*models.Schedule, error) {
	var s models.Schedule
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND time_type = ? AND status = ?",
			doctorID, date, timeType, models.ScheduleApproved).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Update saves the mutable slot fields (date, timeType, maxNumber). The
// duplicate-slot check is repeated against the new tuple, excluding the row
// itself.
func (r *ScheduleRepository) Update(ctx context.Context, s *models.Schedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Schedule{}).
			Where("doctor_id = ? AND date = ? AND time_type = ? AND status <> ? AND id <> ?",
				s.DoctorID, s.Date, s.TimeType, models.ScheduleRejected, s.ID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return models.ErrScheduleExists
		}
		return tx.Model(s).Updates(map[string]interface{}{
			"date":       s.Date,
			"time_type":  s.TimeType,
			"max_number": s.MaxNumber,
		}).Error
	})
}

// UpdateStatus moves a schedule to a new approval state, conditioned on the
// state observed by the caller. Zero rows affected means the row changed
// underneath us.
func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id string, from, to models.ScheduleStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Schedule{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrInvalidTransition
	}
	return nil
}

// List returns schedules matching the filter, ordered by date then time
// slot.
func (r *ScheduleRepository) List(ctx context.Context, f models.ScheduleFilter) ([]models.Schedule, error) {
	q := r.db.WithContext(ctx).Model(&models.Schedule{}).Order("date asc, time_type asc")
	if f.DoctorID != "" {
		q = q.Where("doctor_id = ?", f.DoctorID)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var schedules []models.Schedule
	if err := q.Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// Delete removes a schedule row. Callers must have verified that no live
// bookings still count against it.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Schedule{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrScheduleNotFound
	}
	return nil
}
