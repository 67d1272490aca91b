package models

import (
	"time"
)

// ScheduleStatus represents the approval state of a schedule
type ScheduleStatus string

const (
	SchedulePending  ScheduleStatus = "pending"
	ScheduleApproved ScheduleStatus = "approved"
	ScheduleRejected ScheduleStatus = "rejected"
)

// Schedule represents one bookable unit of a doctor's time: a calendar day
// plus a time-slot code, with a finite patient capacity. CurrentNumber is
// the number of live (non-cancelled) bookings counted against the slot and
// never exceeds MaxNumber.
type Schedule struct {
	BaseModel
	DoctorID      string         `gorm:"size:36;index:idx_schedule_slot" json:"doctorId"`
	Date          time.Time      `gorm:"type:date;index:idx_schedule_slot" json:"date"`
	TimeType      TimeType       `gorm:"size:20;index:idx_schedule_slot" json:"timeType"`
	MaxNumber     int            `gorm:"not null" json:"maxNumber"`
	CurrentNumber int            `gorm:"not null;default:0" json:"currentNumber"`
	Status        ScheduleStatus `gorm:"size:20;default:'pending'" json:"status"`

	// Relations
	Doctor   User      `gorm:"foreignKey:DoctorID" json:"-"`
	Bookings []Booking `gorm:"foreignKey:ScheduleID" json:"-"`
}

// IsTerminal reports whether the approval state admits no further transition.
func (s ScheduleStatus) IsTerminal() bool {
	return s == ScheduleApproved || s == ScheduleRejected
}

// ScheduleFilter narrows schedule listings. Zero-value fields are ignored.
type ScheduleFilter struct {
	DoctorID string
	From     *time.Time
	To       *time.Time
	Status   *ScheduleStatus
}
