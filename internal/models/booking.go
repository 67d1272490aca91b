package models

import (
	"time"
)

// BookingStatus is a booking reference code (type STATUS).
type BookingStatus string

const (
	BookingPending   BookingStatus = "S1"
	BookingConfirmed BookingStatus = "S2"
	BookingCancelled BookingStatus = "S3"
	BookingCompleted BookingStatus = "S4"
)

// BookingStatuses lists every valid booking status code.
func BookingStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted}
}

// Booking represents one patient's reservation against a schedule slot.
// Date and TimeType are copied from the schedule at creation time so that
// booking listings need no join; ScheduleID is the authoritative link used
// for capacity reconciliation. Token is an opaque unique identifier issued
// per booking for idempotent client-side lookup.
type Booking struct {
	BaseModel
	ScheduleID string        `gorm:"size:36;index" json:"scheduleId"`
	DoctorID   string        `gorm:"size:36;index" json:"doctorId"`
	PatientID  string        `gorm:"size:36;index" json:"patientId"`
	Date       time.Time     `gorm:"type:date" json:"date"`
	TimeType   TimeType      `gorm:"size:20" json:"timeType"`
	StatusID   BookingStatus `gorm:"size:20;default:'S1'" json:"statusId"`
	Token      string        `gorm:"size:36;uniqueIndex" json:"token"`

	// Relations
	Schedule Schedule `gorm:"foreignKey:ScheduleID" json:"-"`
	Doctor   User     `gorm:"foreignKey:DoctorID" json:"-"`
	Patient  User     `gorm:"foreignKey:PatientID" json:"-"`
}
