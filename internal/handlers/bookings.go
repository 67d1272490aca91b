package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"clinic-booking-server/internal/middleware"
	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/services"
	"clinic-booking-server/internal/utils"
)

// BookingHandler handles booking related requests.
type BookingHandler struct {
	bookings      *services.BookingService
	retentionDays int
}

// NewBookingHandler creates a new BookingHandler. retentionDays is the
// window the cleanup endpoint applies when purging cancelled bookings.
func NewBookingHandler(bookings *services.BookingService, retentionDays int) *BookingHandler {
	return &BookingHandler{
		bookings:      bookings,
		retentionDays: retentionDays,
	}
}

func actorFromContext(c *gin.Context) services.Actor {
	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	return services.Actor{ID: userID, Role: userRole}
}

// CreateBookingRequest represents the request body for creating a booking.
type CreateBookingRequest struct {
	DoctorID  string `json:"doctorId" binding:"required,uuid"`
	PatientID string `json:"patientId" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`
	TimeType  string `json:"timeType" binding:"required"`
}

// CreateBooking handles reserving a slot. Patients may only book for
// themselves; doctors and admins may book on a patient's behalf.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	actor := actorFromContext(c)
	if actor.Role == models.RolePatient && actor.ID != req.PatientID {
		utils.Forbidden(c, "Patients can only book appointments for themselves.")
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), services.CreateBookingInput{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Date:      req.Date,
		TimeType:  req.TimeType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, "Booking created successfully", booking)
}

// GetBooking handles fetching a single booking by id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookings.GetByID(c.Request.Context(), c.Param("id"), actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, "Booking fetched successfully", booking)
}

// ConfirmBooking handles the doctor/admin confirmation of a pending booking.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	booking, err := h.bookings.Confirm(c.Request.Context(), c.Param("id"), actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, "Booking confirmed successfully", booking)
}

// CompleteBooking handles marking a confirmed booking as completed.
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	booking, err := h.bookings.Complete(c.Request.Context(), c.Param("id"), actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, "Booking completed successfully", booking)
}

// CancelBooking handles cancelling a booking and releasing its slot.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, err := h.bookings.Cancel(c.Request.Context(), c.Param("id"), actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, "Booking cancelled successfully", booking)
}

// GetBookingsByDoctor handles listing a doctor's bookings.
func (h *BookingHandler) GetBookingsByDoctor(c *gin.Context) {
	bookings, err := h.bookings.ListByDoctor(c.Request.Context(), c.Param("doctorId"), actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, "Bookings fetched successfully", bookings)
}

// GetBookingsByPatient handles listing a patient's bookings.
func (h *BookingHandler) GetBookingsByPatient(c *gin.Context) {
	bookings, err := h.bookings.ListByPatient(c.Request.Context(), c.Param("patientId"), actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, "Bookings fetched successfully", bookings)
}

// CleanupCancelled handles the admin trigger of the retention purge.
func (h *BookingHandler) CleanupCancelled(c *gin.Context) {
	olderThan := time.Duration(h.retentionDays) * 24 * time.Hour
	count, err := h.bookings.PurgeCancelled(c.Request.Context(), olderThan)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, fmt.Sprintf("Deleted %d cancelled bookings older than %d days", count, h.retentionDays), gin.H{"deleted": count})
}
