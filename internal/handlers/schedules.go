package handlers

import (
	"github.com/gin-gonic/gin"

	"clinic-booking-server/internal/middleware"
	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/services"
	"clinic-booking-server/internal/utils"
)

// ScheduleHandler handles schedule related requests.
type ScheduleHandler struct {
	schedules *services.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(schedules *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// CreateScheduleRequest represents the request body for creating a schedule.
type CreateScheduleRequest struct {
	DoctorID  string `json:"doctorId" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`
	TimeType  string `json:"timeType" binding:"required"`
	MaxNumber int    `json:"maxNumber" binding:"required,min=1"`
}

// CreateSchedule handles creating a new availability slot. Doctors may only
// create slots for themselves; admins for any doctor.
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RoleDoctor && userID != req.DoctorID {
		utils.Forbidden(c, "Doctors can only create schedules for themselves.")
		return
	}

	schedule, err := h.schedules.Create(c.Request.Context(), services.CreateScheduleInput{
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		TimeType:  req.TimeType,
		MaxNumber: req.MaxNumber,
		ActorRole: userRole,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, "Schedule created successfully", schedule)
}

// ListSchedules handles listing schedules with optional doctor, date-range
// and status filters.
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	schedules, err := h.schedules.List(c.Request.Context(), services.ListScheduleInput{
		DoctorID: c.Query("doctorId"),
		From:     c.Query("from"),
		To:       c.Query("to"),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, "Schedules fetched successfully", schedules)
}

// GetSchedule handles fetching a single schedule by id.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.schedules.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, "Schedule fetched successfully", schedule)
}

// UpdateScheduleRequest represents the request body for editing a pending
// schedule. Omitted fields keep their current value.
type UpdateScheduleRequest struct {
	Date      *string `json:"date"`
	TimeType  *string `json:"timeType"`
	MaxNumber *int    `json:"maxNumber"`
}

// UpdateSchedule handles editing a pending schedule's slot fields.
func (h *ScheduleHandler) UpdateSchedule(c *gin.Context) {
	var req UpdateScheduleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	schedule, err := h.schedules.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if userRole == models.RoleDoctor && userID != schedule.DoctorID {
		utils.Forbidden(c, "Doctors can only edit their own schedules.")
		return
	}

	updated, err := h.schedules.Update(c.Request.Context(), schedule.ID, services.UpdateScheduleInput{
		Date:      req.Date,
		TimeType:  req.TimeType,
		MaxNumber: req.MaxNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, "Schedule updated successfully", updated)
}

// ApproveSchedule handles the admin approval of a pending schedule.
func (h *ScheduleHandler) ApproveSchedule(c *gin.Context) {
	schedule, err := h.schedules.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, "Schedule approved successfully", schedule)
}

// RejectSchedule handles the admin rejection of a pending schedule.
func (h *ScheduleHandler) RejectSchedule(c *gin.Context) {
	schedule, err := h.schedules.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, "Schedule rejected successfully", schedule)
}

// DeleteSchedule handles the administrative hard delete of a schedule.
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, "Schedule deleted successfully", nil)
}
