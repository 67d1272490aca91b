package routes

import (
	"github.com/gin-gonic/gin"

	"clinic-booking-server/internal/config"
	"clinic-booking-server/internal/handlers"
	"clinic-booking-server/internal/middleware"
	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/services"
)

// Services bundles the engine services the routes expose.
type Services struct {
	Schedules *services.ScheduleService
	Bookings  *services.BookingService
	Allcodes  *services.AllcodeService
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, svcs Services, cfg *config.Config) {
	// Initialize handlers
	scheduleHandler := handlers.NewScheduleHandler(svcs.Schedules)
	bookingHandler := handlers.NewBookingHandler(svcs.Bookings, cfg.RetentionDays)
	allcodeHandler := handlers.NewAllcodeHandler(svcs.Allcodes)

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		// Reference codes (read-only)
		allcodeRoutes := private.Group("/allcodes")
		{
			allcodeRoutes.GET("", allcodeHandler.ListAllcodes)
			allcodeRoutes.GET("/:type/:keyMap", allcodeHandler.GetAllcode)
		}

		// Schedule routes
		scheduleRoutes := private.Group("/schedules")
		{
			// Doctors propose slots for themselves; admins for anyone
			scheduleRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), scheduleHandler.CreateSchedule)
			scheduleRoutes.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), scheduleHandler.UpdateSchedule)

			// All authenticated users can browse schedules
			scheduleRoutes.GET("", scheduleHandler.ListSchedules)
			scheduleRoutes.GET("/:id", scheduleHandler.GetSchedule)

			// Admin-only approval workflow and hard delete
			adminRoutes := scheduleRoutes.Group("")
			adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin)) // Only Admins
			{
				adminRoutes.PUT("/:id/approve", scheduleHandler.ApproveSchedule)
				adminRoutes.PUT("/:id/reject", scheduleHandler.RejectSchedule)
				adminRoutes.DELETE("/:id", scheduleHandler.DeleteSchedule)
			}
		}

		// Booking routes
		bookingRoutes := private.Group("/bookings")
		{
			// Patients book for themselves; doctors/admins on a patient's behalf
			bookingRoutes.POST("", bookingHandler.CreateBooking)

			// Involved patient, assigned doctor or admin (checked in the service)
			bookingRoutes.GET("/:id", bookingHandler.GetBooking)
			bookingRoutes.PUT("/:id/cancel", bookingHandler.CancelBooking)

			// Status updates by the assigned doctor or an admin
			bookingRoutes.PUT("/:id/confirm", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), bookingHandler.ConfirmBooking)
			bookingRoutes.PUT("/:id/complete", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin), bookingHandler.CompleteBooking)

			// Listings (self or admin, checked in the service)
			bookingRoutes.GET("/doctor/:doctorId", bookingHandler.GetBookingsByDoctor)
			bookingRoutes.GET("/patient/:patientId", bookingHandler.GetBookingsByPatient)

			// Retention purge trigger
			bookingRoutes.DELETE("/cleanup", middleware.RoleAuthMiddleware(models.RoleAdmin), bookingHandler.CleanupCancelled)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
