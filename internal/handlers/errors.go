package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/utils"
)

// respondError maps the service error taxonomy onto the response envelope.
// Unclassified errors become a generic 500; the details stay in the server
// log, not the response.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, models.ErrForbidden):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, models.ErrScheduleNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrCodeNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, models.ErrScheduleExists),
		errors.Is(err, models.ErrScheduleFull),
		errors.Is(err, models.ErrScheduleHasActive),
		errors.Is(err, models.ErrInvalidTransition):
		utils.Conflict(c, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		utils.InternalServerError(c, "Internal server error")
	}
}
