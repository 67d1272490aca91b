package handlers

import (
	"github.com/gin-gonic/gin"

	"clinic-booking-server/internal/services"
	"clinic-booking-server/internal/utils"
)

// AllcodeHandler handles reference-code lookups.
type AllcodeHandler struct {
	codes *services.AllcodeService
}

// NewAllcodeHandler creates a new AllcodeHandler.
func NewAllcodeHandler(codes *services.AllcodeService) *AllcodeHandler {
	return &AllcodeHandler{codes: codes}
}

// ListAllcodes handles listing reference codes, optionally filtered by type
// (STATUS, TIME, ROLE).
func (h *AllcodeHandler) ListAllcodes(c *gin.Context) {
	codes := h.codes.ListByType(c.Query("type"))
	utils.Success(c, "Reference codes fetched successfully", codes)
}

// GetAllcode handles resolving a single reference code.
func (h *AllcodeHandler) GetAllcode(c *gin.Context) {
	code, err := h.codes.Resolve(c.Param("type"), c.Param("keyMap"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, "Reference code fetched successfully", code)
}
