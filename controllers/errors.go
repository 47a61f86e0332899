package controllers

import (
	"errors"
	"net/http"
	"strings"

	"hotel-pricing/services"
	"hotel-pricing/utils"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{services.ErrSessionRequired, http.StatusBadRequest, "error.sessionRequired", "A session key is required"},
	{services.ErrSelectionNotFound, http.StatusNotFound, "error.selectionItemNotFound", "The selected item was not found"},
	{services.ErrDuplicateInstance, http.StatusConflict, "error.duplicateInstance", "An item with this instance id is already selected"},
	{services.ErrInvalidGuests, http.StatusBadRequest, "error.invalidGuestCount", "At least one adult is required and counts cannot be negative"},
	{services.ErrInvalidDateRange, http.StatusBadRequest, "error.invalidDateRange", "End date must be after start date"},
	{services.ErrInvalidCurrency, http.StatusBadRequest, "error.invalidCurrency", "Currency must be a 3-letter ISO code"},
	{services.ErrRoomTypeNotFound, http.StatusNotFound, "error.roomTypeNotFound", "Room type not found"},
	{services.ErrRoomTypeUnavailable, http.StatusConflict, "error.roomTypeUnavailable", "Room type is not available"},
	{services.ErrServiceNotFound, http.StatusNotFound, "error.serviceNotFound", "Service not found"},
	{services.ErrNameRequired, http.StatusBadRequest, "error.nameRequired", "Name is required"},
	{services.ErrInvalidCapacity, http.StatusBadRequest, "error.invalidCapacity", "Capacity values cannot be negative"},
	{services.ErrNegativePrice, http.StatusBadRequest, "error.negativePrice", "Prices cannot be negative"},
	{services.ErrInvalidVATRate, http.StatusBadRequest, "error.invalidVatRate", "VAT percentage must be within 0-100"},
	{services.ErrInvalidTransportation, http.StatusBadRequest, "error.invalidTransportation", "Transportation must be a list of option names"},
}

// respondServiceError maps service sentinel errors to HTTP responses.
// Unknown errors become a 500 and are attached to the context for the
// request logger.
func respondServiceError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			utils.JSONError(c, m.status, m.code, m.message)
			return
		}
	}
	_ = c.Error(err)
	utils.JSONError(c, http.StatusInternalServerError, "error.internal", "Internal server error")
}

func respondInvalidPayload(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "error.invalidPayload",
			"message": "Invalid request payload",
			"details": err.Error(),
		},
	})
}

// sessionKey reads the session from the :session param, then the
// X-Session-Key header.
func sessionKey(c *gin.Context) string {
	if s := strings.TrimSpace(c.Param("session")); s != "" {
		return s
	}
	return strings.TrimSpace(c.GetHeader("X-Session-Key"))
}
