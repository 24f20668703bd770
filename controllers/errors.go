package controllers

import (
	"errors"
	"log"
	"net/http"

	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service sentinels onto HTTP statuses with
// caller-actionable messages. Unknown errors are logged in full and surfaced
// as a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRoomUnavailable):
		utils.JSONError(c, http.StatusConflict, "Room unavailable for these dates. Please choose another room or different dates.")
	case errors.Is(err, services.ErrDuplicateRoomNumber):
		utils.JSONError(c, http.StatusConflict, "Room number already exists.")
	case errors.Is(err, services.ErrRoomNotFound):
		utils.JSONError(c, http.StatusNotFound, "Room not found.")
	case errors.Is(err, services.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, "Booking not found.")
	case errors.Is(err, services.ErrInvoiceNotFound):
		utils.JSONError(c, http.StatusNotFound, "Invoice not found.")
	case errors.Is(err, services.ErrInvalidDateRange):
		utils.JSONError(c, http.StatusBadRequest, "Check-out must be after check-in.")
	case errors.Is(err, services.ErrInvalidRoomType):
		utils.JSONError(c, http.StatusBadRequest, "Invalid room type.")
	case errors.Is(err, services.ErrInvalidRoomStatus):
		utils.JSONError(c, http.StatusBadRequest, "Invalid room status.")
	case errors.Is(err, services.ErrInvalidImageSlot):
		utils.JSONError(c, http.StatusBadRequest, "Invalid image slot.")
	case errors.Is(err, services.ErrBookingNotPending):
		utils.JSONError(c, http.StatusBadRequest, "Only pending bookings can be confirmed.")
	case errors.Is(err, services.ErrBookingNotCancellable):
		utils.JSONError(c, http.StatusBadRequest, "Only pending or confirmed bookings can be cancelled.")
	case errors.Is(err, services.ErrBookingMissingRoom):
		utils.JSONError(c, http.StatusBadRequest, "Booking has no room assigned.")
	case errors.Is(err, services.ErrInvoiceAlreadyPaid):
		utils.JSONError(c, http.StatusBadRequest, "Invoice already paid.")
	default:
		log.Printf("❌ internal error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Internal error")
	}
}
