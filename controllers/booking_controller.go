package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Svc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{Svc: svc}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid id.")
		return 0, false
	}
	return uint(id), true
}

// CreateStaffBooking handles POST /api/bookings (staff path: confirmed
// immediately, room occupied).
func (bc *BookingController) CreateStaffBooking(c *gin.Context) {
	var payload services.CreateBookingInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	payload.CreatedBy = "staff:" + strings.TrimSpace(c.GetHeader("X-Staff-User"))

	booking, err := bc.Svc.CreateStaffBooking(payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

type guestBookingPayload struct {
	services.CreateBookingInput
	GuestID uint `json:"guest_id"`
}

// CreateGuestBooking handles POST /api/guest/bookings (self-service path:
// pending until staff confirm). The guest principal is resolved upstream and
// passed via headers.
func (bc *BookingController) CreateGuestBooking(c *gin.Context) {
	var payload guestBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	principal := services.GuestPrincipal{
		ID:    payload.GuestID,
		Name:  payload.GuestName,
		Email: payload.GuestEmail,
	}
	if v := c.GetHeader("X-Guest-ID"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			principal.ID = uint(id)
		}
	}

	booking, err := bc.Svc.CreateBookingAsGuest(principal, payload.CreateBookingInput)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

func (bc *BookingController) ConfirmBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	booking, err := bc.Svc.ConfirmBooking(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (bc *BookingController) CheckIn(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	booking, err := bc.Svc.CheckIn(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (bc *BookingController) CheckOut(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	booking, err := bc.Svc.CheckOut(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (bc *BookingController) CancelBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	booking, err := bc.Svc.CancelBooking(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

func (bc *BookingController) GetBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	booking, err := bc.Svc.GetBooking(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// ListBookings supports ?room_id=, ?email= and ?status= filters.
func (bc *BookingController) ListBookings(c *gin.Context) {
	var filter services.BookingFilter
	if v := c.Query("room_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid room_id filter.")
			return
		}
		filter.RoomID = uint(id)
	}
	filter.Email = c.Query("email")
	filter.Status = c.Query("status")

	bookings, err := bc.Svc.ListBookings(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}
