package controllers

import (
	"net/http"
	"time"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Svc          *services.RoomService
	Availability *services.AvailabilityService
}

func NewRoomController(svc *services.RoomService, availability *services.AvailabilityService) *RoomController {
	return &RoomController{Svc: svc, Availability: availability}
}

func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.Svc.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	created, err := rc.Svc.Create(room)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	room, err := rc.Svc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	room, err := rc.Svc.Update(id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

type roomStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// SetRoomStatus is the explicit operator override (PATCH /rooms/:id/status).
func (rc *RoomController) SetRoomStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload roomStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	room, err := rc.Svc.SetStatus(id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

type roomImagePayload struct {
	Slot  string `json:"slot" binding:"required"`
	Image string `json:"image" binding:"required"`
}

func (rc *RoomController) SetRoomImage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload roomImagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	room, err := rc.Svc.SetImageSlot(id, payload.Slot, payload.Image)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// GetAvailableRooms handles GET /api/rooms/available?check_in=&check_out=.
func (rc *RoomController) GetAvailableRooms(c *gin.Context) {
	checkIn, err := time.Parse("2006-01-02", c.Query("check_in"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid or missing check_in date.")
		return
	}
	checkOut, err := time.Parse("2006-01-02", c.Query("check_out"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid or missing check_out date.")
		return
	}
	if !checkOut.After(checkIn) {
		utils.JSONError(c, http.StatusBadRequest, "Check-out must be after check-in.")
		return
	}

	rooms, err := rc.Availability.AvailableRooms(checkIn, checkOut)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}
