package controllers

import (
	"net/http"

	"hotel-pms/models"
	"hotel-pms/services"
	"hotel-pms/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	Svc *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{Svc: svc}
}

func (sc *SettingsController) GetHotelSettings(c *gin.Context) {
	settings, err := sc.Svc.Get()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"hotel": settings})
}

func (sc *SettingsController) UpdateHotelSettings(c *gin.Context) {
	var payload models.HotelSetting
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	settings, err := sc.Svc.Update(payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"hotel": settings})
}
