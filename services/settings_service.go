package services

import (
	"errors"
	"fmt"

	"hotel-pms/models"

	"gorm.io/gorm"
)

// SettingsService reads and writes the single hotel settings row.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// DefaultSettings applies when no row has been saved yet.
func DefaultSettings() models.HotelSetting {
	return models.HotelSetting{
		TaxRate:       7,
		Currency:      "THB",
		InvoicePrefix: "INV-",
		CheckInTime:   "14:00",
		CheckOutTime:  "12:00",
	}
}

// Get returns the stored settings, or defaults when none exist.
func (s *SettingsService) Get() (models.HotelSetting, error) {
	var setting models.HotelSetting
	err := s.DB.First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return models.HotelSetting{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if setting.InvoicePrefix == "" {
		setting.InvoicePrefix = "INV-"
	}
	return setting, nil
}

// Update overwrites the settings row, creating it on first save.
func (s *SettingsService) Update(payload models.HotelSetting) (models.HotelSetting, error) {
	var setting models.HotelSetting
	err := s.DB.First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = payload
		setting.ID = 0
		if err := s.DB.Create(&setting).Error; err != nil {
			return models.HotelSetting{}, fmt.Errorf("failed to create settings: %w", err)
		}
		return setting, nil
	}
	if err != nil {
		return models.HotelSetting{}, fmt.Errorf("failed to load settings: %w", err)
	}

	payload.ID = setting.ID
	payload.CreatedAt = setting.CreatedAt
	if err := s.DB.Save(&payload).Error; err != nil {
		return models.HotelSetting{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return payload, nil
}
