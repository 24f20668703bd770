package services

import (
	"errors"
	"fmt"
	"strings"

	"hotel-pms/models"

	"gorm.io/gorm"
)

// GuestService is the guest directory: profiles keyed by normalized email.
type GuestService struct {
	DB *gorm.DB
}

func NewGuestService(db *gorm.DB) *GuestService {
	return &GuestService{DB: db}
}

// NormalizeEmail lower-cases and trims an address for directory keying.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail returns (nil, nil) when no profile exists.
func (s *GuestService) FindByEmail(email string) (*models.Guest, error) {
	var guest models.Guest
	err := s.DB.Where("email = ?", NormalizeEmail(email)).First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find guest: %w", err)
	}
	return &guest, nil
}

// GetByID fetches a profile by id.
func (s *GuestService) GetByID(id uint) (*models.Guest, error) {
	var guest models.Guest
	err := s.DB.First(&guest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guest: %w", err)
	}
	return &guest, nil
}

// Upsert creates or refreshes a profile for the email. Name and phone only
// overwrite when non-empty, so a sparse booking never blanks out a profile.
func (s *GuestService) Upsert(email, fullName, phone string) (*models.Guest, error) {
	norm := NormalizeEmail(email)
	if norm == "" {
		return nil, errors.New("empty guest email")
	}

	var guest models.Guest
	err := s.DB.Where("email = ?", norm).First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		guest = models.Guest{Email: norm, FullName: strings.TrimSpace(fullName), Phone: strings.TrimSpace(phone)}
		if err := s.DB.Create(&guest).Error; err != nil {
			return nil, fmt.Errorf("failed to create guest: %w", err)
		}
		return &guest, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to upsert guest: %w", err)
	}

	updates := map[string]interface{}{}
	if v := strings.TrimSpace(fullName); v != "" {
		updates["full_name"] = v
	}
	if v := strings.TrimSpace(phone); v != "" {
		updates["phone"] = v
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&guest).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update guest: %w", err)
		}
	}
	return &guest, nil
}
