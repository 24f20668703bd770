package services

import (
	"errors"
	"fmt"
	"strings"

	"hotel-pms/models"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// RoomService is CRUD over the room registry. Room status changes here are
// explicit operator overrides; lifecycle-driven changes go through
// BookingService.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func isDuplicateKeyErr(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}

// Create persists a new room; duplicate room numbers are rejected.
func (s *RoomService) Create(room models.Room) (*models.Room, error) {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return nil, errors.New("room number is required")
	}
	if !models.ValidRoomType(room.Type) {
		return nil, ErrInvalidRoomType
	}
	if room.PricePerNight < 0 {
		return nil, errors.New("price per night must be non-negative")
	}
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}

	if err := s.DB.Create(&room).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return nil, ErrDuplicateRoomNumber
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return &room, nil
}

func (s *RoomService) GetAll() ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Preload("Images").Order("room_number").Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	err := s.DB.Preload("Images").First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}
	return &room, nil
}

// Update patches descriptive fields. Identity, timestamps and status are
// stripped: status changes must go through SetStatus or the lifecycle.
func (s *RoomService) Update(id uint, updates map[string]interface{}) (*models.Room, error) {
	for _, k := range []string{"id", "ID", "status", "created_at", "updated_at", "deleted_at"} {
		delete(updates, k)
	}
	if t, ok := updates["type"].(string); ok && !models.ValidRoomType(t) {
		return nil, ErrInvalidRoomType
	}

	res := s.DB.Model(&models.Room{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if isDuplicateKeyErr(res.Error) {
			return nil, ErrDuplicateRoomNumber
		}
		return nil, fmt.Errorf("failed to update room: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing room from an empty patch.
		var count int64
		s.DB.Model(&models.Room{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return nil, ErrRoomNotFound
		}
	}
	return s.GetByID(id)
}

// SetStatus is the explicit staff override, bypassing booking logic.
func (s *RoomService) SetStatus(id uint, status string) (*models.Room, error) {
	if !models.ValidRoomStatusOverride(status) {
		return nil, ErrInvalidRoomStatus
	}

	res := s.DB.Model(&models.Room{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to set room status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrRoomNotFound
	}
	return s.GetByID(id)
}

// SetImageSlot stores a base64 image for the named slot, replacing any
// previous image in that slot.
func (s *RoomService) SetImageSlot(id uint, slot string, imageB64 string) (*models.Room, error) {
	if !models.ValidImageSlot(slot) {
		return nil, ErrInvalidImageSlot
	}
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	path, err := SaveBase64Image(imageB64, "rooms")
	if err != nil {
		return nil, fmt.Errorf("failed to save room image: %w", err)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.RoomImage
		err := tx.Where("room_id = ? AND slot = ?", id, slot).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.RoomImage{RoomID: id, Slot: slot, Path: path}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Update("path", path).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store room image: %w", err)
	}
	return s.GetByID(id)
}
