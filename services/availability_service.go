package services

import (
	"fmt"
	"time"

	"hotel-pms/models"

	"gorm.io/gorm"
)

// AvailabilityService answers "can this room be booked for this range". It is
// a pure query; serializing it against concurrent inserts is the booking
// service's job.
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// IsAvailable reports whether no active booking overlaps [checkIn, checkOut)
// on the room. Intervals are half-open: a checkout and a check-in on the same
// day do not conflict. excludeBookingID (0 = none) lets callers ignore the
// booking being edited.
func (s *AvailabilityService) IsAvailable(roomID uint, checkIn, checkOut time.Time, excludeBookingID uint) (bool, error) {
	return s.isAvailable(s.DB, roomID, checkIn, checkOut, excludeBookingID)
}

func (s *AvailabilityService) isAvailable(db *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeBookingID uint) (bool, error) {
	q := db.Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.ActiveBookingStatuses).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return count == 0, nil
}

// AvailableRooms lists rooms with no active booking overlapping the range.
// Rooms under maintenance are never offered.
func (s *AvailabilityService) AvailableRooms(checkIn, checkOut time.Time) ([]models.Room, error) {
	blocked := s.DB.Model(&models.Booking{}).
		Select("room_id").
		Where("status IN ?", models.ActiveBookingStatuses).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)

	var rooms []models.Room
	err := s.DB.
		Where("status <> ?", models.RoomStatusMaintenance).
		Where("id NOT IN (?)", blocked).
		Order("room_number").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}
	return rooms, nil
}
