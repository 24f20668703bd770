package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Room types (closed set, validated in code rather than a lookup table).
const (
	RoomTypeSingle = "single"
	RoomTypeDouble = "double"
	RoomTypeSuite  = "suite"
	RoomTypeFamily = "family"
)

// Room operational statuses. Exactly one at a time; written only by the
// booking lifecycle, housekeeping, or an explicit staff override.
const (
	RoomStatusAvailable     = "available"
	RoomStatusOccupied      = "occupied"
	RoomStatusCleaning      = "cleaning"
	RoomStatusNeedsCleaning = "needs_cleaning"
	RoomStatusMaintenance   = "maintenance"
)

type Room struct {
	gorm.Model

	RoomNumber    string  `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Type          string  `json:"type" gorm:"size:20"`
	Status        string  `json:"status" gorm:"size:32;default:available"`
	Floor         string  `json:"floor" gorm:"type:varchar(10)"`
	PricePerNight float64 `json:"pricePerNight" gorm:"column:price_per_night"`
	Capacity      int     `json:"capacity"`
	Description   string  `json:"description" gorm:"type:text"`

	// Feature tags, e.g. ["balcony","sea-view"].
	Features datatypes.JSON `json:"features,omitempty" gorm:"column:features"`

	Images []RoomImage `json:"images,omitempty" gorm:"foreignKey:RoomID"`
}

func ValidRoomType(t string) bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeSuite, RoomTypeFamily:
		return true
	}
	return false
}

// ValidRoomStatusOverride covers the values staff may set directly,
// bypassing booking logic. needs_cleaning is housekeeping-internal and
// deliberately excluded.
func ValidRoomStatusOverride(s string) bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusCleaning, RoomStatusMaintenance:
		return true
	}
	return false
}
