package models

import "gorm.io/gorm"

// Gallery slots. At most one image per slot per room (composite unique index).
const (
	ImageSlotMain     = "main"
	ImageSlotBathroom = "bathroom"
	ImageSlotLiving   = "living"
	ImageSlotKitchen  = "kitchen"
	ImageSlotOther    = "other"
)

type RoomImage struct {
	gorm.Model

	RoomID uint   `json:"roomId" gorm:"column:room_id;uniqueIndex:idx_room_slot"`
	Slot   string `json:"slot" gorm:"size:20;uniqueIndex:idx_room_slot"`
	Path   string `json:"path" gorm:"size:255"`
}

func ValidImageSlot(s string) bool {
	switch s {
	case ImageSlotMain, ImageSlotBathroom, ImageSlotLiving, ImageSlotKitchen, ImageSlotOther:
		return true
	}
	return false
}
