package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking statuses.
const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusCheckedIn  = "checked_in"
	BookingStatusCheckedOut = "checked_out"
	BookingStatusCancelled  = "cancelled"
)

// ActiveBookingStatuses are the statuses that occupy a room for overlap
// purposes. Cancelled and checked-out bookings no longer block the range.
var ActiveBookingStatuses = []string{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCheckedIn,
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RoomID  uint  `gorm:"index;column:room_id" json:"roomId"`
	GuestID *uint `gorm:"index;column:guest_id" json:"guestId,omitempty"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode"`
	Status        string `gorm:"size:32;index" json:"status"`

	// Who initiated the booking: a staff username or a guest principal id.
	CreatedBy string `gorm:"column:created_by;size:64" json:"createdBy"`

	// Denormalized guest snapshot, independent of the live Guest profile.
	GuestName  string `gorm:"column:guest_name;size:150" json:"guestName"`
	GuestEmail string `gorm:"column:guest_email;size:150;index" json:"guestEmail"`
	GuestPhone string `gorm:"column:guest_phone;size:50" json:"guestPhone"`

	CheckInDate  time.Time `gorm:"column:check_in_date" json:"checkInDate"`
	CheckOutDate time.Time `gorm:"column:check_out_date" json:"checkOutDate"`
	Nights       int       `json:"nights"`
	GuestCount   int       `gorm:"column:guest_count;default:1" json:"guestCount"`

	// Snapshot at creation, never recomputed on later transitions.
	TotalPrice float64 `gorm:"column:total_price" json:"totalPrice"`

	CheckInKey   string     `gorm:"column:check_in_key;size:64" json:"checkInKey,omitempty"`
	KeyExpiresAt *time.Time `gorm:"column:key_expires_at" json:"keyExpiresAt,omitempty"`

	Room  Room   `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Guest *Guest `gorm:"foreignKey:GuestID" json:"-"`
}

// Active reports whether the booking occupies its room.
func (b *Booking) Active() bool {
	switch b.Status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn:
		return true
	}
	return false
}
