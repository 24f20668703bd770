package models

import "time"

// Guest is a directory profile, keyed by normalized email. Bookings carry
// their own denormalized snapshot and only optionally link back here.
type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email    string `gorm:"size:150;uniqueIndex" json:"email"`
	FullName string `gorm:"size:150" json:"fullName"`
	Phone    string `gorm:"size:50" json:"phone"`
}
