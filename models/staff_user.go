package models

import "gorm.io/gorm"

// StaffUser is a hotel staff account. Authentication itself is handled by an
// upstream gateway; this table backs the seeded default operator account.
type StaffUser struct {
	gorm.Model
	FullName string `gorm:"size:150" json:"fullName"`
	Username string `gorm:"size:150;uniqueIndex" json:"username"`
	Password string `gorm:"size:255" json:"-"`
}
