package models

import "time"

// InvoiceCounter holds the last issued sequence number per invoice prefix.
// The next number is always taken from here, never derived by scanning
// invoice rows.
type InvoiceCounter struct {
	Prefix     string    `gorm:"primaryKey;size:32" json:"prefix"`
	LastNumber uint64    `gorm:"column:last_number" json:"lastNumber"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
