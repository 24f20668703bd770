package models

import "time"

type HotelSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Email     string    `gorm:"size:150" json:"email"`
	Website   string    `gorm:"size:255" json:"website"`
	Logo      string    `gorm:"size:255" json:"logo"`

	// Billing settings, read at invoice-creation time.
	TaxRate       float64 `gorm:"column:tax_rate" json:"taxRate"`
	Currency      string  `gorm:"size:8" json:"currency"`
	InvoicePrefix string  `gorm:"column:invoice_prefix;size:16" json:"invoicePrefix"`

	CheckInTime  string `gorm:"column:check_in_time;size:8" json:"checkInTime"`
	CheckOutTime string `gorm:"column:check_out_time;size:8" json:"checkOutTime"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
