package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice payment statuses.
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// InvoiceExtra is one extra line item stored in the Extras JSON column.
type InvoiceExtra struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type Invoice struct {
	gorm.Model

	BookingID uint   `gorm:"index;column:booking_id" json:"bookingId"`
	Number    string `gorm:"size:32;uniqueIndex" json:"number"`

	// Snapshot of guest/room/stay facts at invoicing time.
	GuestName  string    `gorm:"column:guest_name;size:150" json:"guestName"`
	GuestEmail string    `gorm:"column:guest_email;size:150" json:"guestEmail"`
	RoomNumber string    `gorm:"column:room_number;size:50" json:"roomNumber"`
	CheckIn    time.Time `gorm:"column:check_in" json:"checkIn"`
	CheckOut   time.Time `gorm:"column:check_out" json:"checkOut"`

	Nights      int            `json:"nights"`
	RoomRate    float64        `gorm:"column:room_rate" json:"roomRate"`
	BaseAmount  float64        `gorm:"column:base_amount" json:"baseAmount"`
	Extras      datatypes.JSON `gorm:"column:extras" json:"extras,omitempty"`
	ExtrasTotal float64        `gorm:"column:extras_total" json:"extrasTotal"`
	SubTotal    float64        `gorm:"column:sub_total" json:"subTotal"`
	TaxRate     float64        `gorm:"column:tax_rate" json:"taxRate"`
	TaxAmount   float64        `gorm:"column:tax_amount" json:"taxAmount"`
	TotalAmount float64        `gorm:"column:total_amount" json:"totalAmount"`
	Currency    string         `gorm:"size:8" json:"currency"`

	PaymentStatus string     `gorm:"column:payment_status;size:16;default:unpaid" json:"paymentStatus"`
	PaymentMethod string     `gorm:"column:payment_method;size:32" json:"paymentMethod,omitempty"`
	PaidAt        *time.Time `gorm:"column:paid_at" json:"paidAt,omitempty"`
}

// ExtraItems decodes the Extras column; malformed data yields an empty list.
func (i *Invoice) ExtraItems() []InvoiceExtra {
	var items []InvoiceExtra
	if len(i.Extras) == 0 {
		return items
	}
	if err := json.Unmarshal(i.Extras, &items); err != nil {
		return nil
	}
	return items
}
