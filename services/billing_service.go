package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BillingService derives invoices from bookings: nights, base amount at the
// room's current rate, extras, tax and a sequential number per prefix.
type BillingService struct {
	DB       *gorm.DB
	Settings *SettingsService
	Notifier *NotificationService

	// One mutex per invoice prefix, serializing counter increments.
	prefixLocks sync.Map
}

func NewBillingService(db *gorm.DB, settings *SettingsService, notifier *NotificationService) *BillingService {
	return &BillingService{DB: db, Settings: settings, Notifier: notifier}
}

// ExtraCharge is one caller-supplied extra line item.
type ExtraCharge struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

func (s *BillingService) lockPrefix(prefix string) func() {
	v, _ := s.prefixLocks.LoadOrStore(prefix, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// nextInvoiceNumber increments the per-prefix counter row inside the
// caller's transaction.
func nextInvoiceNumber(tx *gorm.DB, prefix string) (uint64, error) {
	var counter models.InvoiceCounter
	err := tx.Where("prefix = ?", prefix).First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = models.InvoiceCounter{Prefix: prefix, LastNumber: 1}
		if err := tx.Create(&counter).Error; err != nil {
			return 0, fmt.Errorf("failed to create invoice counter: %w", err)
		}
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load invoice counter: %w", err)
	}

	counter.LastNumber++
	if err := tx.Model(&models.InvoiceCounter{}).Where("prefix = ?", prefix).
		Update("last_number", counter.LastNumber).Error; err != nil {
		return 0, fmt.Errorf("failed to advance invoice counter: %w", err)
	}
	return counter.LastNumber, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateInvoice builds and persists an unpaid invoice from the booking
// snapshot. The base amount uses the room's rate at invoicing time, not the
// rate charged at booking time: operators may re-price between the two.
func (s *BillingService) CreateInvoice(bookingID uint, extras []ExtraCharge) (*models.Invoice, error) {
	settings, err := s.Settings.Get()
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	if err := s.DB.Preload("Room").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	if booking.RoomID == 0 || booking.Room.ID == 0 {
		return nil, ErrBookingMissingRoom
	}

	nights := CalcNights(booking.CheckInDate, booking.CheckOutDate)
	if nights <= 0 {
		return nil, ErrInvalidDateRange
	}

	baseAmount := float64(nights) * booking.Room.PricePerNight

	cleanExtras := make([]models.InvoiceExtra, 0, len(extras))
	extrasTotal := 0.0
	for _, e := range extras {
		amount := e.Amount
		if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
			amount = 0
		}
		cleanExtras = append(cleanExtras, models.InvoiceExtra{Description: e.Description, Amount: amount})
		extrasTotal += amount
	}

	subTotal := baseAmount + extrasTotal
	taxAmount := subTotal * settings.TaxRate / 100
	// Two-decimal rounding applied once, at the total.
	totalAmount := round2(subTotal + taxAmount)

	extrasJSON, err := json.Marshal(cleanExtras)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extras: %w", err)
	}

	prefix := settings.InvoicePrefix
	unlock := s.lockPrefix(prefix)
	defer unlock()

	var invoice *models.Invoice
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		seq, err := nextInvoiceNumber(tx, prefix)
		if err != nil {
			return err
		}

		inv := &models.Invoice{
			BookingID:     booking.ID,
			Number:        fmt.Sprintf("%s%05d", prefix, seq),
			GuestName:     booking.GuestName,
			GuestEmail:    booking.GuestEmail,
			RoomNumber:    booking.Room.RoomNumber,
			CheckIn:       booking.CheckInDate,
			CheckOut:      booking.CheckOutDate,
			Nights:        nights,
			RoomRate:      booking.Room.PricePerNight,
			BaseAmount:    baseAmount,
			Extras:        datatypes.JSON(extrasJSON),
			ExtrasTotal:   extrasTotal,
			SubTotal:      subTotal,
			TaxRate:       settings.TaxRate,
			TaxAmount:     taxAmount,
			TotalAmount:   totalAmount,
			Currency:      settings.Currency,
			PaymentStatus: models.PaymentStatusUnpaid,
		}
		if err := tx.Create(inv).Error; err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best-effort: render and queue the invoice email after commit.
	if document, rErr := RenderInvoiceDocument(invoice, settings); rErr != nil {
		log.Printf("⚠️  failed to render invoice document %s: %v", invoice.Number, rErr)
	} else {
		s.Notifier.NotifyInvoice(invoice, document)
	}

	return invoice, nil
}

// MarkPaid records payment on an unpaid invoice. Paying twice is rejected.
func (s *BillingService) MarkPaid(invoiceID uint, method string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.DB.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	if invoice.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrInvoiceAlreadyPaid
	}

	invoice.PaymentStatus = models.PaymentStatusPaid
	invoice.PaymentMethod = method
	invoice.PaidAt = utils.PtrTime(time.Now().UTC())
	if err := s.DB.Save(&invoice).Error; err != nil {
		return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	return &invoice, nil
}

// GetInvoice fetches one invoice.
func (s *BillingService) GetInvoice(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.DB.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	return &invoice, nil
}

// ListInvoices returns invoices, newest first, optionally for one booking.
func (s *BillingService) ListInvoices(bookingID uint) ([]models.Invoice, error) {
	q := s.DB.Order("created_at DESC")
	if bookingID != 0 {
		q = q.Where("booking_id = ?", bookingID)
	}
	var invoices []models.Invoice
	if err := q.Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}
