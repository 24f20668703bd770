package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"hotel-pms/models"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// BookingService owns the reservation lifecycle: the booking state machine
// and the paired room-status writes it triggers. Both always commit in a
// single transaction, and this service is the only code path that writes
// either field.
type BookingService struct {
	DB           *gorm.DB
	Availability *AvailabilityService
	Guests       *GuestService
	Notifier     *NotificationService

	// One mutex per room id, serializing the availability check against the
	// insert so two overlapping requests can never both pass the check.
	roomLocks sync.Map
}

func NewBookingService(db *gorm.DB, availability *AvailabilityService, guests *GuestService, notifier *NotificationService) *BookingService {
	return &BookingService{
		DB:           db,
		Availability: availability,
		Guests:       guests,
		Notifier:     notifier,
	}
}

func (s *BookingService) lockRoom(roomID uint) func() {
	v, _ := s.roomLocks.LoadOrStore(roomID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// CalcNights counts calendar days between the two dates, ignoring
// time-of-day components.
func CalcNights(checkIn, checkOut time.Time) int {
	in := now.New(checkIn).BeginningOfDay()
	out := now.New(checkOut).BeginningOfDay()
	return int(out.Sub(in).Hours() / 24)
}

func parseDateRange(checkIn, checkOut string) (time.Time, time.Time, error) {
	ci, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad check_in %q", ErrInvalidDateRange, checkIn)
	}
	co, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad check_out %q", ErrInvalidDateRange, checkOut)
	}
	return ci, co, nil
}

func newReferenceCode() string {
	return "BK-" + strings.ToUpper(uuid.NewString()[:8])
}

// CreateBookingInput carries the caller-supplied booking facts. Guest fields
// are snapshotted onto the booking, independent of the directory profile.
type CreateBookingInput struct {
	RoomID     uint   `json:"room_id"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	GuestCount int    `json:"guest_count"`
	CreatedBy  string `json:"-"`
}

// GuestPrincipal identifies the authenticated guest on the self-service path.
type GuestPrincipal struct {
	ID    uint
	Name  string
	Email string
}

// CreateStaffBooking creates a booking directly in confirmed status and
// moves the room to occupied.
func (s *BookingService) CreateStaffBooking(in CreateBookingInput) (*models.Booking, error) {
	booking, _, err := s.create(in, models.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CreateBookingAsGuest creates a pending booking on behalf of a guest
// principal; the room status is untouched until staff confirm.
func (s *BookingService) CreateBookingAsGuest(principal GuestPrincipal, in CreateBookingInput) (*models.Booking, error) {
	in.GuestEmail = s.resolveGuestEmail(principal, in.GuestEmail)
	if in.GuestName == "" {
		in.GuestName = principal.Name
	}
	in.CreatedBy = fmt.Sprintf("guest:%d", principal.ID)

	booking, room, err := s.create(in, models.BookingStatusPending)
	if err != nil {
		return nil, err
	}
	s.Notifier.NotifyBookingPending(booking, room)
	return booking, nil
}

// resolveGuestEmail keeps "every booking has a non-null guest email" alive
// even for degraded principals: request email first, then the stored
// profile, then a deterministic placeholder that flags the record for
// operators.
func (s *BookingService) resolveGuestEmail(principal GuestPrincipal, requested string) string {
	if e := NormalizeEmail(requested); e != "" {
		return e
	}
	if e := NormalizeEmail(principal.Email); e != "" {
		return e
	}
	if principal.ID != 0 {
		if guest, err := s.Guests.GetByID(principal.ID); err == nil && guest != nil && guest.Email != "" {
			return guest.Email
		}
	}
	placeholder := fmt.Sprintf("guest-%d@unresolved.local", principal.ID)
	log.Printf("⚠️  guest principal %d carries no email; using placeholder %s", principal.ID, placeholder)
	return placeholder
}

func (s *BookingService) create(in CreateBookingInput, status string) (*models.Booking, *models.Room, error) {
	ci, co, err := parseDateRange(in.CheckIn, in.CheckOut)
	if err != nil {
		return nil, nil, err
	}
	nights := CalcNights(ci, co)
	if nights <= 0 {
		return nil, nil, ErrInvalidDateRange
	}

	in.GuestEmail = NormalizeEmail(in.GuestEmail)

	// Directory upsert is independent of the booking transaction; a failure
	// here degrades the profile link, never the booking.
	var guestID *uint
	if guest, err := s.Guests.Upsert(in.GuestEmail, in.GuestName, in.GuestPhone); err != nil {
		log.Printf("⚠️  guest directory upsert failed for %s: %v", in.GuestEmail, err)
	} else {
		guestID = &guest.ID
	}

	unlock := s.lockRoom(in.RoomID)
	defer unlock()

	var booking *models.Booking
	var room models.Room
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&room, in.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("failed to fetch room: %w", err)
		}

		free, err := s.Availability.isAvailable(tx, in.RoomID, ci, co, 0)
		if err != nil {
			return err
		}
		if !free {
			return ErrRoomUnavailable
		}

		b := &models.Booking{
			RoomID:        in.RoomID,
			GuestID:       guestID,
			ReferenceCode: newReferenceCode(),
			Status:        status,
			CreatedBy:     in.CreatedBy,
			GuestName:     strings.TrimSpace(in.GuestName),
			GuestEmail:    in.GuestEmail,
			GuestPhone:    strings.TrimSpace(in.GuestPhone),
			CheckInDate:   ci,
			CheckOutDate:  co,
			Nights:        nights,
			GuestCount:    in.GuestCount,
			TotalPrice:    float64(nights) * room.PricePerNight,
		}
		if b.GuestCount <= 0 {
			b.GuestCount = 1
		}

		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if status == models.BookingStatusConfirmed {
			if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).
				Update("status", models.RoomStatusOccupied).Error; err != nil {
				return fmt.Errorf("failed to update room status: %w", err)
			}
			room.Status = models.RoomStatusOccupied
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return booking, &room, nil
}

// transitionFunc mutates the booking in place and returns the room status to
// cascade ("" = leave the room alone).
type transitionFunc func(b *models.Booking) (roomStatus string, err error)

// applyTransition is the single path that writes booking status together
// with its paired room status, in one transaction. Transitions take the same
// per-room mutex as creation, so two concurrent transitions can never both
// act on a stale status read.
func (s *BookingService) applyTransition(bookingID uint, fn transitionFunc) (*models.Booking, *models.Room, error) {
	var booking models.Booking
	if err := s.DB.Select("id", "room_id").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	unlock := s.lockRoom(booking.RoomID)
	defer unlock()

	var room models.Room
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to fetch booking: %w", err)
		}

		roomStatus, err := fn(&booking)
		if err != nil {
			return err
		}

		if err := tx.Save(&booking).Error; err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		if err := tx.First(&room, booking.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return fmt.Errorf("failed to fetch room: %w", err)
		}
		if roomStatus != "" && room.Status != roomStatus {
			if err := tx.Model(&models.Room{}).Where("id = ?", room.ID).
				Update("status", roomStatus).Error; err != nil {
				return fmt.Errorf("failed to update room status: %w", err)
			}
			room.Status = roomStatus
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &booking, &room, nil
}

// ConfirmBooking moves a pending booking to confirmed and occupies the room.
// Confirming any other status is a rejected precondition, not a no-op.
func (s *BookingService) ConfirmBooking(id uint) (*models.Booking, error) {
	booking, room, err := s.applyTransition(id, func(b *models.Booking) (string, error) {
		if b.Status != models.BookingStatusPending {
			return "", ErrBookingNotPending
		}
		b.Status = models.BookingStatusConfirmed
		return models.RoomStatusOccupied, nil
	})
	if err != nil {
		return nil, err
	}
	s.Notifier.NotifyBookingConfirmed(booking, room)
	return booking, nil
}

// CheckIn marks the booking checked in and issues the one-time key. The
// issuer is idempotent: re-entering check-in never rotates an existing key.
func (s *BookingService) CheckIn(id uint) (*models.Booking, error) {
	var issued bool
	booking, room, err := s.applyTransition(id, func(b *models.Booking) (string, error) {
		b.Status = models.BookingStatusCheckedIn
		var err error
		issued, err = issueCheckInKey(b)
		if err != nil {
			return "", err
		}
		return models.RoomStatusOccupied, nil
	})
	if err != nil {
		return nil, err
	}
	if issued {
		s.Notifier.NotifyCheckInKey(booking, room)
	}
	return booking, nil
}

// CheckOut marks the booking checked out, frees the room and revokes the key
// immediately regardless of its prior expiry.
func (s *BookingService) CheckOut(id uint) (*models.Booking, error) {
	booking, _, err := s.applyTransition(id, func(b *models.Booking) (string, error) {
		b.Status = models.BookingStatusCheckedOut
		revokeCheckInKey(b)
		return models.RoomStatusAvailable, nil
	})
	return booking, err
}

// CancelBooking cancels a pending or confirmed booking. A confirmed booking
// had occupied the room, so cancellation releases it.
func (s *BookingService) CancelBooking(id uint) (*models.Booking, error) {
	booking, _, err := s.applyTransition(id, func(b *models.Booking) (string, error) {
		switch b.Status {
		case models.BookingStatusPending:
			b.Status = models.BookingStatusCancelled
			return "", nil
		case models.BookingStatusConfirmed:
			b.Status = models.BookingStatusCancelled
			return models.RoomStatusAvailable, nil
		}
		return "", ErrBookingNotCancellable
	})
	return booking, err
}

// GetBooking fetches a booking with its room preloaded.
func (s *BookingService) GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Preload("Room").First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// BookingFilter narrows ListBookings; zero values mean "no filter".
type BookingFilter struct {
	RoomID uint
	Email  string
	Status string
}

func (s *BookingService) ListBookings(filter BookingFilter) ([]models.Booking, error) {
	q := s.DB.Preload("Room").Order("created_at DESC")
	if filter.RoomID != 0 {
		q = q.Where("room_id = ?", filter.RoomID)
	}
	if filter.Email != "" {
		q = q.Where("guest_email = ?", NormalizeEmail(filter.Email))
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
