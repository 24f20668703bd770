package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"hotel-pms/models"
)

func staffInput(roomID uint, in, out string) CreateBookingInput {
	return CreateBookingInput{
		RoomID:     roomID,
		GuestName:  "Alice Example",
		GuestEmail: "alice@example.com",
		GuestPhone: "555-0100",
		CheckIn:    in,
		CheckOut:   out,
		GuestCount: 2,
		CreatedBy:  "staff:reception",
	}
}

func TestCalcNights(t *testing.T) {
	if n := CalcNights(date("2024-05-01"), date("2024-05-03")); n != 2 {
		t.Errorf("expected 2 nights, got %d", n)
	}
	if n := CalcNights(date("2024-05-01"), date("2024-05-01")); n != 0 {
		t.Errorf("expected 0 nights for same-day range, got %d", n)
	}
	// Time-of-day must not change the count.
	in := date("2024-05-01").Add(18 * time.Hour)
	out := date("2024-05-03").Add(2 * time.Hour)
	if n := CalcNights(in, out); n != 2 {
		t.Errorf("expected 2 nights ignoring time of day, got %d", n)
	}
}

func TestStaffBookingConfirmsAndOccupiesRoom(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	booking, err := svc.CreateStaffBooking(staffInput(room.ID, "2024-06-01", "2024-06-04"))
	if err != nil {
		t.Fatalf("CreateStaffBooking: %v", err)
	}

	if booking.Status != models.BookingStatusConfirmed {
		t.Errorf("expected confirmed, got %s", booking.Status)
	}
	if booking.Nights != 3 {
		t.Errorf("expected 3 nights, got %d", booking.Nights)
	}
	if booking.TotalPrice != 300 {
		t.Errorf("expected total 300, got %v", booking.TotalPrice)
	}
	if !strings.HasPrefix(booking.ReferenceCode, "BK-") {
		t.Errorf("unexpected reference code %q", booking.ReferenceCode)
	}
	if got := roomStatus(t, db, room.ID); got != models.RoomStatusOccupied {
		t.Errorf("expected room occupied, got %s", got)
	}
	if booking.GuestID == nil {
		t.Error("expected a linked guest profile")
	}
}

func TestTotalPriceSnapshotSurvivesRateChange(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	booking, err := svc.CreateStaffBooking(staffInput(room.ID, "2024-06-01", "2024-06-04"))
	if err != nil {
		t.Fatalf("CreateStaffBooking: %v", err)
	}

	if err := db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("price_per_night", 250.0).Error; err != nil {
		t.Fatalf("reprice room: %v", err)
	}

	reloaded, err := svc.GetBooking(booking.ID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if reloaded.TotalPrice != 300 {
		t.Errorf("total price must stay snapshotted at 300, got %v", reloaded.TotalPrice)
	}
}

func TestCreateRejectsNonPositiveNights(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	for _, tc := range [][2]string{
		{"2024-06-01", "2024-06-01"},
		{"2024-06-05", "2024-06-01"},
	} {
		_, err := svc.CreateStaffBooking(staffInput(room.ID, tc[0], tc[1]))
		if !errors.Is(err, ErrInvalidDateRange) {
			t.Errorf("range %s..%s: expected ErrInvalidDateRange, got %v", tc[0], tc[1], err)
		}
	}
}

func TestOverlappingBookingRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	if _, err := svc.CreateStaffBooking(staffInput(room.ID, "2024-06-01", "2024-06-05")); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	_, err := svc.CreateStaffBooking(staffInput(room.ID, "2024-06-03", "2024-06-07"))
	if !errors.Is(err, ErrRoomUnavailable) {
		t.Fatalf("expected ErrRoomUnavailable, got %v", err)
	}

	var count int64
	db.Model(&models.Booking{}).Where("room_id = ?", room.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected the first booking to remain sole, found %d rows", count)
	}
}

func TestBoundaryTouchIsNotConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	if _, err := svc.CreateStaffBooking(staffInput(room.ID, "2024-05-05", "2024-05-10")); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := svc.CreateStaffBooking(staffInput(room.ID, "2024-05-10", "2024-05-12")); err != nil {
		t.Fatalf("same-day turnover must be allowed: %v", err)
	}
}

func TestConcurrentOverlappingCreatesOnlyOneWins(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	const attempts = 10
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := staffInput(room.ID, "2024-06-01", "2024-06-05")
			in.GuestEmail = fmt.Sprintf("guest%d@example.com", i)
			_, err := svc.CreateStaffBooking(in)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrRoomUnavailable):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != attempts-1 {
		t.Errorf("expected exactly 1 winner and %d conflicts, got %d/%d", attempts-1, wins, conflicts)
	}
}

func TestConcurrentConfirmAndCancelStayConsistent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	// Whatever the interleaving, cancel is legal from both pending and
	// confirmed, so the booking must always end cancelled with the room
	// available. A stale-status write would leave the room occupied.
	for i := 0; i < 25; i++ {
		booking, err := svc.CreateBookingAsGuest(
			GuestPrincipal{ID: 1, Email: "race@example.com"},
			CreateBookingInput{RoomID: room.ID, CheckIn: "2024-06-01", CheckOut: "2024-06-03"},
		)
		if err != nil {
			t.Fatalf("iteration %d create: %v", i, err)
		}

		var wg sync.WaitGroup
		var confirmErr, cancelErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, confirmErr = svc.ConfirmBooking(booking.ID)
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = svc.CancelBooking(booking.ID)
		}()
		wg.Wait()

		if confirmErr != nil && !errors.Is(confirmErr, ErrBookingNotPending) {
			t.Fatalf("iteration %d confirm: %v", i, confirmErr)
		}
		if cancelErr != nil {
			t.Fatalf("iteration %d cancel: %v", i, cancelErr)
		}

		final, err := svc.GetBooking(booking.ID)
		if err != nil {
			t.Fatalf("iteration %d reload: %v", i, err)
		}
		if final.Status != models.BookingStatusCancelled {
			t.Fatalf("iteration %d: expected cancelled, got %s", i, final.Status)
		}
		if got := roomStatus(t, db, room.ID); got != models.RoomStatusAvailable {
			t.Fatalf("iteration %d: booking cancelled but room %s", i, got)
		}
	}
}

func TestGuestBookingStaysPendingAndRoomUntouched(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	principal := GuestPrincipal{ID: 7, Name: "Bob", Email: "bob@example.com"}
	booking, err := svc.CreateBookingAsGuest(principal, CreateBookingInput{
		RoomID:   room.ID,
		CheckIn:  "2024-06-01",
		CheckOut: "2024-06-03",
	})
	if err != nil {
		t.Fatalf("CreateBookingAsGuest: %v", err)
	}

	if booking.Status != models.BookingStatusPending {
		t.Errorf("expected pending, got %s", booking.Status)
	}
	if booking.GuestEmail != "bob@example.com" {
		t.Errorf("expected principal email, got %q", booking.GuestEmail)
	}
	if booking.CreatedBy != "guest:7" {
		t.Errorf("unexpected creator %q", booking.CreatedBy)
	}
	if got := roomStatus(t, db, room.ID); got != models.RoomStatusAvailable {
		t.Errorf("pending booking must not change room status, got %s", got)
	}
}

func TestGuestBookingSynthesizesPlaceholderEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	booking, err := svc.CreateBookingAsGuest(GuestPrincipal{ID: 42, Name: "No Email"}, CreateBookingInput{
		RoomID:   room.ID,
		CheckIn:  "2024-06-01",
		CheckOut: "2024-06-03",
	})
	if err != nil {
		t.Fatalf("CreateBookingAsGuest: %v", err)
	}
	if booking.GuestEmail != "guest-42@unresolved.local" {
		t.Errorf("expected placeholder email, got %q", booking.GuestEmail)
	}
}

func TestGuestBookingResolvesEmailFromDirectory(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	stored, err := svc.Guests.Upsert("stored@example.com", "Stored Guest", "")
	if err != nil {
		t.Fatalf("seed guest: %v", err)
	}

	booking, err := svc.CreateBookingAsGuest(GuestPrincipal{ID: stored.ID}, CreateBookingInput{
		RoomID:   room.ID,
		CheckIn:  "2024-06-01",
		CheckOut: "2024-06-03",
	})
	if err != nil {
		t.Fatalf("CreateBookingAsGuest: %v", err)
	}
	if booking.GuestEmail != "stored@example.com" {
		t.Errorf("expected stored profile email, got %q", booking.GuestEmail)
	}
}

func TestConfirmOnlyLegalFromPending(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	booking, err := svc.CreateBookingAsGuest(GuestPrincipal{ID: 1, Email: "c@example.com"}, CreateBookingInput{
		RoomID: room.ID, CheckIn: "2024-06-01", CheckOut: "2024-06-03",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	confirmed, err := svc.ConfirmBooking(booking.ID)
	if err != nil {
		t.Fatalf("ConfirmBooking: %v", err)
	}
	if confirmed.Status != models.BookingStatusConfirmed {
		t.Errorf("expected confirmed, got %s", confirmed.Status)
	}
	if got := roomStatus(t, db, room.ID); got != models.RoomStatusOccupied {
		t.Errorf("confirm must occupy the room, got %s", got)
	}

	// Second confirm is a rejected precondition, not a silent no-op.
	if _, err := svc.ConfirmBooking(booking.ID); !errors.Is(err, ErrBookingNotPending) {
		t.Errorf("expected ErrBookingNotPending, got %v", err)
	}
}

func TestCheckInIssuesKeyOnceAndFromPending(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	// Check-in enforces no status precondition: a pending booking may be
	// checked in directly.
	booking, err := svc.CreateBookingAsGuest(GuestPrincipal{ID: 1, Email: "d@example.com"}, CreateBookingInput{
		RoomID: room.ID, CheckIn: "2024-06-01", CheckOut: "2024-06-03",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	checkedIn, err := svc.CheckIn(booking.ID)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if checkedIn.Status != models.BookingStatusCheckedIn {
		t.Errorf("expected checked_in, got %s", checkedIn.Status)
	}
	if got := roomStatus(t, db, room.ID); got != models.RoomStatusOccupied {
		t.Errorf("check-in must occupy the room, got %s", got)
	}
	if len(checkedIn.CheckInKey) != 32 {
		t.Errorf("expected 32-hex-char key, got %q", checkedIn.CheckInKey)
	}
	if checkedIn.KeyExpiresAt == nil || !checkedIn.KeyExpiresAt.Equal(checkedIn.CheckOutDate) {
		t.Errorf("key expiry must default to checkout date, got %v", checkedIn.KeyExpiresAt)
	}

	// Idempotent: re-entering check-in must not rotate the key.
	again, err := svc.CheckIn(booking.ID)
	if err != nil {
		t.Fatalf("second CheckIn: %v", err)
	}
	if again.CheckInKey != checkedIn.CheckInKey {
		t.Error("re-check-in rotated the key")
	}
}

func TestCheckOutFreesRoomAndRevokesKey(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	booking, err := svc.CreateStaffBooking(staffInput(room.ID, "2024-06-01", "2024-06-03"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CheckIn(booking.ID); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	before := time.Now().UTC()
	checkedOut, err := svc.CheckOut(booking.ID)
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	after := time.Now().UTC()

	if checkedOut.Status != models.BookingStatusCheckedOut {
		t.Errorf("expected checked_out, got %s", checkedOut.Status)
	}
	if got := roomStatus(t, db, room.ID); got != models.RoomStatusAvailable {
		t.Errorf("check-out must free the room, got %s", got)
	}
	if checkedOut.KeyExpiresAt == nil ||
		checkedOut.KeyExpiresAt.Before(before) || checkedOut.KeyExpiresAt.After(after) {
		t.Errorf("key expiry must be forced to now, got %v", checkedOut.KeyExpiresAt)
	}
}

func TestCancelBooking(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	room := createTestRoom(t, db, "101", 100)

	booking, err := svc.CreateStaffBooking(staffInput(room.ID, "2024-06-01", "2024-06-03"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cancelled, err := svc.CancelBooking(booking.ID)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if cancelled.Status != models.BookingStatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}
	if got := roomStatus(t, db, room.ID); got != models.RoomStatusAvailable {
		t.Errorf("cancelling a confirmed booking must free the room, got %s", got)
	}

	// The range is free again.
	if _, err := svc.CreateStaffBooking(staffInput(room.ID, "2024-06-01", "2024-06-03")); err != nil {
		t.Fatalf("rebooking after cancel: %v", err)
	}

	// Checked-out bookings are not cancellable.
	b2, err := svc.ListBookings(BookingFilter{Status: models.BookingStatusConfirmed})
	if err != nil || len(b2) != 1 {
		t.Fatalf("list confirmed: %v (%d)", err, len(b2))
	}
	if _, err := svc.CheckOut(b2[0].ID); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if _, err := svc.CancelBooking(b2[0].ID); !errors.Is(err, ErrBookingNotCancellable) {
		t.Errorf("expected ErrBookingNotCancellable, got %v", err)
	}
}

func TestListBookingsFilters(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)
	roomA := createTestRoom(t, db, "101", 100)
	roomB := createTestRoom(t, db, "102", 100)

	inA := staffInput(roomA.ID, "2024-06-01", "2024-06-03")
	inB := staffInput(roomB.ID, "2024-06-01", "2024-06-03")
	inB.GuestEmail = "Other@Example.com"
	if _, err := svc.CreateStaffBooking(inA); err != nil {
		t.Fatalf("create A: %v", err)
	}
	if _, err := svc.CreateStaffBooking(inB); err != nil {
		t.Fatalf("create B: %v", err)
	}

	byRoom, err := svc.ListBookings(BookingFilter{RoomID: roomA.ID})
	if err != nil || len(byRoom) != 1 || byRoom[0].RoomID != roomA.ID {
		t.Errorf("room filter failed: %v (%d)", err, len(byRoom))
	}

	// Email filter is normalized.
	byEmail, err := svc.ListBookings(BookingFilter{Email: " OTHER@example.com "})
	if err != nil || len(byEmail) != 1 || byEmail[0].RoomID != roomB.ID {
		t.Errorf("email filter failed: %v (%d)", err, len(byEmail))
	}
}

func TestTransitionsOnMissingBooking(t *testing.T) {
	db := newTestDB(t)
	svc := newTestBookingService(t, db)

	for name, fn := range map[string]func(uint) (*models.Booking, error){
		"confirm":  svc.ConfirmBooking,
		"checkin":  svc.CheckIn,
		"checkout": svc.CheckOut,
		"cancel":   svc.CancelBooking,
	} {
		if _, err := fn(9999); !errors.Is(err, ErrBookingNotFound) {
			t.Errorf("%s: expected ErrBookingNotFound, got %v", name, err)
		}
	}
}
