package services

import "errors"

// Service-level sentinels. Controllers map these onto HTTP statuses; anything
// else is treated as an internal error and not leaked to the caller.
var (
	ErrRoomNotFound          = errors.New("room_not_found")
	ErrBookingNotFound       = errors.New("booking_not_found")
	ErrInvoiceNotFound       = errors.New("invoice_not_found")
	ErrRoomUnavailable       = errors.New("room_unavailable")
	ErrInvalidDateRange      = errors.New("invalid_date_range")
	ErrInvalidRoomType       = errors.New("invalid_room_type")
	ErrInvalidRoomStatus     = errors.New("invalid_room_status")
	ErrInvalidImageSlot      = errors.New("invalid_image_slot")
	ErrDuplicateRoomNumber   = errors.New("room_number_exists")
	ErrBookingNotPending     = errors.New("booking_not_pending")
	ErrBookingNotCancellable = errors.New("booking_not_cancellable")
	ErrBookingMissingRoom    = errors.New("booking_missing_room")
	ErrInvoiceAlreadyPaid    = errors.New("invoice_already_paid")
)
