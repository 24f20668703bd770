package services

import (
	"fmt"
	"time"

	"hotel-pms/models"
	"hotel-pms/utils"
)

// keyTokenBytes gives a 32-hex-char key; collision odds are negligible over
// the hotel's lifetime.
const keyTokenBytes = 16

// issueCheckInKey puts a one-time key on the booking if none exists yet and
// defaults its expiry to the checkout date. Returns whether a new key was
// issued.
func issueCheckInKey(b *models.Booking) (bool, error) {
	if b.CheckInKey != "" {
		return false, nil
	}
	token, err := utils.GenerateSecureToken(keyTokenBytes)
	if err != nil {
		return false, fmt.Errorf("failed to generate check-in key: %w", err)
	}
	b.CheckInKey = token
	if b.KeyExpiresAt == nil {
		b.KeyExpiresAt = utils.PtrTime(b.CheckOutDate)
	}
	return true, nil
}

// revokeCheckInKey forces the key expiry to now, regardless of prior value.
func revokeCheckInKey(b *models.Booking) {
	b.KeyExpiresAt = utils.PtrTime(time.Now().UTC())
}
