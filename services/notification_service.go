package services

import (
	"log"

	"hotel-pms/models"
	"hotel-pms/utils"
)

const notificationBuffer = 100

// Notification event kinds.
const (
	eventBookingPending   = "booking_pending"
	eventBookingConfirmed = "booking_confirmed"
	eventCheckInKey       = "checkin_key"
	eventInvoice          = "invoice"
)

type notificationEvent struct {
	Kind     string
	Booking  *models.Booking
	Room     *models.Room
	Invoice  *models.Invoice
	Document []byte
}

// NotificationService dispatches lifecycle emails fire-and-forget: events are
// queued after the state change commits and delivered by a background worker.
// Delivery failures are logged, never surfaced; a full queue drops the event.
type NotificationService struct {
	events chan notificationEvent
	done   chan struct{}
}

func NewNotificationService() *NotificationService {
	n := &NotificationService{
		events: make(chan notificationEvent, notificationBuffer),
		done:   make(chan struct{}),
	}
	go n.process()
	return n
}

func (n *NotificationService) process() {
	for ev := range n.events {
		n.deliver(ev)
	}
	close(n.done)
}

// Close drains the queue and stops the worker.
func (n *NotificationService) Close() {
	close(n.events)
	<-n.done
}

func (n *NotificationService) dispatch(ev notificationEvent) {
	select {
	case n.events <- ev:
	default:
		log.Printf("⚠️  notification queue full, dropping %s event", ev.Kind)
	}
}

func (n *NotificationService) NotifyBookingPending(b *models.Booking, room *models.Room) {
	n.dispatch(notificationEvent{Kind: eventBookingPending, Booking: b, Room: room})
}

func (n *NotificationService) NotifyBookingConfirmed(b *models.Booking, room *models.Room) {
	n.dispatch(notificationEvent{Kind: eventBookingConfirmed, Booking: b, Room: room})
}

func (n *NotificationService) NotifyCheckInKey(b *models.Booking, room *models.Room) {
	n.dispatch(notificationEvent{Kind: eventCheckInKey, Booking: b, Room: room})
}

func (n *NotificationService) NotifyInvoice(inv *models.Invoice, document []byte) {
	n.dispatch(notificationEvent{Kind: eventInvoice, Invoice: inv, Document: document})
}

func (n *NotificationService) deliver(ev notificationEvent) {
	var err error
	switch ev.Kind {
	case eventBookingPending:
		err = utils.SendBookingPendingEmail(
			ev.Booking.GuestEmail,
			ev.Booking.ReferenceCode,
			ev.Room.RoomNumber,
			ev.Booking.CheckInDate.Format(dateLayout),
			ev.Booking.CheckOutDate.Format(dateLayout),
		)
	case eventBookingConfirmed:
		err = utils.SendBookingConfirmedEmail(
			ev.Booking.GuestEmail,
			ev.Booking.ReferenceCode,
			ev.Room.RoomNumber,
			ev.Booking.CheckInDate.Format(dateLayout),
			ev.Booking.CheckOutDate.Format(dateLayout),
		)
	case eventCheckInKey:
		expiry := "N/A"
		if ev.Booking.KeyExpiresAt != nil {
			expiry = ev.Booking.KeyExpiresAt.Format("2006-01-02 15:04")
		}
		err = utils.SendCheckInKeyEmail(ev.Booking.GuestEmail, ev.Booking.ReferenceCode, ev.Booking.CheckInKey, expiry)
	case eventInvoice:
		err = utils.SendInvoiceEmail(ev.Invoice.GuestEmail, ev.Invoice.Number, ev.Document)
	}
	if err != nil {
		log.Printf("⚠️  failed to deliver %s notification: %v", ev.Kind, err)
	}
}
