package models

// Real-time event names pushed over the notification channel.
const (
	EventNewBookingRequest   = "new_booking_request"
	EventBookingStatusUpdate = "booking_status_update"
	EventDepositPaid         = "deposit_paid"
	EventUpcomingBooking     = "upcoming_booking"
)

// BookingEvent is the payload delivered to a booking's counter-party when
// the booking changes. Message is human-readable copy; Booking is a snapshot
// of the record after the change.
type BookingEvent struct {
	Message string   `json:"message"`
	Booking *Booking `json:"booking,omitempty"`
}

// ReminderPayload is the asynq task payload for appointment reminders.
type ReminderPayload struct {
	BookingID   string `json:"bookingId"`
	RecipientID string `json:"recipientId"`
	Message     string `json:"message"`
}
