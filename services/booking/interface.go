package booking

import (
	"context"
	"time"

	"glowbook/models"
)

// CreateBookingInput carries the client's booking request.
type CreateBookingInput struct {
	ProviderID    string          `json:"providerId"`
	ServiceID     string          `json:"serviceId"`
	Location      models.Location `json:"location"`
	ScheduledTime time.Time       `json:"scheduledTime"`
	Notes         string          `json:"notes,omitempty"`
}

// CreateBookingResult pairs the persisted booking with the gateway's client
// confirmation token the frontend needs to collect the deposit.
type CreateBookingResult struct {
	Booking            *models.Booking `json:"booking"`
	PaymentClientToken string          `json:"paymentClientToken"`
}

// LifecycleEngine owns the booking state machine, per-transition
// authorization, and deposit handling.
type LifecycleEngine interface {
	// CreateBooking validates the request, obtains a deposit payment intent
	// from the gateway, and persists the booking in Pending. The gateway
	// call strictly precedes the local write.
	CreateBooking(ctx context.Context, clientID string, in CreateBookingInput) (*CreateBookingResult, error)
	// Transition moves a booking to Confirmed or Completed. Only the
	// booking's assigned provider may do this.
	Transition(ctx context.Context, actor models.Principal, bookingID string, target models.BookingStatus) (*models.Booking, error)
	// Cancel moves a non-terminal booking to Cancelled. Either party may
	// cancel.
	Cancel(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error)
	// ApplyPaymentEvent reconciles an asynchronous gateway confirmation with
	// the deposit sub-state. Unmatched intents are logged and dropped.
	ApplyPaymentEvent(ctx context.Context, intentID string) error
	// ListMyBookings returns the caller's bookings, newest first.
	ListMyBookings(ctx context.Context, userID string) ([]models.Booking, error)
}
