package bookingRepo

import (
	"context"
	"errors"

	"glowbook/models"
)

// ErrNotFound is returned when no booking matches the lookup.
var ErrNotFound = errors.New("booking not found")

// ErrStaleStatus is returned by UpdateStatusIf when the booking exists but
// its current status no longer matches the expected one, meaning a
// concurrent transition won the write.
var ErrStaleStatus = errors.New("booking status changed concurrently")

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking record.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// UpdateStatusIf atomically moves a booking from one lifecycle status to
	// another. The status check and the write happen in a single conditional
	// update so two concurrent transitions cannot both succeed.
	UpdateStatusIf(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error)
	// MarkDepositPaidByIntent sets deposit status to Paid on the booking
	// holding the given payment intent reference. changed is false when the
	// deposit was already Paid (idempotent re-delivery). Returns ErrNotFound
	// when no booking carries the reference.
	MarkDepositPaidByIntent(ctx context.Context, intentID string) (booking *models.Booking, changed bool, err error)
	// ListByParty returns all bookings in which the given user participates
	// as client or provider, newest first.
	ListByParty(ctx context.Context, userID string) ([]models.Booking, error)
}
