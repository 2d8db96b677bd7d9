package reviewRepo

import (
	"context"
	"errors"

	"glowbook/models"
)

// ErrDuplicate is returned when a review already exists for the booking.
// The unique index on booking_id makes this hold under concurrent inserts.
var ErrDuplicate = errors.New("booking already reviewed")

// ReviewRepository defines methods for review data access.
type ReviewRepository interface {
	// Create inserts a new review. Fails with ErrDuplicate if the booking
	// already has one.
	Create(ctx context.Context, review *models.Review) error
	// ExistsForBooking reports whether the booking has been reviewed.
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	// ListByProvider returns a provider's reviews, newest first.
	ListByProvider(ctx context.Context, providerID string) ([]models.Review, error)
}
