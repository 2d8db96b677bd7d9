package models

import "time"

// Review is a one-time rating for a completed booking. ProviderID is
// denormalized from the booking so provider listings avoid a join.
type Review struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"booking_id" json:"bookingId"`
	ClientID   string    `bson:"client_id" json:"clientId"`
	ProviderID string    `bson:"provider_id" json:"providerId"`
	Rating     int       `bson:"rating" json:"rating"`
	Comment    string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// ProviderReviews is the listing payload for a provider's review page.
type ProviderReviews struct {
	Count         int      `json:"count"`
	AverageRating float64  `json:"averageRating"`
	Reviews       []Review `json:"reviews"`
}
