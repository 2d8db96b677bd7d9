package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
)

// DepositStatus tracks the deposit payment independently of the lifecycle.
type DepositStatus string

const (
	DepositPending  DepositStatus = "Pending"
	DepositPaid     DepositStatus = "Paid"
	DepositRefunded DepositStatus = "Refunded"
)

// Location is the address a booking takes place at.
type Location struct {
	Address string   `bson:"address" json:"address"`
	City    string   `bson:"city" json:"city"`
	State   string   `bson:"state" json:"state"`
	ZipCode string   `bson:"zip_code" json:"zipCode"`
	Lat     *float64 `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng     *float64 `bson:"lng,omitempty" json:"lng,omitempty"`
}

// Booking is the root entity of the marketplace core. Amounts are in minor
// currency units and are frozen at creation; DepositAmount is always the
// rounded 20% of TotalAmount.
type Booking struct {
	ID              string        `bson:"id" json:"id"`
	ClientID        string        `bson:"client_id" json:"clientId"`
	ProviderID      string        `bson:"provider_id" json:"providerId"`
	ServiceID       string        `bson:"service_id" json:"serviceId"`
	Location        Location      `bson:"location" json:"location"`
	ScheduledTime   time.Time     `bson:"scheduled_time" json:"scheduledTime"`
	Status          BookingStatus `bson:"status" json:"status"`
	DepositStatus   DepositStatus `bson:"deposit_status" json:"depositStatus"`
	DepositAmount   int64         `bson:"deposit_amount" json:"depositAmount"`
	TotalAmount     int64         `bson:"total_amount" json:"totalAmount"`
	Notes           string        `bson:"notes,omitempty" json:"notes,omitempty"`
	PaymentIntentID string        `bson:"payment_intent_id,omitempty" json:"-"`
	CreatedAt       time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updatedAt"`
}

// IsParty reports whether the given principal ID is the booking's client or
// its assigned provider.
func (b *Booking) IsParty(id string) bool {
	return id == b.ClientID || id == b.ProviderID
}

// CounterpartyOf returns the other party of the booking relative to id.
func (b *Booking) CounterpartyOf(id string) string {
	if id == b.ClientID {
		return b.ProviderID
	}
	return b.ClientID
}
