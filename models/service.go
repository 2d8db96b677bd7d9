package models

import "time"

// ServiceCategory enumerates the kinds of services providers can offer.
type ServiceCategory string

const (
	CategoryNail     ServiceCategory = "Nail"
	CategoryLash     ServiceCategory = "Lash"
	CategoryManicure ServiceCategory = "Manicure"
	CategoryPedicure ServiceCategory = "Pedicure"
	CategoryFacial   ServiceCategory = "Facial"
	CategoryHair     ServiceCategory = "Hair"
	CategoryMakeup   ServiceCategory = "Makeup"
)

// ValidCategory reports whether c is a known service category.
func ValidCategory(c ServiceCategory) bool {
	switch c {
	case CategoryNail, CategoryLash, CategoryManicure, CategoryPedicure,
		CategoryFacial, CategoryHair, CategoryMakeup:
		return true
	}
	return false
}

// Service is an offerable catalog entry owned by a provider. Bookings copy
// the price at creation time, so later edits never affect existing bookings.
type Service struct {
	ID          string          `bson:"id" json:"id"`
	ProviderID  string          `bson:"provider_id" json:"providerId"`
	Category    ServiceCategory `bson:"category" json:"category"`
	Name        string          `bson:"name" json:"name"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	Price       int64           `bson:"price" json:"price"`       // minor currency units
	Duration    int             `bson:"duration" json:"duration"` // minutes
	Active      bool            `bson:"active" json:"active"`
	CreatedAt   time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updated_at" json:"updatedAt"`
}
