package catalogRepo

import (
	"context"
	"errors"

	"glowbook/models"
)

// ErrNotFound is returned when no service matches the lookup.
var ErrNotFound = errors.New("service not found")

// CatalogRepository defines methods for service catalog data access.
type CatalogRepository interface {
	// Create inserts a new catalog entry.
	Create(ctx context.Context, service *models.Service) error
	// GetByID retrieves a service by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Service, error)
	// ListByProvider returns a provider's services; activeOnly restricts the
	// listing to entries still offered.
	ListByProvider(ctx context.Context, providerID string, activeOnly bool) ([]models.Service, error)
	// Update modifies an existing catalog entry.
	Update(ctx context.Context, service *models.Service) error
}
