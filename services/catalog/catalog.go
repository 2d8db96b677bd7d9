package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogRepo "glowbook/database/repository/catalog"
	"glowbook/models"

	"github.com/google/uuid"
)

// CreateServiceInput is a provider's new catalog entry.
type CreateServiceInput struct {
	Category    models.ServiceCategory `json:"category"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Price       int64                  `json:"price"`
	Duration    int                    `json:"duration"`
}

// UpdateServiceInput carries a partial edit; nil fields are left unchanged.
type UpdateServiceInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
}

// CatalogService manages the services providers offer.
type CatalogService interface {
	CreateService(ctx context.Context, providerID string, in CreateServiceInput) (*models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListProviderServices(ctx context.Context, providerID string, includeInactive bool) ([]models.Service, error)
	// UpdateService edits an owned catalog entry. Existing bookings are
	// unaffected; they carry their own price copies.
	UpdateService(ctx context.Context, providerID, serviceID string, in UpdateServiceInput) (*models.Service, error)
	// SetActive toggles whether the service is offerable.
	SetActive(ctx context.Context, providerID, serviceID string, active bool) (*models.Service, error)
}

// DefaultCatalogService implements CatalogService.
type DefaultCatalogService struct {
	Repo catalogRepo.CatalogRepository
}

func (s *DefaultCatalogService) CreateService(ctx context.Context, providerID string, in CreateServiceInput) (*models.Service, error) {
	switch {
	case in.Name == "":
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	case !models.ValidCategory(in.Category):
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, in.Category)
	case in.Price <= 0:
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	case in.Duration < 1:
		return nil, fmt.Errorf("%w: duration must be at least one minute", ErrValidation)
	}

	now := time.Now().UTC()
	svc := &models.Service{
		ID:          uuid.New().String(),
		ProviderID:  providerID,
		Category:    in.Category,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *DefaultCatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return svc, nil
}

func (s *DefaultCatalogService) ListProviderServices(ctx context.Context, providerID string, includeInactive bool) ([]models.Service, error) {
	return s.Repo.ListByProvider(ctx, providerID, !includeInactive)
}

func (s *DefaultCatalogService) UpdateService(ctx context.Context, providerID, serviceID string, in UpdateServiceInput) (*models.Service, error) {
	svc, err := s.Repo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if svc.ProviderID != providerID {
		return nil, ErrForbidden
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		svc.Name = *in.Name
	}
	if in.Description != nil {
		svc.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
		}
		svc.Price = *in.Price
	}
	if in.Duration != nil {
		if *in.Duration < 1 {
			return nil, fmt.Errorf("%w: duration must be at least one minute", ErrValidation)
		}
		svc.Duration = *in.Duration
	}

	svc.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *DefaultCatalogService) SetActive(ctx context.Context, providerID, serviceID string, active bool) (*models.Service, error) {
	svc, err := s.Repo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if svc.ProviderID != providerID {
		return nil, ErrForbidden
	}
	if svc.Active == active {
		return svc, nil
	}
	svc.Active = active
	svc.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}
