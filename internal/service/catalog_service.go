package service

import (
	"context"
	"fmt"
	"strings"

	"agenda/internal/database"
	"agenda/internal/domain"
	"agenda/internal/models"

	"github.com/rs/zerolog"
)

// CatalogService manages the service catalog.
type CatalogService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewCatalogService(store domain.Store, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

// List returns services, optionally restricted to the bookable (active) ones.
func (s *CatalogService) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	services, err := s.store.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return services, nil
	}

	var out []models.Service
	for _, svc := range services {
		if svc.Active {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Service, error) {
	return s.store.GetService(ctx, id)
}

// Save validates and persists a service. Name, a positive price and a
// positive duration are required.
func (s *CatalogService) Save(ctx context.Context, svc *models.Service) error {
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.Name == "" {
		return fmt.Errorf("%w: service name is required", database.ErrValidation)
	}
	if svc.Price <= 0 || svc.DurationMinutes <= 0 {
		return fmt.Errorf("%w: service price and duration must be positive", database.ErrValidation)
	}

	if svc.ID == "" {
		svc.Active = true
		return s.store.InsertService(ctx, svc)
	}
	return s.store.UpdateService(ctx, svc)
}

// Toggle flips a service between active and inactive.
func (s *CatalogService) Toggle(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.store.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetServiceActive(ctx, id, !svc.Active); err != nil {
		return nil, err
	}
	svc.Active = !svc.Active
	return svc, nil
}
