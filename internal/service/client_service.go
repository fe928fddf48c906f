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

type ClientService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewClientService(store domain.Store, logger *zerolog.Logger) *ClientService {
	return &ClientService{store: store, logger: logger}
}

// List returns clients, optionally filtered by a case-insensitive substring
// of the name or phone.
func (s *ClientService) List(ctx context.Context, search string) ([]models.Client, error) {
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	if search == "" {
		return clients, nil
	}

	term := strings.ToLower(search)
	var out []models.Client
	for _, client := range clients {
		if strings.Contains(strings.ToLower(client.FullName), term) ||
			strings.Contains(strings.ToLower(client.Phone), term) {
			out = append(out, client)
		}
	}
	return out, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	return s.store.GetClient(ctx, id)
}

// Save validates and persists a client. Name and phone are required.
func (s *ClientService) Save(ctx context.Context, client *models.Client) error {
	client.FullName = strings.TrimSpace(client.FullName)
	client.Phone = strings.TrimSpace(client.Phone)
	if client.FullName == "" || client.Phone == "" {
		return fmt.Errorf("%w: client name and phone are required", database.ErrValidation)
	}

	if client.ID == "" {
		return s.store.InsertClient(ctx, client)
	}
	return s.store.UpdateClient(ctx, client)
}

// Delete removes a client. A client with linked appointments is rejected with
// database.ErrClientHasAppointments.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteClient(ctx, id)
}
