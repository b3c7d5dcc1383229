package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ffelipeandres24/banco-maria/internal/domain"
	"github.com/ffelipeandres24/banco-maria/internal/repository"
)

// ClientService is the client registry: CRUD over client identity records
// with a unique national ID.
type ClientService struct {
	clientRepo repository.ClientRepository
}

func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// Register creates a new client. Fails with a conflict when the national ID
// is already registered.
func (s *ClientService) Register(ctx context.Context, request *domain.RegisterClientRequest) (*domain.Client, error) {
	now := time.Now()
	client := &domain.Client{
		ID:         uuid.New(),
		Name:       request.Name,
		NationalID: request.NationalID,
		Phone:      request.Phone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// Update edits a client's identity fields
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, request *domain.UpdateClientRequest) error {
	client := &domain.Client{
		ID:         id,
		Name:       request.Name,
		NationalID: request.NationalID,
		Phone:      request.Phone,
	}

	return s.clientRepo.Update(ctx, client)
}

// Delete removes a client. The loans foreign key blocks deletion while the
// client still owns loans; that failure surfaces as a conflict.
func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.clientRepo.Delete(ctx, id)
}

// List returns all clients ordered by name
func (s *ClientService) List(ctx context.Context) ([]*domain.Client, error) {
	return s.clientRepo.List(ctx)
}
