package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/cache"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/repository"
	"github.com/segyhp/loan-ledger/internal/tracing"
	customError "github.com/segyhp/loan-ledger/pkg/errors"

	"go.opentelemetry.io/otel/attribute"
)

type ClientService struct {
	ClientRepo repository.ClientRepository
	LoanRepo   repository.LoanRepository
	Dashboard  cache.DashboardCache
	logger     *slog.Logger
	now        Clock
}

func NewClientService(
	clientRepo repository.ClientRepository,
	loanRepo repository.LoanRepository,
	dashboard cache.DashboardCache,
	logger *slog.Logger,
) *ClientService {
	return &ClientService{
		ClientRepo: clientRepo,
		LoanRepo:   loanRepo,
		Dashboard:  dashboard,
		logger:     loggerOrDefault(logger),
		now:        time.Now,
	}
}

// Create registers a new client for the owner
func (s *ClientService) Create(ctx context.Context, ownerID uuid.UUID, request *domain.CreateClientRequest) (*domain.Client, error) {
	ctx, span := tracing.Tracer().Start(ctx, "ClientService.Create")
	defer span.End()

	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, customError.WrapValidation("name is required")
	}

	now := s.now().UTC()
	client := &domain.Client{
		ID:        uuid.New(),
		Name:      name,
		Document:  strings.TrimSpace(request.Document),
		Phone:     strings.TrimSpace(request.Phone),
		Address:   request.Address,
		Notes:     request.Notes,
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   ownerID,
	}

	if err := s.ClientRepo.Create(ctx, client); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	invalidateDashboard(ctx, s.Dashboard, s.logger, ownerID)
	s.logger.InfoContext(ctx, "client created", slog.String("client_id", client.ID.String()))

	return client, nil
}

// Get returns a client together with its loans
func (s *ClientService) Get(ctx context.Context, ownerID, id uuid.UUID) (*domain.ClientDetailResponse, error) {
	ctx, span := tracing.Tracer().Start(ctx, "ClientService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("client.id", id.String()))

	client, err := s.ClientRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupError(err, customError.WrapClientNotFound(id.String()))
	}

	loans, err := s.LoanRepo.ListByClient(ctx, ownerID, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.ClientDetailResponse{Client: client, Loans: loans}, nil
}

// List returns every client of the owner
func (s *ClientService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Client, error) {
	clients, err := s.ClientRepo.List(ctx, ownerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return clients, nil
}

// Search matches term against name, document and phone. An empty term lists everything.
func (s *ClientService) Search(ctx context.Context, ownerID uuid.UUID, term string) ([]*domain.Client, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx, ownerID)
	}

	clients, err := s.ClientRepo.Search(ctx, ownerID, term)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return clients, nil
}

// Update applies a partial update
func (s *ClientService) Update(ctx context.Context, ownerID, id uuid.UUID, request *domain.UpdateClientRequest) (*domain.Client, error) {
	ctx, span := tracing.Tracer().Start(ctx, "ClientService.Update")
	defer span.End()

	client, err := s.ClientRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, lookupError(err, customError.WrapClientNotFound(id.String()))
	}

	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		if name == "" {
			return nil, customError.WrapValidation("name must not be empty")
		}
		client.Name = name
	}
	if request.Document != nil {
		client.Document = strings.TrimSpace(*request.Document)
	}
	if request.Phone != nil {
		client.Phone = strings.TrimSpace(*request.Phone)
	}
	if request.Address != nil {
		client.Address = *request.Address
	}
	if request.Notes != nil {
		client.Notes = *request.Notes
	}
	client.UpdatedAt = s.now().UTC()

	if err := s.ClientRepo.Update(ctx, client); err != nil {
		return nil, lookupError(err, customError.WrapClientNotFound(id.String()))
	}

	return client, nil
}

// Delete removes a client and, by cascade, its loans and payments
func (s *ClientService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	ctx, span := tracing.Tracer().Start(ctx, "ClientService.Delete")
	defer span.End()

	if err := s.ClientRepo.Delete(ctx, ownerID, id); err != nil {
		return lookupError(err, customError.WrapClientNotFound(id.String()))
	}

	invalidateDashboard(ctx, s.Dashboard, s.logger, ownerID)
	s.logger.InfoContext(ctx, "client deleted", slog.String("client_id", id.String()))
	return nil
}
