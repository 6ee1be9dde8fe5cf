package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/loan-ledger/internal/domain"
)

// Every method is scoped by ownerID. Lookups of a missing or foreign record
// return sql.ErrNoRows.

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	// Create creates a new client
	Create(ctx context.Context, client *domain.Client) error

	// GetByID retrieves a client by its ID
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Client, error)

	// List returns every client of the owner ordered by name
	List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Client, error)

	// Search matches term against name, document and phone
	Search(ctx context.Context, ownerID uuid.UUID, term string) ([]*domain.Client, error)

	// Update updates a client
	Update(ctx context.Context, client *domain.Client) error

	// Delete removes a client and, by cascade, its loans and payments
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// Count returns how many clients the owner has
	Count(ctx context.Context, ownerID uuid.UUID) (int, error)
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Loan, error)

	// List returns every loan of the owner, newest first
	List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Loan, error)

	// ListByClient returns the loans of one client
	ListByClient(ctx context.Context, ownerID, clientID uuid.UUID) ([]*domain.Loan, error)

	// ListByStatus returns loans whose stored status equals status
	ListByStatus(ctx context.Context, ownerID uuid.UUID, status string) ([]*domain.Loan, error)

	// ListOverdue returns active loans whose due date is before now
	ListOverdue(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]*domain.Loan, error)

	// Update updates a loan
	Update(ctx context.Context, loan *domain.Loan) error

	// Delete removes a loan and, by cascade, its payments
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ListOwners returns every owner that has at least one loan
	ListOwners(ctx context.Context) ([]uuid.UUID, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by its ID
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Payment, error)

	// List returns every payment of the owner, most recent first
	List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Payment, error)

	// ListByLoan retrieves all payments for a loan
	ListByLoan(ctx context.Context, ownerID, loanID uuid.UUID) ([]*domain.Payment, error)

	// Delete removes a payment
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// SettingRepository defines the interface for system settings
type SettingRepository interface {
	// Get retrieves a setting by key
	Get(ctx context.Context, key string) (*domain.Setting, error)

	// Set creates or replaces a setting
	Set(ctx context.Context, key, value string) error
}
