package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ffelipeandres24/banco-maria/internal/domain"
)

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	// Create inserts a new client
	Create(ctx context.Context, client *domain.Client) error

	// GetByID retrieves a client by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)

	// Update updates a client's identity fields
	Update(ctx context.Context, client *domain.Client) error

	// Delete removes a client; blocked by the database while loans reference it
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns all clients ordered by name
	List(ctx context.Context) ([]*domain.Client, error)
}

// LoanRepository defines the interface for loan and installment data operations
type LoanRepository interface {
	// CreateWithSchedule inserts a loan and its full installment schedule in
	// one transaction
	CreateWithSchedule(ctx context.Context, loan *domain.Loan, schedule []*domain.Installment) error

	// GetByID retrieves a loan by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetScheduleByLoanID retrieves a loan's installments ordered by sequence
	GetScheduleByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error)

	// PayInstallment marks an installment paid and decrements the owning
	// loan's outstanding balance in one transaction; closes the loan when the
	// balance reaches zero
	PayInstallment(ctx context.Context, installmentID uuid.UUID, paidAt time.Time) (*domain.Installment, error)
}

// ReportRepository defines the interface for the read-only reporting queries
type ReportRepository interface {
	// ListDueInstallments returns unpaid installments of active loans due on
	// or before asOf, ordered by due date
	ListDueInstallments(ctx context.Context, asOf time.Time) ([]*domain.DueInstallment, error)

	// GetPortfolio returns one row per client with aggregate loan figures
	GetPortfolio(ctx context.Context) ([]*domain.PortfolioRow, error)

	// GetPaymentHistory returns a client's paid installments, most recent first
	GetPaymentHistory(ctx context.Context, clientID uuid.UUID) ([]*domain.PaymentRecord, error)
}

// Cache defines the interface for the collections cache
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// DelByPrefix removes every key starting with prefix, so a mutation can
	// invalidate the cached collections of all dates at once
	DelByPrefix(ctx context.Context, prefix string) error
}
