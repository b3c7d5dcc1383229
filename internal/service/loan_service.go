package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ffelipeandres24/banco-maria/internal/config"
	"github.com/ffelipeandres24/banco-maria/internal/domain"
	"github.com/ffelipeandres24/banco-maria/internal/repository"
	customError "github.com/ffelipeandres24/banco-maria/pkg/errors"
	"github.com/ffelipeandres24/banco-maria/pkg/money"
)

const (
	collectionsCachePrefix    = "collections:"
	collectionsCacheKeyFormat = collectionsCachePrefix + "2006-01-02"
)

// LoanService owns the loan lifecycle: disbursement with schedule generation,
// installment payments and the derived reporting queries.
type LoanService struct {
	loanRepo   repository.LoanRepository
	clientRepo repository.ClientRepository
	reportRepo repository.ReportRepository
	cache      repository.Cache
	config     *config.Config
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	clientRepo repository.ClientRepository,
	reportRepo repository.ReportRepository,
	cache repository.Cache,
	config *config.Config,
) *LoanService {
	return &LoanService{
		loanRepo:   loanRepo,
		clientRepo: clientRepo,
		reportRepo: reportRepo,
		cache:      cache,
		config:     config,
	}
}

// CreateLoan creates a new loan and its full installment schedule
func (s *LoanService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, []*domain.Installment, error) {
	if request.IntervalDays <= 0 {
		return nil, nil, customError.WrapInvalidInterval(request.IntervalDays)
	}

	// The client must exist before any money moves
	client, err := s.clientRepo.GetByID(ctx, request.ClientID)
	if err != nil {
		return nil, nil, err
	}

	totalPayable, err := money.TotalPayable(request.Principal)
	if err != nil {
		return nil, nil, err
	}

	installmentAmount, err := money.InstallmentAmount(totalPayable, request.InstallmentCount)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	loan := &domain.Loan{
		ID:                 uuid.New(),
		ClientID:           client.ID,
		Principal:          request.Principal,
		TotalPayable:       totalPayable,
		InstallmentCount:   request.InstallmentCount,
		InstallmentAmount:  installmentAmount,
		IntervalDays:       request.IntervalDays,
		StartDate:          request.StartDate,
		OutstandingBalance: totalPayable,
		Status:             domain.LoanStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	schedule := make([]*domain.Installment, 0, request.InstallmentCount)
	for seq := 1; seq <= request.InstallmentCount; seq++ {
		installment := &domain.Installment{
			ID:             uuid.New(),
			LoanID:         loan.ID,
			SequenceNumber: seq,
			Amount:         installmentAmount,
			DueDate:        money.DueDate(request.StartDate, seq, request.IntervalDays),
			Paid:           false,
			CreatedAt:      now,
		}
		schedule = append(schedule, installment)
	}

	// Loan and schedule land together or not at all
	if err = s.loanRepo.CreateWithSchedule(ctx, loan, schedule); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	s.invalidateCollections(ctx)

	return loan, schedule, nil
}

// PayInstallment marks an installment as paid and decrements the owning
// loan's outstanding balance. Paying an already-paid installment fails with a
// conflict instead of decrementing the balance a second time.
func (s *LoanService) PayInstallment(ctx context.Context, installmentID uuid.UUID) (*domain.Installment, error) {
	installment, err := s.loanRepo.PayInstallment(ctx, installmentID, time.Now())
	if err != nil {
		return nil, err
	}

	s.invalidateCollections(ctx)

	return installment, nil
}

// GetSchedule returns the full installment schedule of a loan
func (s *LoanService) GetSchedule(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	if _, err := s.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}

	return s.loanRepo.GetScheduleByLoanID(ctx, loanID)
}

// Collections returns the unpaid installments of active loans due on or
// before asOf. The day's result is cached briefly since the lender's
// dashboard polls it.
func (s *LoanService) Collections(ctx context.Context, asOf time.Time) ([]*domain.DueInstallment, error) {
	cacheKey := asOf.Format(collectionsCacheKeyFormat)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var collections []*domain.DueInstallment
		if err = json.Unmarshal([]byte(cached), &collections); err == nil {
			return collections, nil
		}
	}

	collections, err := s.reportRepo.ListDueInstallments(ctx, asOf)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if encoded, err := json.Marshal(collections); err == nil {
		if err = s.cache.Set(ctx, cacheKey, string(encoded), s.config.Cache.CollectionsTTL); err != nil {
			log.Printf("cache collections: %v", err)
		}
	}

	return collections, nil
}

// Portfolio returns one row per client with aggregate figures over that
// client's active loans. Clients without loans appear with zero totals.
func (s *LoanService) Portfolio(ctx context.Context) ([]*domain.PortfolioRow, error) {
	portfolio, err := s.reportRepo.GetPortfolio(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return portfolio, nil
}

// PaymentHistory returns all paid installments across the client's loans,
// most recent payment first
func (s *LoanService) PaymentHistory(ctx context.Context, clientID uuid.UUID) ([]*domain.PaymentRecord, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	history, err := s.reportRepo.GetPaymentHistory(ctx, clientID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return history, nil
}

// invalidateCollections drops the cached collections of every date after a
// mutation: a payment or a new loan changes the result for any asOf on or
// after the affected due dates, not just today's. Cache failures are logged
// and swallowed; the next read queries the database.
func (s *LoanService) invalidateCollections(ctx context.Context) {
	if err := s.cache.DelByPrefix(ctx, collectionsCachePrefix); err != nil {
		log.Printf("invalidate collections cache: %v", err)
	}
}
