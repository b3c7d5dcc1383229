package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ffelipeandres24/banco-maria/internal/domain"
)

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) ListDueInstallments(ctx context.Context, asOf time.Time) ([]*domain.DueInstallment, error) {
	query := `
		SELECT i.id AS installment_id, c.name AS client_name, c.phone,
			i.sequence_number, i.amount, i.due_date
		FROM installments i
		JOIN loans l ON i.loan_id = l.id
		JOIN clients c ON l.client_id = c.id
		WHERE i.paid = FALSE AND i.due_date <= $1 AND l.status = $2
		ORDER BY i.due_date ASC
	`

	collections := []*domain.DueInstallment{}
	err := r.db.SelectContext(ctx, &collections, query, asOf, domain.LoanStatusActive)
	if err != nil {
		return nil, err
	}

	return collections, nil
}

// GetPortfolio joins only active loans, so a fully paid (closed) loan drops
// out of the totals and its client shows up like one with no loans.
func (r *reportRepository) GetPortfolio(ctx context.Context) ([]*domain.PortfolioRow, error) {
	query := `
		SELECT c.id AS client_id, c.name, c.national_id, c.phone,
			MAX(l.start_date) AS last_loan_date,
			COALESCE(SUM(l.outstanding_balance), 0) AS total_outstanding,
			COALESCE((
				SELECT COUNT(*)
				FROM installments i
				JOIN loans l2 ON i.loan_id = l2.id
				WHERE l2.client_id = c.id AND i.paid = FALSE AND l2.status = $1
			), 0) AS missing_installments
		FROM clients c
		LEFT JOIN loans l ON l.client_id = c.id AND l.status = $1
		GROUP BY c.id, c.name, c.national_id, c.phone
		ORDER BY c.name ASC
	`

	portfolio := []*domain.PortfolioRow{}
	err := r.db.SelectContext(ctx, &portfolio, query, domain.LoanStatusActive)
	if err != nil {
		return nil, err
	}

	return portfolio, nil
}

func (r *reportRepository) GetPaymentHistory(ctx context.Context, clientID uuid.UUID) ([]*domain.PaymentRecord, error) {
	query := `
		SELECT i.sequence_number, i.amount, i.paid_at
		FROM installments i
		JOIN loans l ON i.loan_id = l.id
		WHERE l.client_id = $1 AND i.paid = TRUE
		ORDER BY i.paid_at DESC
	`

	history := []*domain.PaymentRecord{}
	err := r.db.SelectContext(ctx, &history, query, clientID)
	if err != nil {
		return nil, err
	}

	return history, nil
}
