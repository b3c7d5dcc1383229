package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ffelipeandres24/banco-maria/internal/domain"
	customError "github.com/ffelipeandres24/banco-maria/pkg/errors"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) CreateWithSchedule(ctx context.Context, loan *domain.Loan, schedule []*domain.Installment) error {
	loanQuery := `
		INSERT INTO loans (id, client_id, principal, total_payable, installment_count,
			installment_amount, interval_days, start_date, outstanding_balance, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	installmentQuery := `
		INSERT INTO installments (id, loan_id, sequence_number, amount, due_date, paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, loanQuery,
		loan.ID,
		loan.ClientID,
		loan.Principal,
		loan.TotalPayable,
		loan.InstallmentCount,
		loan.InstallmentAmount,
		loan.IntervalDays,
		loan.StartDate,
		loan.OutstandingBalance,
		loan.Status,
		loan.CreatedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, installment := range schedule {
		_, err = tx.ExecContext(ctx, installmentQuery,
			installment.ID,
			installment.LoanID,
			installment.SequenceNumber,
			installment.Amount,
			installment.DueDate,
			installment.Paid,
			installment.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, client_id, principal, total_payable, installment_count,
			installment_amount, interval_days, start_date, outstanding_balance, status,
			created_at, updated_at
		FROM loans
		WHERE id = $1
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapLoanNotFound(id.String())
	}
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetScheduleByLoanID(ctx context.Context, loanID uuid.UUID) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, sequence_number, amount, due_date, paid, paid_at, created_at
		FROM installments
		WHERE loan_id = $1
		ORDER BY sequence_number
	`

	var schedule []*domain.Installment
	err := r.db.SelectContext(ctx, &schedule, query, loanID)
	if err != nil {
		return nil, err
	}

	return schedule, nil
}

// PayInstallment flips the paid flag, stamps the payment time and decrements
// the owning loan's balance in one transaction. The installment row is locked
// first so a concurrent payment of the same installment cannot decrement twice.
func (r *loanRepository) PayInstallment(ctx context.Context, installmentID uuid.UUID, paidAt time.Time) (*domain.Installment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var installment domain.Installment
	err = tx.GetContext(ctx, &installment, `
		SELECT id, loan_id, sequence_number, amount, due_date, paid, paid_at, created_at
		FROM installments
		WHERE id = $1
		FOR UPDATE
	`, installmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapInstallmentNotFound(installmentID.String())
	}
	if err != nil {
		return nil, err
	}

	if installment.Paid {
		return nil, customError.WrapInstallmentAlreadyPaid(installmentID.String())
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE installments
		SET paid = TRUE, paid_at = $2
		WHERE id = $1
	`, installmentID, paidAt)
	if err != nil {
		return nil, err
	}

	// Rounded installment amounts can sum to slightly less than the total, so
	// a loan also closes once its last installment is paid, not only when the
	// balance hits zero; the sub-cent residue is written off with it. The
	// balance is clamped so rounding the other way can never leave it negative.
	_, err = tx.ExecContext(ctx, `
		UPDATE loans
		SET outstanding_balance = CASE
				WHEN NOT EXISTS (SELECT 1 FROM installments WHERE loan_id = $1 AND paid = FALSE) THEN 0
				ELSE GREATEST(outstanding_balance - $2, 0)
			END,
			status = CASE
				WHEN outstanding_balance - $2 <= 0 THEN $3
				WHEN NOT EXISTS (SELECT 1 FROM installments WHERE loan_id = $1 AND paid = FALSE) THEN $3
				ELSE status
			END,
			updated_at = $4
		WHERE id = $1
	`, installment.LoanID, installment.Amount, domain.LoanStatusClosed, paidAt)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	installment.Paid = true
	installment.PaidAt = &paidAt
	return &installment, nil
}
