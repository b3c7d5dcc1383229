package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive = "active"
	LoanStatusClosed = "closed"
)

// Loan represents a disbursed loan with its repayment terms
type Loan struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	ClientID           uuid.UUID       `json:"client_id" db:"client_id"`
	Principal          decimal.Decimal `json:"principal" db:"principal"`
	TotalPayable       decimal.Decimal `json:"total_payable" db:"total_payable"`
	InstallmentCount   int             `json:"installment_count" db:"installment_count"`
	InstallmentAmount  decimal.Decimal `json:"installment_amount" db:"installment_amount"`
	IntervalDays       int             `json:"interval_days" db:"interval_days"`
	StartDate          time.Time       `json:"start_date" db:"start_date"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance" db:"outstanding_balance"`
	Status             string          `json:"status" db:"status"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	ClientID         uuid.UUID       `json:"client_id" validate:"required"`
	Principal        decimal.Decimal `json:"principal" validate:"required,gt=0"`
	InstallmentCount int             `json:"installment_count" validate:"required,gt=0"`
	IntervalDays     int             `json:"interval_days" validate:"required,gt=0"`
	StartDate        time.Time       `json:"start_date" validate:"required"`
}

type CreateLoanResponse struct {
	Loan     *Loan          `json:"loan"`
	Schedule []*Installment `json:"schedule"`
}
