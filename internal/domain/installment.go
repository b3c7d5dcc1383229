package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment represents one scheduled repayment of a loan
type Installment struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	LoanID         uuid.UUID       `json:"loan_id" db:"loan_id"`
	SequenceNumber int             `json:"sequence_number" db:"sequence_number"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	DueDate        time.Time       `json:"due_date" db:"due_date"`
	Paid           bool            `json:"paid" db:"paid"`
	PaidAt         *time.Time      `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
