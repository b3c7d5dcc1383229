package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DueInstallment is a row of the due-and-overdue collections report: an
// unpaid installment of an active loan enriched with the client's contact
// details so the lender can follow up.
type DueInstallment struct {
	InstallmentID  uuid.UUID       `json:"installment_id" db:"installment_id"`
	ClientName     string          `json:"client_name" db:"client_name"`
	Phone          string          `json:"phone" db:"phone"`
	SequenceNumber int             `json:"sequence_number" db:"sequence_number"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	DueDate        time.Time       `json:"due_date" db:"due_date"`
}

// PortfolioRow summarizes one client's position. Clients with no active loan
// still appear, with zero totals and a null last loan date.
type PortfolioRow struct {
	ClientID            uuid.UUID       `json:"client_id" db:"client_id"`
	Name                string          `json:"name" db:"name"`
	NationalID          string          `json:"national_id" db:"national_id"`
	Phone               string          `json:"phone" db:"phone"`
	LastLoanDate        *time.Time      `json:"last_loan_date" db:"last_loan_date"`
	TotalOutstanding    decimal.Decimal `json:"total_outstanding" db:"total_outstanding"`
	MissingInstallments int             `json:"missing_installments" db:"missing_installments"`
}

// PaymentRecord is one paid installment in a client's payment history.
type PaymentRecord struct {
	SequenceNumber int             `json:"sequence_number" db:"sequence_number"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	PaidAt         time.Time       `json:"paid_at" db:"paid_at"`
}

type CollectionsResponse struct {
	AsOf        time.Time         `json:"as_of"`
	Collections []*DueInstallment `json:"collections"`
}

type PaymentHistoryResponse struct {
	ClientID uuid.UUID        `json:"client_id"`
	Payments []*PaymentRecord `json:"payments"`
}
