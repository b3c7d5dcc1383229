package money

import (
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/ffelipeandres24/banco-maria/pkg/errors"
)

// MarkupRate is the fixed interest markup applied to every loan.
var MarkupRate = decimal.NewFromFloat(0.20)

// TotalPayable calculates the total amount a client owes for a loan
// Formula: Principal + Principal * MarkupRate
func TotalPayable(principal decimal.Decimal) (decimal.Decimal, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, customError.WrapInvalidPrincipal(principal.String())
	}

	interest := principal.Mul(MarkupRate)
	return principal.Add(interest), nil
}

// InstallmentAmount calculates the per-installment amount
// Formula: TotalPayable / InstallmentCount, rounded to 2 decimal places
func InstallmentAmount(totalPayable decimal.Decimal, count int) (decimal.Decimal, error) {
	if count <= 0 {
		return decimal.Zero, customError.WrapInvalidInstallmentCount(count)
	}

	amount := totalPayable.Div(decimal.NewFromInt(int64(count)))
	return amount.Round(2), nil
}

// DueDate calculates the due date for an installment
// Installment 1 is due intervalDays after the start date, installment 2 after
// twice that, and so on. Calendar-day arithmetic, no timezone adjustment.
func DueDate(startDate time.Time, sequenceNumber int, intervalDays int) time.Time {
	return startDate.AddDate(0, 0, sequenceNumber*intervalDays)
}
