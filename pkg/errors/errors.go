package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrClientNotFound          = errors.New("client not found")
	ErrLoanNotFound            = errors.New("loan not found")
	ErrInstallmentNotFound     = errors.New("installment not found")
	ErrInstallmentAlreadyPaid  = errors.New("installment is already paid")
	ErrDuplicateNationalID     = errors.New("national ID already registered")
	ErrClientHasActiveLoans    = errors.New("cannot delete a client with active loans")
	ErrInvalidPrincipal        = errors.New("principal must be greater than zero")
	ErrInvalidInstallmentCount = errors.New("installment count must be greater than zero")
	ErrInvalidInterval         = errors.New("installment interval must be greater than zero")
)

// Kind classifies a business error so transport layers can map failures to a
// status without inspecting individual codes.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindNotFound
	KindConflict
)

// BusinessError represents a business logic error
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(kind Kind, code, message string, err error) *BusinessError {
	return &BusinessError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of err, or KindInternal when err carries no
// business classification.
func KindOf(err error) Kind {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

// Error codes
const (
	ErrCodeClientNotFound          = "CLIENT_NOT_FOUND"
	ErrCodeLoanNotFound            = "LOAN_NOT_FOUND"
	ErrCodeInstallmentNotFound     = "INSTALLMENT_NOT_FOUND"
	ErrCodeInstallmentAlreadyPaid  = "INSTALLMENT_ALREADY_PAID"
	ErrCodeDuplicateNationalID     = "DUPLICATE_NATIONAL_ID"
	ErrCodeClientHasActiveLoans    = "CLIENT_HAS_ACTIVE_LOANS"
	ErrCodeInvalidPrincipal        = "INVALID_PRINCIPAL"
	ErrCodeInvalidInstallmentCount = "INVALID_INSTALLMENT_COUNT"
	ErrCodeInvalidInterval         = "INVALID_INTERVAL"
	ErrCodeInvalidArgument         = "INVALID_ARGUMENT"
	ErrCodeDatabaseError           = "DATABASE_ERROR"
	ErrCodeCacheError              = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapClientNotFound(clientID string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeClientNotFound,
		fmt.Sprintf("Client with ID %s not found", clientID),
		ErrClientNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapInstallmentNotFound(installmentID string) *BusinessError {
	return NewBusinessError(
		KindNotFound,
		ErrCodeInstallmentNotFound,
		fmt.Sprintf("Installment with ID %s not found", installmentID),
		ErrInstallmentNotFound,
	)
}

func WrapInstallmentAlreadyPaid(installmentID string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeInstallmentAlreadyPaid,
		fmt.Sprintf("Installment with ID %s is already paid", installmentID),
		ErrInstallmentAlreadyPaid,
	)
}

func WrapDuplicateNationalID(nationalID string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeDuplicateNationalID,
		fmt.Sprintf("National ID %s is already registered", nationalID),
		ErrDuplicateNationalID,
	)
}

func WrapClientHasActiveLoans(clientID string) *BusinessError {
	return NewBusinessError(
		KindConflict,
		ErrCodeClientHasActiveLoans,
		fmt.Sprintf("Client with ID %s has active loans and cannot be deleted", clientID),
		ErrClientHasActiveLoans,
	)
}

func WrapInvalidPrincipal(principal string) *BusinessError {
	return NewBusinessError(
		KindInvalidArgument,
		ErrCodeInvalidPrincipal,
		fmt.Sprintf("Invalid principal amount: %s", principal),
		ErrInvalidPrincipal,
	)
}

func WrapInvalidInstallmentCount(count int) *BusinessError {
	return NewBusinessError(
		KindInvalidArgument,
		ErrCodeInvalidInstallmentCount,
		fmt.Sprintf("Invalid installment count: %d", count),
		ErrInvalidInstallmentCount,
	)
}

func WrapInvalidInterval(days int) *BusinessError {
	return NewBusinessError(
		KindInvalidArgument,
		ErrCodeInvalidInterval,
		fmt.Sprintf("Invalid installment interval: %d days", days),
		ErrInvalidInterval,
	)
}

func WrapInvalidArgument(message string) *BusinessError {
	return NewBusinessError(
		KindInvalidArgument,
		ErrCodeInvalidArgument,
		message,
		nil,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		KindInternal,
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		KindInternal,
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
