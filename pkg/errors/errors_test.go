package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(WrapClientNotFound("abc")))
	assert.Equal(t, KindConflict, KindOf(WrapDuplicateNationalID("123")))
	assert.Equal(t, KindConflict, KindOf(WrapInstallmentAlreadyPaid("abc")))
	assert.Equal(t, KindInvalidArgument, KindOf(WrapInvalidPrincipal("-1")))
	assert.Equal(t, KindInternal, KindOf(WrapDatabaseError(errors.New("boom"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain error")))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("handling request: %w", WrapLoanNotFound("abc"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, errors.Is(err, ErrLoanNotFound))
}

func TestBusinessError_Message(t *testing.T) {
	err := WrapInstallmentNotFound("xyz")
	assert.Contains(t, err.Error(), "INSTALLMENT_NOT_FOUND")
	assert.Contains(t, err.Error(), "xyz")
	assert.True(t, errors.Is(err, ErrInstallmentNotFound))
}
