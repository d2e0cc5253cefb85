package parking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentValidation(t *testing.T) {
	_, err := NewPayment(uuid.New(), uuid.New(), -1, "INR", MethodCash)
	var ruleErr *BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "invalid_amount", ruleErr.Code)

	_, err = NewPayment(uuid.New(), uuid.New(), 100, "", MethodCash)
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "invalid_currency", ruleErr.Code)

	p, err := NewPayment(uuid.New(), uuid.New(), 0, "INR", MethodCash)
	require.NoError(t, err)
	assert.Equal(t, PaymentInitiated, p.Status)
}

func TestPaymentSucceed(t *testing.T) {
	p, err := NewPayment(uuid.New(), uuid.New(), 4000, "INR", MethodCard)
	require.NoError(t, err)

	paidAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, p.Succeed("PAY-abc", paidAt))
	assert.Equal(t, PaymentSuccess, p.Status)
	assert.Equal(t, "PAY-abc", p.Reference)
	require.NotNil(t, p.PaidAt)
	assert.Equal(t, paidAt, *p.PaidAt)

	assert.ErrorIs(t, p.Succeed("PAY-again", paidAt), ErrConflict)
	assert.ErrorIs(t, p.Fail(), ErrConflict)
}

func TestPaymentFail(t *testing.T) {
	p, err := NewPayment(uuid.New(), uuid.New(), 4000, "INR", MethodUPI)
	require.NoError(t, err)

	require.NoError(t, p.Fail())
	assert.Equal(t, PaymentFailed, p.Status)
}
