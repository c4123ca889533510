package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpense(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("valid expense", func(t *testing.T) {
		e, err := domain.NewExpense("user_123", "Office rent", decimal.RequireFromString("1200.00"), date)
		require.NoError(t, err)
		assert.NotEmpty(t, e.ExpenseID())
		assert.Equal(t, "user_123", e.UserID())
		assert.Equal(t, "Office rent", e.Description())
		assert.Equal(t, date, e.Date())
	})

	t.Run("negative amount is recorded as given", func(t *testing.T) {
		e, err := domain.NewExpense("user_123", "Refund", decimal.RequireFromString("-15.00"), date)
		require.NoError(t, err)
		assertDecimal(t, "-15.00", e.Amount())
	})

	t.Run("empty description", func(t *testing.T) {
		_, err := domain.NewExpense("user_123", " ", decimal.NewFromInt(5), date)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Contains(t, err.Error(), "expense description is required")
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := domain.NewExpense("", "Paper", decimal.NewFromInt(5), date)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestRestoreExpense(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	rec := domain.ExpenseRecord{
		ExpenseID:   "exp-1",
		UserID:      "user_123",
		Description: "Office rent",
		Amount:      decimal.RequireFromString("1200.00"),
		Date:        date,
		AuditFields: domain.AuditFields{CreatedBy: "user_123"},
	}

	e, err := domain.RestoreExpense(rec)
	require.NoError(t, err)
	assert.Equal(t, "exp-1", e.ExpenseID())
	assert.Equal(t, rec, e.Record())

	rec.ExpenseID = ""
	_, err = domain.RestoreExpense(rec)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestExpense_RecordIsDetached(t *testing.T) {
	e, err := domain.NewExpense("user_123", "Paper", decimal.NewFromInt(5), time.Now())
	require.NoError(t, err)

	rec := e.Record()
	rec.Description = "Changed"
	rec.Amount = decimal.NewFromInt(500)

	assert.Equal(t, "Paper", e.Description())
	assertDecimal(t, "5", e.Amount())
}
