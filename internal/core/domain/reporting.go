package domain

import (
	"github.com/shopspring/decimal"
)

// ProfitLossSummary is a user's income against expenses over all time.
// The amounts are always present; no matching records means zero.
type ProfitLossSummary struct {
	UserID           string          `json:"userID"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	ProfitLoss       decimal.Decimal `json:"profitLoss"`
	PaidInvoiceCount int             `json:"paidInvoiceCount"`
	ExpenseCount     int             `json:"expenseCount"`
}
