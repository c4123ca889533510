package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a row of the expenses table.
type Expense struct {
	ExpenseID   string          `json:"expenseID"`
	UserID      string          `json:"userID"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expenseDate"`
	AuditFields
}
