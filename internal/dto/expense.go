package dto

import (
	"time"

	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to record an expense.
// Date defaults to the current time when omitted.
type CreateExpenseRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID   string          `json:"expenseID"`
	UserID      string          `json:"userID"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:   e.ExpenseID(),
		UserID:      e.UserID(),
		Description: e.Description(),
		Amount:      e.Amount(),
		Date:        e.Date(),
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
	}
}

// ToListExpensesResponse converts a page of domain expenses to ListExpensesResponse.
func ToListExpensesResponse(expenses []domain.Expense, nextToken *string) ListExpensesResponse {
	list := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		list[i] = ToExpenseResponse(&expenses[i])
	}
	return ListExpensesResponse{Expenses: list, NextToken: nextToken}
}
