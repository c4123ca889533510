package services

import (
	"context"

	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/SscSPs/billing_app/internal/dto"
)

// ExpenseReaderSvc defines read operations for expenses
type ExpenseReaderSvc interface {
	// GetExpenseByID retrieves an expense owned by the user.
	GetExpenseByID(ctx context.Context, expenseID string, userID string) (*domain.Expense, error)

	// ListExpenses retrieves a page of the user's expenses, newest first.
	ListExpenses(ctx context.Context, userID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error)
}

// ExpenseWriterSvc defines write operations for expenses
type ExpenseWriterSvc interface {
	// CreateExpense records a new expense for the user.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, userID string) (*domain.Expense, error)

	// DeleteExpense removes an expense owned by the user.
	DeleteExpense(ctx context.Context, expenseID string, userID string) error
}

// ExpenseSvcFacade combines all expense-related service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
