package repositories

import (
	"context"

	"github.com/SscSPs/billing_app/internal/core/domain"
)

// ExpenseReader defines read operations for expense data
type ExpenseReader interface {
	// FindExpenseByID retrieves a specific expense by its unique identifier.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesByUserID retrieves every expense recorded by a user.
	ListExpensesByUserID(ctx context.Context, userID string) ([]domain.Expense, error)

	// ListExpensesPage retrieves a page of a user's expenses ordered by date (newest first) using token-based pagination.
	// It returns the expenses, a token for the next page, and an error.
	ListExpensesPage(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Expense, *string, error)
}

// ExpenseWriter defines write operations for expense data
type ExpenseWriter interface {
	// SaveExpense persists a new expense.
	SaveExpense(ctx context.Context, expense *domain.Expense) error

	// DeleteExpense removes an expense by ID.
	DeleteExpense(ctx context.Context, expenseID string) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
