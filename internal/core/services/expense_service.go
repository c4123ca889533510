package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/SscSPs/billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/billing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billing_app/internal/core/ports/services"
	"github.com/SscSPs/billing_app/internal/dto"
)

const defaultExpensePageSize = 20

type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
}

// NewExpenseService creates a new expense service
func NewExpenseService(repo portsrepo.ExpenseRepositoryFacade) portssvc.ExpenseSvcFacade {
	return &expenseService{expenseRepo: repo}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, userID string) (*domain.Expense, error) {
	now := time.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}

	expense, err := domain.NewExpense(userID, req.Description, req.Amount, date)
	if err != nil {
		s.LogError(ctx, err, "Invalid expense request", slog.String("user_id", userID))
		return nil, err
	}
	expense.AuditFields = newAuditFields(userID, now)

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense",
			slog.String("expense_id", expense.ExpenseID()),
			slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.LogInfo(ctx, "Expense recorded successfully",
		slog.String("expense_id", expense.ExpenseID()),
		slog.String("amount", expense.Amount().String()))
	return expense, nil
}

func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string, userID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find expense", slog.String("expense_id", expenseID))
		return nil, err
	}
	if expense == nil {
		return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	if err := s.AuthorizeOwner(ctx, userID, expense.UserID(), "expense", expenseID); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, userID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultExpensePageSize
	}

	expenses, nextToken, err := s.expenseRepo.ListExpensesPage(ctx, userID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	resp := dto.ToListExpensesResponse(expenses, nextToken)
	return &resp, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, expenseID string, userID string) error {
	if _, err := s.GetExpenseByID(ctx, expenseID, userID); err != nil {
		return err
	}

	if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
		s.LogError(ctx, err, "Failed to delete expense", slog.String("expense_id", expenseID))
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	s.LogInfo(ctx, "Expense deleted successfully", slog.String("expense_id", expenseID))
	return nil
}
