package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/SscSPs/billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/billing_app/internal/core/ports/repositories"
	"github.com/SscSPs/billing_app/internal/models"
	"github.com/SscSPs/billing_app/internal/utils/mapping"
	"github.com/SscSPs/billing_app/internal/utils/pagination"
)

// ExpenseRepository implements portsrepo.ExpenseRepositoryFacade on SQLite.
type ExpenseRepository struct {
	db *sql.DB
}

var _ portsrepo.ExpenseRepositoryFacade = (*ExpenseRepository)(nil)

const selectExpenseColumns = `
	SELECT expense_id, user_id, description, amount, expense_date,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM expenses`

const expenseOrder = ` ORDER BY expense_date DESC, created_at DESC, expense_id DESC`

func (r *ExpenseRepository) SaveExpense(ctx context.Context, expense *domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (expense_id, user_id, description, amount, expense_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ExpenseID,
		m.UserID,
		m.Description,
		m.Amount,
		formatTime(m.ExpenseDate),
		formatTime(m.CreatedAt),
		m.CreatedBy,
		formatTime(m.LastUpdatedAt),
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert expense %s: %w", m.ExpenseID, err)
	}
	return nil
}

func (r *ExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	m, err := scanExpense(r.db.QueryRowContext(ctx, selectExpenseColumns+` WHERE expense_id = ?`, expenseID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
		}
		return nil, fmt.Errorf("find expense %s: %w", expenseID, err)
	}
	expense, err := mapping.ToDomainExpense(m)
	if err != nil {
		return nil, fmt.Errorf("stored expense %s is invalid: %w", expenseID, err)
	}
	return expense, nil
}

func (r *ExpenseRepository) ListExpensesByUserID(ctx context.Context, userID string) ([]domain.Expense, error) {
	expenses, err := r.query(ctx, selectExpenseColumns+` WHERE user_id = ?`+expenseOrder, userID)
	if err != nil {
		return nil, err
	}
	return toDomainExpenses(expenses)
}

func (r *ExpenseRepository) ListExpensesPage(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	query := selectExpenseColumns + ` WHERE user_id = ?`
	args := []any{userID}

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (expense_date, created_at, expense_id) < (?, ?, ?)`
		args = append(args, formatTime(cursor.Date), formatTime(cursor.CreatedAt), cursor.ID)
	}
	query += expenseOrder + ` LIMIT ?`
	args = append(args, limit+1)

	expenses, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(expenses) > limit {
		expenses = expenses[:limit]
		last := expenses[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.ExpenseDate, CreatedAt: last.CreatedAt, ID: last.ExpenseID})
		next = &token
	}
	page, err := toDomainExpenses(expenses)
	if err != nil {
		return nil, nil, err
	}
	return page, next, nil
}

func (r *ExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE expense_id = ?`, expenseID)
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", expenseID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %s: %w", expenseID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	return nil
}

func (r *ExpenseRepository) query(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense row: %w", err)
		}
		expenses = append(expenses, m)
	}
	return expenses, rows.Err()
}

func toDomainExpenses(expenses []models.Expense) ([]domain.Expense, error) {
	ds, err := mapping.ToDomainExpenseSlice(expenses)
	if err != nil {
		return nil, fmt.Errorf("stored expense is invalid: %w", err)
	}
	return ds, nil
}

func scanExpense(row rowScanner) (models.Expense, error) {
	var (
		m                                   models.Expense
		expenseDate, createdAt, lastUpdated string
	)
	err := row.Scan(
		&m.ExpenseID,
		&m.UserID,
		&m.Description,
		&m.Amount,
		&expenseDate,
		&createdAt,
		&m.CreatedBy,
		&lastUpdated,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Expense{}, err
	}
	if m.ExpenseDate, err = parseTime(expenseDate); err != nil {
		return models.Expense{}, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Expense{}, err
	}
	if m.LastUpdatedAt, err = parseTime(lastUpdated); err != nil {
		return models.Expense{}, err
	}
	return m, nil
}
