package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/SscSPs/billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/billing_app/internal/core/ports/repositories"
	"github.com/SscSPs/billing_app/internal/models"
	"github.com/SscSPs/billing_app/internal/utils/mapping"
	"github.com/SscSPs/billing_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const selectExpenseColumns = `
	SELECT expense_id, user_id, description, amount, expense_date,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM expenses`

// SaveExpense inserts a new expense.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense *domain.Expense) error {
	m := mapping.ToModelExpense(expense)
	query := `
		INSERT INTO expenses (expense_id, user_id, description, amount, expense_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ExpenseID,
		m.UserID,
		m.Description,
		m.Amount,
		m.ExpenseDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to insert expense "+m.ExpenseID, err)
	}
	return nil
}

// FindExpenseByID retrieves an expense by its ID.
func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	m, err := scanExpense(r.Pool.QueryRow(ctx, selectExpenseColumns+` WHERE expense_id = $1;`, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find expense by ID "+expenseID, err)
	}
	expense, err := mapping.ToDomainExpense(m)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "stored expense "+expenseID+" is invalid", err)
	}
	return expense, nil
}

// ListExpensesByUserID retrieves every expense of a user.
func (r *PgxExpenseRepository) ListExpensesByUserID(ctx context.Context, userID string) ([]domain.Expense, error) {
	rows, err := r.Pool.Query(ctx, selectExpenseColumns+` WHERE user_id = $1 ORDER BY expense_date DESC, created_at DESC, expense_id DESC;`, userID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query expenses for user "+userID, err)
	}
	defer rows.Close()

	expenses, err := collectExpenses(rows)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to read expenses for user "+userID, err)
	}
	return toDomainExpenses(expenses)
}

// ListExpensesPage retrieves a page of a user's expenses using keyset pagination on
// (expense_date, created_at, expense_id), all descending.
func (r *PgxExpenseRepository) ListExpensesPage(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := selectExpenseColumns + ` WHERE user_id = $1`
	orderByClause := `ORDER BY expense_date DESC, created_at DESC, expense_id DESC`
	args := []any{userID}

	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, decodeErr)
		}
		// Tuple comparison keeps the cursor condition concise
		baseQuery += ` AND (expense_date, created_at, expense_id) < ($2, $3, $4)`
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
	}

	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query expenses for user "+userID, err)
	}
	defer rows.Close()

	expenses, err := collectExpenses(rows)
	if err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to read expenses for user "+userID, err)
	}

	var nextTokenVal *string
	if len(expenses) > limit {
		expenses = expenses[:limit]
		last := expenses[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.ExpenseDate, CreatedAt: last.CreatedAt, ID: last.ExpenseID})
		nextTokenVal = &token
	}
	page, err := toDomainExpenses(expenses)
	if err != nil {
		return nil, nil, err
	}
	return page, nextTokenVal, nil
}

// DeleteExpense removes an expense by ID.
func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete expense "+expenseID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	return nil
}

func collectExpenses(rows pgx.Rows) ([]models.Expense, error) {
	expenses := []models.Expense{}
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, m)
	}
	return expenses, rows.Err()
}

func toDomainExpenses(expenses []models.Expense) ([]domain.Expense, error) {
	ds, err := mapping.ToDomainExpenseSlice(expenses)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "stored expense is invalid", err)
	}
	return ds, nil
}

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.UserID,
		&m.Description,
		&m.Amount,
		&m.ExpenseDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
