package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is money spent by a user, recorded independently of invoices.
// A positive amount means money spent; the sign is recorded as given.
// An expense has no mutators: it is read-only once created.
type Expense struct {
	expenseID   string
	userID      string
	description string
	amount      decimal.Decimal
	date        time.Time
	AuditFields
}

// ExpenseRecord is a flat copy of an expense used at persistence boundaries.
type ExpenseRecord struct {
	ExpenseID   string
	UserID      string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	AuditFields
}

// NewExpense validates the input and creates an expense with a fresh identifier.
func NewExpense(userID, description string, amount decimal.Decimal, date time.Time) (*Expense, error) {
	return RestoreExpense(ExpenseRecord{
		ExpenseID:   uuid.NewString(),
		UserID:      userID,
		Description: description,
		Amount:      amount,
		Date:        date,
	})
}

// RestoreExpense rebuilds a previously persisted expense with the same validation as NewExpense.
func RestoreExpense(rec ExpenseRecord) (*Expense, error) {
	if err := requireText(rec.ExpenseID, "expense ID"); err != nil {
		return nil, err
	}
	if err := requireText(rec.UserID, "user ID"); err != nil {
		return nil, err
	}
	if err := requireText(rec.Description, "expense description"); err != nil {
		return nil, err
	}
	return &Expense{
		expenseID:   rec.ExpenseID,
		userID:      rec.UserID,
		description: rec.Description,
		amount:      rec.Amount,
		date:        rec.Date,
		AuditFields: rec.AuditFields,
	}, nil
}

func (e *Expense) ExpenseID() string { return e.expenseID }

func (e *Expense) UserID() string { return e.userID }

func (e *Expense) Description() string { return e.description }

func (e *Expense) Amount() decimal.Decimal { return e.amount }

func (e *Expense) Date() time.Time { return e.date }

// Record returns a detached copy of the expense state.
func (e *Expense) Record() ExpenseRecord {
	return ExpenseRecord{
		ExpenseID:   e.expenseID,
		UserID:      e.userID,
		Description: e.description,
		Amount:      e.amount,
		Date:        e.date,
		AuditFields: e.AuditFields,
	}
}
