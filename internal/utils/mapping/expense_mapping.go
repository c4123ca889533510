package mapping

import (
	"fmt"

	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/SscSPs/billing_app/internal/models"
)

// ToModelExpense converts a domain Expense to a model Expense
func ToModelExpense(d *domain.Expense) models.Expense {
	rec := d.Record()
	return models.Expense{
		ExpenseID:   rec.ExpenseID,
		UserID:      rec.UserID,
		Description: rec.Description,
		Amount:      rec.Amount,
		ExpenseDate: rec.Date,
		AuditFields: ToModelAuditFields(rec.AuditFields),
	}
}

// ToDomainExpense rebuilds a domain Expense from its row
func ToDomainExpense(m models.Expense) (*domain.Expense, error) {
	expense, err := domain.RestoreExpense(domain.ExpenseRecord{
		ExpenseID:   m.ExpenseID,
		UserID:      m.UserID,
		Description: m.Description,
		Amount:      m.Amount,
		Date:        m.ExpenseDate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	})
	if err != nil {
		return nil, fmt.Errorf("restore expense %s: %w", m.ExpenseID, err)
	}
	return expense, nil
}

// ToDomainExpenseSlice converts a slice of model Expense to domain Expense
func ToDomainExpenseSlice(ms []models.Expense) ([]domain.Expense, error) {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		d, err := ToDomainExpense(m)
		if err != nil {
			return nil, err
		}
		ds[i] = *d
	}
	return ds, nil
}
