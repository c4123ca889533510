package accounting

import (
	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Summarize computes the profit/loss summary of userID from the given invoices and expenses.
// Only Paid invoices owned by the user count as income; every expense owned by the user counts
// as a cost. Records of other users are ignored, and no matching records yields zero amounts.
// Inputs are not modified.
func Summarize(userID string, invoices []*domain.Invoice, expenses []domain.Expense) domain.ProfitLossSummary {
	summary := domain.ProfitLossSummary{
		UserID:        userID,
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, inv := range invoices {
		if inv == nil || inv.UserID() != userID || inv.Status() != domain.Paid {
			continue
		}
		summary.TotalIncome = summary.TotalIncome.Add(inv.Total())
		summary.PaidInvoiceCount++
	}

	for _, e := range expenses {
		if e.UserID() != userID {
			continue
		}
		summary.TotalExpenses = summary.TotalExpenses.Add(e.Amount())
		summary.ExpenseCount++
	}

	summary.ProfitLoss = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary
}
