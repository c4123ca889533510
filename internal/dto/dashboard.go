package dto

import (
	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProfitLossResponse represents the dashboard profit and loss summary
type ProfitLossResponse struct {
	UserID           string          `json:"userID"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	ProfitLoss       decimal.Decimal `json:"profitLoss"`
	PaidInvoiceCount int             `json:"paidInvoiceCount"`
	ExpenseCount     int             `json:"expenseCount"`
}

// ToProfitLossResponse converts a domain.ProfitLossSummary to its response DTO.
func ToProfitLossResponse(s *domain.ProfitLossSummary) ProfitLossResponse {
	return ProfitLossResponse{
		UserID:           s.UserID,
		TotalIncome:      s.TotalIncome,
		TotalExpenses:    s.TotalExpenses,
		ProfitLoss:       s.ProfitLoss,
		PaidInvoiceCount: s.PaidInvoiceCount,
		ExpenseCount:     s.ExpenseCount,
	}
}
