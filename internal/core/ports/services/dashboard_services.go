package services

import (
	"context"

	"github.com/SscSPs/billing_app/internal/core/domain"
)

// DashboardService defines the aggregated financial views of a user
type DashboardService interface {
	// GetProfitLoss sums paid invoice totals as income and subtracts the user's expenses.
	GetProfitLoss(ctx context.Context, userID string) (*domain.ProfitLossSummary, error)
}
