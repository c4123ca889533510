package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/billing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billing_app/internal/core/ports/services"
	"github.com/SscSPs/billing_app/internal/utils/accounting"
	"golang.org/x/sync/errgroup"
)

type dashboardService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceReader
	expenseRepo portsrepo.ExpenseReader
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(invoiceRepo portsrepo.InvoiceReader, expenseRepo portsrepo.ExpenseReader) portssvc.DashboardService {
	return &dashboardService{
		invoiceRepo: invoiceRepo,
		expenseRepo: expenseRepo,
	}
}

var _ portssvc.DashboardService = (*dashboardService)(nil)

func (s *dashboardService) GetProfitLoss(ctx context.Context, userID string) (*domain.ProfitLossSummary, error) {
	var (
		invoices []*domain.Invoice
		expenses []domain.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invoices, err = s.invoiceRepo.ListInvoicesByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load invoices: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenses, err = s.expenseRepo.ListExpensesByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load expenses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to build profit and loss summary", slog.String("user_id", userID))
		return nil, err
	}

	summary := accounting.Summarize(userID, invoices, expenses)

	s.LogDebug(ctx, "Profit and loss summary computed",
		slog.String("user_id", userID),
		slog.Int("paid_invoices", summary.PaidInvoiceCount),
		slog.Int("expenses", summary.ExpenseCount),
		slog.String("profit_loss", summary.ProfitLoss.String()))
	return &summary, nil
}
