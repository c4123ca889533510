package handlers_test

import (
	"context"

	"github.com/SscSPs/billing_app/internal/core/domain"
	portssvc "github.com/SscSPs/billing_app/internal/core/ports/services"
	"github.com/SscSPs/billing_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) invoiceResult(args mock.Arguments) (*domain.Invoice, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoiceByID(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, invoiceID, userID))
}
func (m *MockInvoiceService) ListInvoices(ctx context.Context, userID string) ([]*domain.Invoice, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) GetPaymentDetails(ctx context.Context, invoiceID string, userID string) (*domain.PaymentDetails, error) {
	args := m.Called(ctx, invoiceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentDetails), args.Error(1)
}
func (m *MockInvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, req, userID))
}
func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, invoiceID, req, userID))
}
func (m *MockInvoiceService) DeleteInvoice(ctx context.Context, invoiceID string, userID string) error {
	return m.Called(ctx, invoiceID, userID).Error(0)
}
func (m *MockInvoiceService) AddItem(ctx context.Context, invoiceID string, req dto.CreateLineItemRequest, userID string) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, invoiceID, req, userID))
}
func (m *MockInvoiceService) RemoveItem(ctx context.Context, invoiceID string, itemID string, userID string) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, invoiceID, itemID, userID))
}
func (m *MockInvoiceService) MarkPaid(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, invoiceID, userID))
}
func (m *MockInvoiceService) MarkUnpaid(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, invoiceID, userID))
}

// Ensure mock implements the interface
var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock ExpenseService ---
type MockExpenseService struct {
	mock.Mock
}

func (m *MockExpenseService) GetExpenseByID(ctx context.Context, expenseID string, userID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseService) ListExpenses(ctx context.Context, userID string, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListExpensesResponse), args.Error(1)
}
func (m *MockExpenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, userID string) (*domain.Expense, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockExpenseService) DeleteExpense(ctx context.Context, expenseID string, userID string) error {
	return m.Called(ctx, expenseID, userID).Error(0)
}

var _ portssvc.ExpenseSvcFacade = (*MockExpenseService)(nil)

// --- Mock DashboardService ---
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) GetProfitLoss(ctx context.Context, userID string) (*domain.ProfitLossSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfitLossSummary), args.Error(1)
}

var _ portssvc.DashboardService = (*MockDashboardService)(nil)
