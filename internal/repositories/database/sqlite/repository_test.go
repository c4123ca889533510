package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/SscSPs/billing_app/internal/core/domain"
	portsrepo "github.com/SscSPs/billing_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	ctx   context.Context
	repos portsrepo.RepositoryProvider
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	db, err := Open(s.ctx, filepath.Join(s.T().TempDir(), "billing.db"))
	s.Require().NoError(err)
	s.repos = NewRepositoryProvider(db)
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.NoError(s.repos.Close())
}

func (s *RepositoryTestSuite) newInvoice(userID string, prices ...string) *domain.Invoice {
	inv, err := domain.NewInvoice(userID, "Acme", decimal.RequireFromString("10"), decimal.RequireFromString("1.50"), "USD")
	s.Require().NoError(err)
	for i, p := range prices {
		item, err := domain.NewLineItem("item-"+string(rune('a'+i)), decimal.RequireFromString(p), int64(i+1))
		s.Require().NoError(err)
		inv.AddItem(item)
	}
	now := time.Now()
	inv.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	return inv
}

func (s *RepositoryTestSuite) TestSaveAndFindInvoice() {
	inv := s.newInvoice("user-1", "10.00", "2.25", "0.10")
	s.Require().NoError(s.repos.InvoiceRepo.SaveInvoice(s.ctx, inv))

	got, err := s.repos.InvoiceRepo.FindInvoiceByID(s.ctx, inv.InvoiceID())
	s.Require().NoError(err)

	s.Equal(inv.InvoiceID(), got.InvoiceID())
	s.Equal("user-1", got.UserID())
	s.Equal(domain.Unpaid, got.Status())
	s.True(inv.Total().Equal(got.Total()), "want %s got %s", inv.Total(), got.Total())
	s.Require().Len(got.Items(), 3)
	for i, item := range inv.Items() {
		s.Equal(item.ItemID(), got.Items()[i].ItemID())
		s.True(item.UnitPrice().Equal(got.Items()[i].UnitPrice()))
		s.Equal(item.Quantity(), got.Items()[i].Quantity())
	}
	s.WithinDuration(inv.CreatedAt, got.CreatedAt, time.Microsecond)
}

func (s *RepositoryTestSuite) TestFindInvoice_NotFound() {
	_, err := s.repos.InvoiceRepo.FindInvoiceByID(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *RepositoryTestSuite) TestUpdateInvoiceReplacesItems() {
	inv := s.newInvoice("user-1", "10.00", "5.00")
	s.Require().NoError(s.repos.InvoiceRepo.SaveInvoice(s.ctx, inv))

	_, err := inv.RemoveItem(inv.Items()[0].ItemID())
	s.Require().NoError(err)
	extra, err := domain.NewLineItem("extra", decimal.RequireFromString("7.00"), 1)
	s.Require().NoError(err)
	inv.AddItem(extra)
	inv.MarkPaid()
	s.Require().NoError(s.repos.InvoiceRepo.UpdateInvoice(s.ctx, inv))

	got, err := s.repos.InvoiceRepo.FindInvoiceByID(s.ctx, inv.InvoiceID())
	s.Require().NoError(err)
	s.Equal(domain.Paid, got.Status())
	s.Require().Len(got.Items(), 2)
	s.Equal("item-b", got.Items()[0].Name())
	s.Equal("extra", got.Items()[1].Name())
	s.True(inv.Total().Equal(got.Total()))
}

func (s *RepositoryTestSuite) TestUpdateInvoice_NotFound() {
	inv := s.newInvoice("user-1")
	s.ErrorIs(s.repos.InvoiceRepo.UpdateInvoice(s.ctx, inv), apperrors.ErrNotFound)
}

func (s *RepositoryTestSuite) TestListInvoicesByUser() {
	a := s.newInvoice("user-1", "1.00")
	b := s.newInvoice("user-1")
	other := s.newInvoice("user-2", "3.00")
	for _, inv := range []*domain.Invoice{a, b, other} {
		s.Require().NoError(s.repos.InvoiceRepo.SaveInvoice(s.ctx, inv))
	}

	invoices, err := s.repos.InvoiceRepo.ListInvoicesByUserID(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Len(invoices, 2)
	byID := map[string]*domain.Invoice{}
	for _, inv := range invoices {
		s.Equal("user-1", inv.UserID())
		byID[inv.InvoiceID()] = inv
	}
	s.Len(byID[a.InvoiceID()].Items(), 1)
	s.Empty(byID[b.InvoiceID()].Items())

	none, err := s.repos.InvoiceRepo.ListInvoicesByUserID(s.ctx, "nobody")
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)
}

func (s *RepositoryTestSuite) TestDeleteInvoiceCascadesItems() {
	inv := s.newInvoice("user-1", "1.00", "2.00")
	s.Require().NoError(s.repos.InvoiceRepo.SaveInvoice(s.ctx, inv))

	s.Require().NoError(s.repos.InvoiceRepo.DeleteInvoice(s.ctx, inv.InvoiceID()))

	_, err := s.repos.InvoiceRepo.FindInvoiceByID(s.ctx, inv.InvoiceID())
	s.ErrorIs(err, apperrors.ErrNotFound)

	db := s.repos.InvoiceRepo.(*InvoiceRepository).db
	var remaining int
	s.Require().NoError(db.QueryRowContext(s.ctx, `SELECT COUNT(*) FROM invoice_items WHERE invoice_id = ?`, inv.InvoiceID()).Scan(&remaining))
	s.Zero(remaining)

	s.ErrorIs(s.repos.InvoiceRepo.DeleteInvoice(s.ctx, inv.InvoiceID()), apperrors.ErrNotFound)
}

func (s *RepositoryTestSuite) saveExpense(userID, amount string, date time.Time) *domain.Expense {
	e, err := domain.NewExpense(userID, "expense "+amount, decimal.RequireFromString(amount), date)
	s.Require().NoError(err)
	now := time.Now()
	e.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	s.Require().NoError(s.repos.ExpenseRepo.SaveExpense(s.ctx, e))
	return e
}

func (s *RepositoryTestSuite) TestExpenseLifecycle() {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	e := s.saveExpense("user-1", "30.00", date)
	s.saveExpense("user-2", "5.00", date)

	got, err := s.repos.ExpenseRepo.FindExpenseByID(s.ctx, e.ExpenseID())
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("30.00").Equal(got.Amount()))
	s.True(date.Equal(got.Date()))

	list, err := s.repos.ExpenseRepo.ListExpensesByUserID(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Len(list, 1)

	s.Require().NoError(s.repos.ExpenseRepo.DeleteExpense(s.ctx, e.ExpenseID()))
	_, err = s.repos.ExpenseRepo.FindExpenseByID(s.ctx, e.ExpenseID())
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.ErrorIs(s.repos.ExpenseRepo.DeleteExpense(s.ctx, e.ExpenseID()), apperrors.ErrNotFound)
}

func (s *RepositoryTestSuite) TestListExpensesPage() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for day := range 5 {
		s.saveExpense("user-1", "1.00", base.AddDate(0, 0, day))
	}

	seen := []time.Time{}
	var token *string
	pages := 0
	for {
		page, next, err := s.repos.ExpenseRepo.ListExpensesPage(s.ctx, "user-1", 2, token)
		s.Require().NoError(err)
		pages++
		for _, e := range page {
			seen = append(seen, e.Date())
		}
		if next == nil {
			break
		}
		token = next
	}

	s.Equal(3, pages)
	s.Require().Len(seen, 5)
	for i := 1; i < len(seen); i++ {
		s.True(seen[i-1].After(seen[i]), "expenses must be newest first")
	}

	bad := "%%%"
	_, _, err := s.repos.ExpenseRepo.ListExpensesPage(s.ctx, "user-1", 2, &bad)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
