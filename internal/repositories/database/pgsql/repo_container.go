package pgsql

import (
	portsrepo "github.com/SscSPs/billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres implementations of every repository.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		InvoiceRepo: newPgxInvoiceRepository(dbPool),
		ExpenseRepo: newPgxExpenseRepository(dbPool),
		Close: func() error {
			dbPool.Close()
			return nil
		},
	}
}
