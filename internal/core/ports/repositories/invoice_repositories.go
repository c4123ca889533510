package repositories

import (
	"context"

	"github.com/SscSPs/billing_app/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice together with its line items.
	// It returns apperrors.ErrNotFound when no such invoice exists.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoicesByUserID retrieves every invoice owned by a user, newest first.
	ListInvoicesByUserID(ctx context.Context, userID string) ([]*domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data.
// An invoice and its line items are always written together.
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice and its line items.
	SaveInvoice(ctx context.Context, invoice *domain.Invoice) error

	// UpdateInvoice replaces the stored state of an existing invoice, including its line items.
	UpdateInvoice(ctx context.Context, invoice *domain.Invoice) error

	// DeleteInvoice removes an invoice and, with it, all of its line items.
	DeleteInvoice(ctx context.Context, invoiceID string) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
