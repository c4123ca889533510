package services

import (
	"context"

	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/SscSPs/billing_app/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices. Every call is scoped to the
// requesting user; invoices owned by someone else yield apperrors.ErrForbidden.
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves a specific invoice together with its line items.
	GetInvoiceByID(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// ListInvoices retrieves all invoices owned by the user.
	ListInvoices(ctx context.Context, userID string) ([]*domain.Invoice, error)

	// GetPaymentDetails returns the invoice fields a payment link is built from.
	GetPaymentDetails(ctx context.Context, invoiceID string, userID string) (*domain.PaymentDetails, error)
}

// InvoiceWriterSvc defines write operations for invoices
type InvoiceWriterSvc interface {
	// CreateInvoice creates an unpaid invoice, optionally seeded with line items.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error)

	// UpdateInvoice changes customer name, tax, discount or currency of an invoice.
	UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error)

	// DeleteInvoice removes an invoice along with its line items.
	DeleteInvoice(ctx context.Context, invoiceID string, userID string) error
}

// InvoiceItemSvc defines line item operations on an invoice
type InvoiceItemSvc interface {
	// AddItem appends a new line item and returns the updated invoice.
	AddItem(ctx context.Context, invoiceID string, req dto.CreateLineItemRequest, userID string) (*domain.Invoice, error)

	// RemoveItem removes a line item and returns the updated invoice.
	RemoveItem(ctx context.Context, invoiceID string, itemID string, userID string) (*domain.Invoice, error)
}

// InvoiceStatusSvc defines payment status transitions
type InvoiceStatusSvc interface {
	// MarkPaid moves the invoice to PAID. Already paid invoices are returned unchanged.
	MarkPaid(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)

	// MarkUnpaid moves the invoice back to UNPAID. Already unpaid invoices are returned unchanged.
	MarkUnpaid(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
// This is a facade for clients that need access to all operations
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceItemSvc
	InvoiceStatusSvc
}
