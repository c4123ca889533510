package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/SscSPs/billing_app/internal/core/ports/notifications"
	portsrepo "github.com/SscSPs/billing_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/billing_app/internal/core/ports/services"
	"github.com/SscSPs/billing_app/internal/dto"
)

// invoiceService implements the InvoiceSvcFacade interface
type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	publisher   notifications.Publisher
}

// InvoiceServiceOption is a functional option for configuring the invoice service
type InvoiceServiceOption func(*invoiceService)

// WithEventPublisher makes the service publish invoice events after each persisted change
func WithEventPublisher(publisher notifications.Publisher) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.publisher = publisher
	}
}

// NewInvoiceService creates a new invoice service with the provided options
func NewInvoiceService(repo portsrepo.InvoiceRepositoryFacade, options ...InvoiceServiceOption) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{
		invoiceRepo: repo,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure invoiceService implements the InvoiceSvcFacade interface
var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	invoice, err := domain.NewInvoice(userID, req.CustomerName, req.TaxPercentage, req.DiscountAmount, domain.CurrencyCode(req.Currency))
	if err != nil {
		s.LogError(ctx, err, "Invalid invoice request", slog.String("user_id", userID))
		return nil, err
	}

	for i, itemReq := range req.Items {
		item, err := domain.NewLineItem(itemReq.Name, itemReq.UnitPrice, itemReq.Quantity)
		if err != nil {
			s.LogError(ctx, err, "Invalid line item in invoice request",
				slog.String("user_id", userID),
				slog.Int("item_index", i))
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if _, err := invoice.AddItem(item); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	invoice.AuditFields = newAuditFields(userID, time.Now())

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		s.LogError(ctx, err, "Failed to save invoice",
			slog.String("invoice_id", invoice.InvoiceID()),
			slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.LogInfo(ctx, "Invoice created successfully",
		slog.String("invoice_id", invoice.InvoiceID()),
		slog.Int("item_count", len(req.Items)),
		slog.String("total", invoice.Total().String()))
	return invoice, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	return s.loadOwnedInvoice(ctx, invoiceID, userID)
}

func (s *invoiceService) ListInvoices(ctx context.Context, userID string) ([]*domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoicesByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	if invoices == nil {
		return []*domain.Invoice{}, nil
	}
	return invoices, nil
}

func (s *invoiceService) GetPaymentDetails(ctx context.Context, invoiceID string, userID string) (*domain.PaymentDetails, error) {
	invoice, err := s.loadOwnedInvoice(ctx, invoiceID, userID)
	if err != nil {
		return nil, err
	}
	details := invoice.PaymentDetails()
	return &details, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Invoice, error) {
	invoice, err := s.loadOwnedInvoice(ctx, invoiceID, userID)
	if err != nil {
		return nil, err
	}

	upd := domain.InvoiceDetailsUpdate{
		CustomerName:   req.CustomerName,
		TaxPercentage:  req.TaxPercentage,
		DiscountAmount: req.DiscountAmount,
	}
	if req.Currency != nil {
		currency := domain.CurrencyCode(*req.Currency)
		upd.Currency = &currency
	}

	if err := invoice.UpdateDetails(upd); err != nil {
		s.LogError(ctx, err, "Invalid invoice update", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	if err := s.persist(ctx, invoice, userID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Invoice updated successfully",
		slog.String("invoice_id", invoiceID),
		slog.String("total", invoice.Total().String()))
	return invoice, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, invoiceID string, userID string) error {
	if _, err := s.loadOwnedInvoice(ctx, invoiceID, userID); err != nil {
		return err
	}

	if err := s.invoiceRepo.DeleteInvoice(ctx, invoiceID); err != nil {
		s.LogError(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.LogInfo(ctx, "Invoice deleted successfully", slog.String("invoice_id", invoiceID))
	return nil
}

func (s *invoiceService) AddItem(ctx context.Context, invoiceID string, req dto.CreateLineItemRequest, userID string) (*domain.Invoice, error) {
	invoice, err := s.loadOwnedInvoice(ctx, invoiceID, userID)
	if err != nil {
		return nil, err
	}

	item, err := domain.NewLineItem(req.Name, req.UnitPrice, req.Quantity)
	if err != nil {
		s.LogError(ctx, err, "Invalid line item", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	event, err := invoice.AddItem(item)
	if err != nil {
		s.LogError(ctx, err, "Line item rejected", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	if err := s.persist(ctx, invoice, userID); err != nil {
		return nil, err
	}
	s.publish(ctx, event)

	s.LogInfo(ctx, "Line item added to invoice",
		slog.String("invoice_id", invoiceID),
		slog.String("item_id", item.ItemID()),
		slog.String("total", invoice.Total().String()))
	return invoice, nil
}

func (s *invoiceService) RemoveItem(ctx context.Context, invoiceID string, itemID string, userID string) (*domain.Invoice, error) {
	invoice, err := s.loadOwnedInvoice(ctx, invoiceID, userID)
	if err != nil {
		return nil, err
	}

	event, err := invoice.RemoveItem(itemID)
	if err != nil {
		s.LogError(ctx, err, "Line item not found on invoice",
			slog.String("invoice_id", invoiceID),
			slog.String("item_id", itemID))
		return nil, err
	}

	if err := s.persist(ctx, invoice, userID); err != nil {
		return nil, err
	}
	s.publish(ctx, event)

	s.LogInfo(ctx, "Line item removed from invoice",
		slog.String("invoice_id", invoiceID),
		slog.String("item_id", itemID),
		slog.String("total", invoice.Total().String()))
	return invoice, nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	return s.changeStatus(ctx, invoiceID, userID, (*domain.Invoice).MarkPaid)
}

func (s *invoiceService) MarkUnpaid(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	return s.changeStatus(ctx, invoiceID, userID, (*domain.Invoice).MarkUnpaid)
}

func (s *invoiceService) changeStatus(ctx context.Context, invoiceID, userID string, transition func(*domain.Invoice) (domain.InvoiceEvent, bool)) (*domain.Invoice, error) {
	invoice, err := s.loadOwnedInvoice(ctx, invoiceID, userID)
	if err != nil {
		return nil, err
	}

	event, changed := transition(invoice)
	if !changed {
		s.LogDebug(ctx, "Invoice already in requested status",
			slog.String("invoice_id", invoiceID),
			slog.String("status", string(invoice.Status())))
		return invoice, nil
	}

	if err := s.persist(ctx, invoice, userID); err != nil {
		return nil, err
	}
	s.publish(ctx, event)

	s.LogInfo(ctx, "Invoice status changed",
		slog.String("invoice_id", invoiceID),
		slog.String("status", string(invoice.Status())))
	return invoice, nil
}

func (s *invoiceService) loadOwnedInvoice(ctx context.Context, invoiceID, userID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	if invoice == nil {
		return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}
	if err := s.AuthorizeOwner(ctx, userID, invoice.UserID(), "invoice", invoiceID); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) persist(ctx context.Context, invoice *domain.Invoice, userID string) error {
	invoice.LastUpdatedAt = time.Now()
	invoice.LastUpdatedBy = userID
	if err := s.invoiceRepo.UpdateInvoice(ctx, invoice); err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoice.InvoiceID()))
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return nil
}

// publish delivers events without failing the request; the change is already stored.
func (s *invoiceService) publish(ctx context.Context, events ...domain.InvoiceEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.LogError(ctx, err, "Failed to publish invoice events", slog.Int("event_count", len(events)))
	}
}
