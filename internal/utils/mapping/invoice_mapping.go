package mapping

import (
	"fmt"
	"sort"

	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/SscSPs/billing_app/internal/models"
)

// ToModelInvoice converts a domain Invoice to its invoice row and ordered item rows
func ToModelInvoice(d *domain.Invoice) (models.Invoice, []models.LineItem) {
	rec := d.Record()
	invoice := models.Invoice{
		InvoiceID:      rec.InvoiceID,
		UserID:         rec.UserID,
		CustomerName:   rec.CustomerName,
		TaxPercentage:  rec.TaxPercentage,
		DiscountAmount: rec.DiscountAmount,
		Currency:       rec.Currency.String(),
		Status:         models.InvoiceStatus(rec.Status),
		TotalAmount:    rec.Total,
		AuditFields:    ToModelAuditFields(rec.AuditFields),
	}

	items := make([]models.LineItem, len(rec.Items))
	for i, item := range rec.Items {
		items[i] = models.LineItem{
			ItemID:    item.ItemID(),
			InvoiceID: rec.InvoiceID,
			Position:  i,
			Name:      item.Name(),
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity(),
		}
	}
	return invoice, items
}

// ToDomainInvoice rebuilds a domain Invoice from its rows. Items are ordered by position;
// the stored total is ignored and recomputed.
func ToDomainInvoice(m models.Invoice, items []models.LineItem) (*domain.Invoice, error) {
	sorted := make([]models.LineItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	lineItems := make([]domain.LineItem, 0, len(sorted))
	for _, it := range sorted {
		if it.InvoiceID != m.InvoiceID {
			return nil, fmt.Errorf("line item %s belongs to invoice %s, not %s", it.ItemID, it.InvoiceID, m.InvoiceID)
		}
		li, err := domain.RestoreLineItem(it.ItemID, it.Name, it.UnitPrice, it.Quantity)
		if err != nil {
			return nil, fmt.Errorf("restore line item %s: %w", it.ItemID, err)
		}
		lineItems = append(lineItems, li)
	}

	return domain.RestoreInvoice(domain.InvoiceRecord{
		InvoiceID:      m.InvoiceID,
		UserID:         m.UserID,
		CustomerName:   m.CustomerName,
		Items:          lineItems,
		TaxPercentage:  m.TaxPercentage,
		DiscountAmount: m.DiscountAmount,
		Currency:       domain.CurrencyCode(m.Currency),
		Status:         domain.InvoiceStatus(m.Status),
		Total:          m.TotalAmount,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	})
}
