package models

import "github.com/shopspring/decimal"

// InvoiceStatus is the stored payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "UNPAID"
	InvoicePaid   InvoiceStatus = "PAID"
)

// Invoice is a row of the invoices table.
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`
	UserID         string          `json:"userID"`
	CustomerName   string          `json:"customerName"`
	TaxPercentage  decimal.Decimal `json:"taxPercentage"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Currency       string          `json:"currency"`
	Status         InvoiceStatus   `json:"status"`
	TotalAmount    decimal.Decimal `json:"totalAmount"` // Denormalized for reporting queries, recomputed on load
	AuditFields
}

// LineItem is a row of the invoice_items table. Position keeps insertion order.
type LineItem struct {
	ItemID    string          `json:"itemID"`
	InvoiceID string          `json:"invoiceID"` // Foreign key, cascades on invoice delete
	Position  int             `json:"position"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
}
