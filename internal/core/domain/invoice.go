package domain

import (
	"fmt"
	"slices"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus indicates whether an invoice has been settled.
type InvoiceStatus string

const (
	Unpaid InvoiceStatus = "UNPAID"
	Paid   InvoiceStatus = "PAID"
)

// Validate checks that the status is one of the known states.
func (s InvoiceStatus) Validate() error {
	switch s {
	case Unpaid, Paid:
		return nil
	default:
		return fmt.Errorf("%w: unknown invoice status '%s'", apperrors.ErrValidation, s)
	}
}

// Invoice is the aggregate root for billing. It owns its line items and keeps
// its total in step with items, tax and discount: every mutation recomputes it
// and there is no way to set it directly.
type Invoice struct {
	invoiceID      string
	userID         string
	customerName   string
	items          []LineItem
	taxPercentage  decimal.Decimal
	discountAmount decimal.Decimal
	currency       CurrencyCode
	status         InvoiceStatus
	total          decimal.Decimal
	AuditFields
}

// InvoiceDetailsUpdate carries the optional fields of UpdateDetails. Nil fields keep their value.
type InvoiceDetailsUpdate struct {
	CustomerName   *string
	TaxPercentage  *decimal.Decimal
	DiscountAmount *decimal.Decimal
	Currency       *CurrencyCode
}

// InvoiceRecord is a flat copy of an invoice used at persistence and transport boundaries.
// Total is informational only; RestoreInvoice always recomputes it.
type InvoiceRecord struct {
	InvoiceID      string
	UserID         string
	CustomerName   string
	Items          []LineItem
	TaxPercentage  decimal.Decimal
	DiscountAmount decimal.Decimal
	Currency       CurrencyCode
	Status         InvoiceStatus
	Total          decimal.Decimal
	AuditFields
}

// PaymentDetails are the invoice fields a payment link or QR payload is built from.
type PaymentDetails struct {
	InvoiceID string
	Total     decimal.Decimal
	Currency  CurrencyCode
}

// NewInvoice creates an unpaid invoice without items owned by userID.
func NewInvoice(userID, customerName string, taxPercentage, discountAmount decimal.Decimal, currency CurrencyCode) (*Invoice, error) {
	if err := requireText(userID, "user ID"); err != nil {
		return nil, err
	}
	if err := validateDetails(customerName, taxPercentage, discountAmount, currency); err != nil {
		return nil, err
	}
	inv := &Invoice{
		invoiceID:      uuid.NewString(),
		userID:         userID,
		customerName:   customerName,
		items:          []LineItem{},
		taxPercentage:  taxPercentage,
		discountAmount: discountAmount,
		currency:       currency,
		status:         Unpaid,
	}
	inv.calculateTotal()
	return inv, nil
}

// RestoreInvoice rebuilds an invoice from a record, validating it and recomputing the total.
func RestoreInvoice(rec InvoiceRecord) (*Invoice, error) {
	if err := requireText(rec.InvoiceID, "invoice ID"); err != nil {
		return nil, err
	}
	if err := requireText(rec.UserID, "user ID"); err != nil {
		return nil, err
	}
	if err := validateDetails(rec.CustomerName, rec.TaxPercentage, rec.DiscountAmount, rec.Currency); err != nil {
		return nil, fmt.Errorf("invoice %s: %w", rec.InvoiceID, err)
	}
	if err := rec.Status.Validate(); err != nil {
		return nil, fmt.Errorf("invoice %s: %w", rec.InvoiceID, err)
	}
	items := slices.Clone(rec.Items)
	if items == nil {
		items = []LineItem{}
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.itemID]; dup {
			return nil, fmt.Errorf("%w: invoice %s lists line item %s twice", apperrors.ErrValidation, rec.InvoiceID, item.itemID)
		}
		seen[item.itemID] = struct{}{}
	}
	inv := &Invoice{
		invoiceID:      rec.InvoiceID,
		userID:         rec.UserID,
		customerName:   rec.CustomerName,
		items:          items,
		taxPercentage:  rec.TaxPercentage,
		discountAmount: rec.DiscountAmount,
		currency:       rec.Currency,
		status:         rec.Status,
		AuditFields:    rec.AuditFields,
	}
	inv.calculateTotal()
	return inv, nil
}

func validateDetails(customerName string, taxPercentage, discountAmount decimal.Decimal, currency CurrencyCode) error {
	if err := requireText(customerName, "customer name"); err != nil {
		return err
	}
	if taxPercentage.IsNegative() || taxPercentage.GreaterThan(maxTaxPercentage) {
		return fmt.Errorf("%w: tax percentage must be between 0 and 100, got %s", apperrors.ErrValidation, taxPercentage.String())
	}
	if discountAmount.IsNegative() {
		return fmt.Errorf("%w: discount amount must not be negative, got %s", apperrors.ErrValidation, discountAmount.String())
	}
	return currency.Validate()
}

func (inv *Invoice) InvoiceID() string { return inv.invoiceID }

func (inv *Invoice) UserID() string { return inv.userID }

func (inv *Invoice) CustomerName() string { return inv.customerName }

func (inv *Invoice) TaxPercentage() decimal.Decimal { return inv.taxPercentage }

func (inv *Invoice) DiscountAmount() decimal.Decimal { return inv.discountAmount }

func (inv *Invoice) Currency() CurrencyCode { return inv.currency }

func (inv *Invoice) Status() InvoiceStatus { return inv.status }

func (inv *Invoice) Total() decimal.Decimal { return inv.total }

// Items returns the line items in insertion order. The slice is a copy.
func (inv *Invoice) Items() []LineItem {
	return slices.Clone(inv.items)
}

// Subtotal returns the sum of the line item subtotals before tax and discount.
func (inv *Invoice) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range inv.items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

// TaxAmount returns the tax charged on the current subtotal.
func (inv *Invoice) TaxAmount() decimal.Decimal {
	return inv.Subtotal().Mul(inv.taxPercentage).Shift(-2)
}

// IsOverDiscounted reports whether the discount exceeds subtotal plus tax.
// Such invoices carry a negative total; this is allowed and only surfaced as a warning.
func (inv *Invoice) IsOverDiscounted() bool {
	return inv.total.IsNegative()
}

// AddItem appends item and recomputes the total. An item whose ID is already on this invoice
// is rejected and the invoice is left untouched. Equal name and price under a fresh ID is a
// separate item. Items come from NewLineItem; reusing one across invoices is the caller's error.
func (inv *Invoice) AddItem(item LineItem) (InvoiceEvent, error) {
	if inv.hasItem(item.itemID) {
		return InvoiceEvent{}, fmt.Errorf("%w: line item %s is already on invoice %s", apperrors.ErrValidation, item.itemID, inv.invoiceID)
	}
	inv.items = append(inv.items, item)
	inv.calculateTotal()
	return inv.newEvent(EventItemAdded, item.itemID), nil
}

func (inv *Invoice) hasItem(itemID string) bool {
	return slices.ContainsFunc(inv.items, func(li LineItem) bool { return li.itemID == itemID })
}

// RemoveItem removes the first item with itemID. The invoice is left untouched when no such item exists.
func (inv *Invoice) RemoveItem(itemID string) (InvoiceEvent, error) {
	idx := slices.IndexFunc(inv.items, func(li LineItem) bool { return li.itemID == itemID })
	if idx < 0 {
		return InvoiceEvent{}, fmt.Errorf("%w: line item %s on invoice %s", apperrors.ErrNotFound, itemID, inv.invoiceID)
	}
	inv.items = slices.Delete(inv.items, idx, idx+1)
	inv.calculateTotal()
	return inv.newEvent(EventItemRemoved, itemID), nil
}

// UpdateDetails applies the set fields of upd. Either all fields are applied or, on a
// validation error, none are.
func (inv *Invoice) UpdateDetails(upd InvoiceDetailsUpdate) error {
	customerName := inv.customerName
	taxPercentage := inv.taxPercentage
	discountAmount := inv.discountAmount
	currency := inv.currency

	if upd.CustomerName != nil {
		customerName = *upd.CustomerName
	}
	if upd.TaxPercentage != nil {
		taxPercentage = *upd.TaxPercentage
	}
	if upd.DiscountAmount != nil {
		discountAmount = *upd.DiscountAmount
	}
	if upd.Currency != nil {
		currency = *upd.Currency
	}

	if err := validateDetails(customerName, taxPercentage, discountAmount, currency); err != nil {
		return err
	}

	inv.customerName = customerName
	inv.taxPercentage = taxPercentage
	inv.discountAmount = discountAmount
	inv.currency = currency
	inv.calculateTotal()
	return nil
}

// MarkPaid moves the invoice to Paid. The returned bool is false when it already was.
func (inv *Invoice) MarkPaid() (InvoiceEvent, bool) {
	return inv.transition(Paid)
}

// MarkUnpaid moves the invoice back to Unpaid. The returned bool is false when it already was.
func (inv *Invoice) MarkUnpaid() (InvoiceEvent, bool) {
	return inv.transition(Unpaid)
}

func (inv *Invoice) transition(to InvoiceStatus) (InvoiceEvent, bool) {
	if inv.status == to {
		return InvoiceEvent{}, false
	}
	inv.status = to
	return inv.newEvent(EventStatusChanged, ""), true
}

// PaymentDetails returns the values a payment link for this invoice must carry.
func (inv *Invoice) PaymentDetails() PaymentDetails {
	return PaymentDetails{
		InvoiceID: inv.invoiceID,
		Total:     inv.total,
		Currency:  inv.currency,
	}
}

// Record returns a detached copy of the invoice state.
func (inv *Invoice) Record() InvoiceRecord {
	return InvoiceRecord{
		InvoiceID:      inv.invoiceID,
		UserID:         inv.userID,
		CustomerName:   inv.customerName,
		Items:          inv.Items(),
		TaxPercentage:  inv.taxPercentage,
		DiscountAmount: inv.discountAmount,
		Currency:       inv.currency,
		Status:         inv.status,
		Total:          inv.total,
		AuditFields:    inv.AuditFields,
	}
}

// calculateTotal derives total = Σ subtotal + Σ subtotal × tax/100 − discount.
// The result is not clamped and may be negative.
func (inv *Invoice) calculateTotal() {
	subtotal := inv.Subtotal()
	taxAmount := subtotal.Mul(inv.taxPercentage).Shift(-2)
	inv.total = subtotal.Add(taxAmount).Sub(inv.discountAmount)
}
