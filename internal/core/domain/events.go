package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceEventType names an observable change to an invoice.
type InvoiceEventType string

const (
	EventItemAdded     InvoiceEventType = "invoice.item_added"
	EventItemRemoved   InvoiceEventType = "invoice.item_removed"
	EventStatusChanged InvoiceEventType = "invoice.status_changed"
)

// InvoiceEvent describes a mutation that notification consumers may be interested in.
// The domain only returns these; delivering them is left to the caller.
type InvoiceEvent struct {
	Type       InvoiceEventType `json:"type"`
	InvoiceID  string           `json:"invoiceID"`
	UserID     string           `json:"userID"`
	ItemID     string           `json:"itemID,omitempty"`
	Status     InvoiceStatus    `json:"status"`
	Total      decimal.Decimal  `json:"total"`
	Currency   CurrencyCode     `json:"currency"`
	OccurredAt time.Time        `json:"occurredAt"`
}

func (inv *Invoice) newEvent(eventType InvoiceEventType, itemID string) InvoiceEvent {
	return InvoiceEvent{
		Type:       eventType,
		InvoiceID:  inv.invoiceID,
		UserID:     inv.userID,
		ItemID:     itemID,
		Status:     inv.status,
		Total:      inv.total,
		Currency:   inv.currency,
		OccurredAt: time.Now().UTC(),
	}
}
