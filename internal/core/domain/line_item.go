package domain

import (
	"fmt"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is a priced, quantified entry of exactly one invoice.
// It cannot be changed once created; replace it by removing and adding a new one.
type LineItem struct {
	itemID    string
	name      string
	unitPrice decimal.Decimal
	quantity  int64
}

// NewLineItem validates the input and creates a line item with a fresh identifier.
func NewLineItem(name string, unitPrice decimal.Decimal, quantity int64) (LineItem, error) {
	return RestoreLineItem(uuid.NewString(), name, unitPrice, quantity)
}

// RestoreLineItem rebuilds a previously persisted line item.
func RestoreLineItem(itemID, name string, unitPrice decimal.Decimal, quantity int64) (LineItem, error) {
	if err := requireText(itemID, "line item ID"); err != nil {
		return LineItem{}, err
	}
	if err := requireText(name, "line item name"); err != nil {
		return LineItem{}, err
	}
	if unitPrice.IsNegative() {
		return LineItem{}, fmt.Errorf("%w: unit price must not be negative, got %s", apperrors.ErrValidation, unitPrice.String())
	}
	if quantity < 0 {
		return LineItem{}, fmt.Errorf("%w: quantity must not be negative, got %d", apperrors.ErrValidation, quantity)
	}
	return LineItem{
		itemID:    itemID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
	}, nil
}

func (li LineItem) ItemID() string { return li.itemID }

func (li LineItem) Name() string { return li.name }

func (li LineItem) UnitPrice() decimal.Decimal { return li.unitPrice }

func (li LineItem) Quantity() int64 { return li.quantity }

// Subtotal returns unit price × quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.unitPrice.Mul(decimal.NewFromInt(li.quantity))
}
