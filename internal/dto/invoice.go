package dto

import (
	"time"

	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineItemRequest defines the data needed to add a line item to an invoice.
type CreateLineItemRequest struct {
	Name      string          `json:"name" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"dgte0"`
	Quantity  int64           `json:"quantity" binding:"gte=0"`
}

// CreateInvoiceRequest defines the data needed to create a new invoice.
type CreateInvoiceRequest struct {
	CustomerName   string                  `json:"customerName" binding:"required"`
	TaxPercentage  decimal.Decimal         `json:"taxPercentage" binding:"dgte0,dlte100"`
	DiscountAmount decimal.Decimal         `json:"discountAmount" binding:"dgte0"`
	Currency       string                  `json:"currency" binding:"required,max=10"`
	Items          []CreateLineItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateInvoiceRequest defines the data for updating invoice details. Omitted fields keep their value.
type UpdateInvoiceRequest struct {
	CustomerName   *string          `json:"customerName" binding:"omitempty,min=1"`
	TaxPercentage  *decimal.Decimal `json:"taxPercentage" binding:"omitempty,dgte0,dlte100"`
	DiscountAmount *decimal.Decimal `json:"discountAmount" binding:"omitempty,dgte0"`
	Currency       *string          `json:"currency" binding:"omitempty,min=1,max=10"`
}

// UpdateInvoiceStatusRequest defines the target payment status of an invoice.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PAID UNPAID"`
}

// LineItemResponse defines the data returned for a line item.
type LineItemResponse struct {
	ItemID    string          `json:"itemID"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID      string             `json:"invoiceID"`
	UserID         string             `json:"userID"`
	CustomerName   string             `json:"customerName"`
	Items          []LineItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxPercentage  decimal.Decimal    `json:"taxPercentage"`
	TaxAmount      decimal.Decimal    `json:"taxAmount"`
	DiscountAmount decimal.Decimal    `json:"discountAmount"`
	Total          decimal.Decimal    `json:"total"`
	Currency       string             `json:"currency"`
	Status         string             `json:"status"`
	OverDiscounted bool               `json:"overDiscounted"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy  string             `json:"lastUpdatedBy"`
}

// ListInvoicesResponse wraps a list of invoices.
type ListInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

// PaymentLinkResponse carries the payment URI of an invoice.
type PaymentLinkResponse struct {
	InvoiceID   string          `json:"invoiceID"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	PaymentLink string          `json:"paymentLink"`
}

// ToLineItemResponse converts a domain.LineItem to LineItemResponse DTO.
func ToLineItemResponse(item domain.LineItem) LineItemResponse {
	return LineItemResponse{
		ItemID:    item.ItemID(),
		Name:      item.Name(),
		UnitPrice: item.UnitPrice(),
		Quantity:  item.Quantity(),
		Subtotal:  item.Subtotal(),
	}
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	items := inv.Items()
	itemResponses := make([]LineItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = ToLineItemResponse(item)
	}
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID(),
		UserID:         inv.UserID(),
		CustomerName:   inv.CustomerName(),
		Items:          itemResponses,
		Subtotal:       inv.Subtotal(),
		TaxPercentage:  inv.TaxPercentage(),
		TaxAmount:      inv.TaxAmount(),
		DiscountAmount: inv.DiscountAmount(),
		Total:          inv.Total(),
		Currency:       inv.Currency().String(),
		Status:         string(inv.Status()),
		OverDiscounted: inv.IsOverDiscounted(),
		CreatedAt:      inv.CreatedAt,
		CreatedBy:      inv.CreatedBy,
		LastUpdatedAt:  inv.LastUpdatedAt,
		LastUpdatedBy:  inv.LastUpdatedBy,
	}
}

// ToListInvoicesResponse converts a slice of domain invoices to ListInvoicesResponse.
func ToListInvoicesResponse(invoices []*domain.Invoice) ListInvoicesResponse {
	list := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		list = append(list, ToInvoiceResponse(inv))
	}
	return ListInvoicesResponse{Invoices: list}
}
