// Package paymentlink renders UPI style payment URIs for invoices.
// The resulting string is what a QR code for the invoice encodes.
package paymentlink

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/SscSPs/billing_app/internal/utils"
)

const transactionNote = "Invoice Payment"

// Payee identifies who receives the payment.
type Payee struct {
	Scheme  string // e.g. "upi"
	Address string // pa, e.g. "business@upi"
	Name    string // pn
}

// Builder creates payment links for a fixed payee.
type Builder struct {
	payee Payee
}

// NewBuilder validates the payee and returns a Builder.
func NewBuilder(payee Payee) (*Builder, error) {
	if strings.TrimSpace(payee.Scheme) == "" {
		payee.Scheme = "upi"
	}
	if strings.TrimSpace(payee.Address) == "" {
		return nil, fmt.Errorf("%w: payee address is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(payee.Name) == "" {
		return nil, fmt.Errorf("%w: payee name is required", apperrors.ErrValidation)
	}
	return &Builder{payee: payee}, nil
}

// Build returns the payment URI for an invoice. Over-discounted invoices with a negative
// total cannot be paid and are rejected.
func (b *Builder) Build(details domain.PaymentDetails) (string, error) {
	if details.Total.IsNegative() {
		return "", fmt.Errorf("%w: invoice %s has a negative total of %s", apperrors.ErrValidation, details.InvoiceID, details.Total.String())
	}

	params := []struct{ key, value string }{
		{"pa", b.payee.Address},
		{"pn", b.payee.Name},
		{"tr", details.InvoiceID},
		{"tn", transactionNote},
		{"am", utils.FormatWithPrecision(details.Total, utils.MinorUnitPrecision)},
		{"cu", details.Currency.String()},
	}

	var sb strings.Builder
	sb.WriteString(b.payee.Scheme)
	sb.WriteString("://pay?")
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(escape(p.value))
	}
	return sb.String(), nil
}

// escape percent-encodes a query value, using %20 for spaces as payment apps expect.
func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
