package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// CurrencyCode is an opaque short currency tag such as "USD".
// It is stored and compared exactly as given and never converted.
type CurrencyCode string

// Validate checks that the currency tag is present.
func (c CurrencyCode) Validate() error {
	if strings.TrimSpace(string(c)) == "" {
		return fmt.Errorf("%w: currency is required", apperrors.ErrValidation)
	}
	return nil
}

func (c CurrencyCode) String() string {
	return string(c)
}

var maxTaxPercentage = decimal.NewFromInt(100)

func requireText(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", apperrors.ErrValidation, field)
	}
	return nil
}
