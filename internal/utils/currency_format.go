package utils

import (
	"github.com/shopspring/decimal"
)

// MinorUnitPrecision is the number of fraction digits amounts are rendered with outside the API.
const MinorUnitPrecision = 2

// FormatWithPrecision formats an amount rounded half away from zero to the given precision,
// always printing exactly that many fraction digits.
// Example: 12.3456 with precision 2 returns "12.35"; 25.5 returns "25.50".
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}
