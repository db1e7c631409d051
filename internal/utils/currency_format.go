package utils

import (
	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision formats an amount with the display precision of its currency
// Example: 12.3456 USD returns "12.35"
// Example: 0.123456789 BTC returns "0.12345679"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.CurrencyCode) string {
	return FormatWithPrecision(amount, currency.Precision())
}

// FormatWithPrecision formats an amount with the given precision, keeping trailing zeros
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}
