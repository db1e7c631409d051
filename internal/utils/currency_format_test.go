package utils_test

import (
	"testing"

	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	"github.com/SscSPs/wallet_ledger/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatWithCurrencyPrecision(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency domain.CurrencyCode
		want     string
	}{
		{name: "usd rounds to cents", amount: "12.3456", currency: domain.USD, want: "12.35"},
		{name: "usd keeps trailing zeros", amount: "500", currency: domain.USD, want: "500.00"},
		{name: "btc uses satoshi precision", amount: "0.123456789", currency: domain.BTC, want: "0.12345679"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := utils.FormatWithCurrencyPrecision(decimal.RequireFromString(tt.amount), tt.currency)
			assert.Equal(t, tt.want, got)
		})
	}
}
