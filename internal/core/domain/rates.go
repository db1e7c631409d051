package domain

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/wallet_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DefaultBTCRate is the placeholder BTC to USD factor used until a quote arrives.
var DefaultBTCRate = decimal.RequireFromString("0.0001")

// RateTable converts account balances into USD. USD is the unit of account and is always 1.
type RateTable struct {
	BTC decimal.Decimal
}

// DefaultRateTable returns the table the store starts with.
func DefaultRateTable() RateTable {
	return RateTable{BTC: DefaultBTCRate}
}

// USD is fixed at 1.
func (RateTable) USD() decimal.Decimal {
	return decimal.NewFromInt(1)
}

// Rate returns the USD factor for a currency.
func (r RateTable) Rate(c CurrencyCode) (decimal.Decimal, bool) {
	switch c {
	case USD:
		return r.USD(), true
	case BTC:
		return r.BTC, true
	default:
		return decimal.Zero, false
	}
}

// WithBTC returns a copy of the table carrying price, which must be positive.
func (r RateTable) WithBTC(price decimal.Decimal) (RateTable, error) {
	if !price.IsPositive() {
		return r, fmt.Errorf("%w: BTC rate must be positive, got %s", apperrors.ErrValidation, price.String())
	}
	r.BTC = price
	return r, nil
}

type rateTableJSON struct {
	USD decimal.Decimal `json:"USD"`
	BTC decimal.Decimal `json:"BTC"`
}

func (r RateTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(rateTableJSON{USD: r.USD(), BTC: r.BTC})
}

// UnmarshalJSON ignores any persisted USD value.
func (r *RateTable) UnmarshalJSON(b []byte) error {
	var raw rateTableJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.BTC = raw.BTC
	return nil
}

// ToUSD converts the account balance using the table.
func ToUSD(a Account, rates RateTable) decimal.Decimal {
	rate, ok := rates.Rate(a.Currency())
	if !ok {
		return decimal.Zero
	}
	return a.CurrentBalance().Mul(rate)
}

// TotalBalanceInUSD sums every account balance converted to USD.
func TotalBalanceInUSD(accounts []Account, rates RateTable) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(ToUSD(a, rates))
	}
	return total
}

// BalancesByAccountType maps each account type to its USD balance.
func BalancesByAccountType(accounts []Account, rates RateTable) map[AccountType]decimal.Decimal {
	balances := make(map[AccountType]decimal.Decimal, len(accounts))
	for _, a := range accounts {
		balances[a.Type()] = ToUSD(a, rates)
	}
	return balances
}
