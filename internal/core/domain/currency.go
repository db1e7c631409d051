package domain

// CurrencyCode keys the rate table.
type CurrencyCode string

const (
	USD CurrencyCode = "USD"
	BTC CurrencyCode = "BTC"
)

// Precision is the number of decimal places used when displaying amounts.
func (c CurrencyCode) Precision() int {
	switch c {
	case BTC:
		return 8
	default:
		return 2
	}
}
