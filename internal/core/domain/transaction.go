package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/wallet_ledger/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Transaction is one entry of an account history, in the order the server returned it.
type Transaction struct {
	Name     string           `json:"name"` // may be empty
	Icon     string           `json:"icon"`
	Amount   decimal.Decimal  `json:"amount"`
	Date     time.Time        `json:"date" validate:"required"`
	Cashback *decimal.Decimal `json:"cashback,omitempty"` // Optional
}

// Validate checks the fields a fetched transaction must carry. Only the date is required.
func (t Transaction) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: invalid transaction %q: %v", apperrors.ErrValidation, t.Name, err)
	}
	return nil
}

// HasCashback reports whether the optional cashback amount is present.
func (t Transaction) HasCashback() bool {
	return t.Cashback != nil
}

func cloneTransactions(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	return out
}
