package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/wallet_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountSnapshot is the tagged, serialisable form of an Account.
type AccountSnapshot struct {
	Type         AccountType     `json:"type"`
	Currency     CurrencyCode    `json:"currency"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions []Transaction   `json:"transactions"`
}

// WalletSnapshot is the whole store tree at one point in time.
type WalletSnapshot struct {
	Identity Identity          `json:"identity"`
	Accounts []AccountSnapshot `json:"accounts"`
	Rates    RateTable         `json:"rates"`
	TakenAt  time.Time         `json:"takenAt"`
}

// SnapshotOf captures an account.
func SnapshotOf(a Account) AccountSnapshot {
	state := a.State()
	return AccountSnapshot{
		Type:         a.Type(),
		Currency:     a.Currency(),
		Balance:      state.Balance,
		Transactions: state.Transactions,
	}
}

// Account returns the snapshot of the given type, if present.
func (s WalletSnapshot) Account(t AccountType) (AccountSnapshot, bool) {
	for _, a := range s.Accounts {
		if a.Type == t {
			return a, true
		}
	}
	return AccountSnapshot{}, false
}

// ToAccounts rebuilds both account variants, enforcing one account per type.
func (s WalletSnapshot) ToAccounts() (FiatAccount, CryptoAccount, error) {
	fiat, crypto := NewFiatAccount(), NewCryptoAccount()
	seen := make(map[AccountType]bool, len(AccountTypes))

	for _, a := range s.Accounts {
		if seen[a.Type] {
			return fiat, crypto, fmt.Errorf("%w: duplicate %s account in snapshot", apperrors.ErrValidation, a.Type)
		}
		seen[a.Type] = true

		state := AccountState{Transactions: cloneTransactions(a.Transactions), Balance: a.Balance}
		switch a.Type {
		case Checking:
			if a.Currency != "" && a.Currency != USD {
				return fiat, crypto, fmt.Errorf("%w: checking account must be in USD, got %s", apperrors.ErrValidation, a.Currency)
			}
			fiat.AccountState = state
		case Bitcoin:
			if a.Currency != "" && a.Currency != BTC {
				return fiat, crypto, fmt.Errorf("%w: bitcoin account must be in BTC, got %s", apperrors.ErrValidation, a.Currency)
			}
			crypto.AccountState = state
		default:
			return fiat, crypto, fmt.Errorf("%w: unknown account type '%s' in snapshot", apperrors.ErrValidation, a.Type)
		}
	}

	for _, t := range AccountTypes {
		if !seen[t] {
			return fiat, crypto, fmt.Errorf("%w: snapshot is missing the %s account", apperrors.ErrValidation, t)
		}
	}
	return fiat, crypto, nil
}
