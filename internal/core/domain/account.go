package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/wallet_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountType identifies the account variant.
type AccountType string

const (
	Checking AccountType = "Checking"
	Bitcoin  AccountType = "Bitcoin"
)

// AccountTypes lists every variant in store order.
var AccountTypes = []AccountType{Checking, Bitcoin}

// ParseAccountType resolves a case-insensitive account type name.
func ParseAccountType(s string) (AccountType, error) {
	for _, t := range AccountTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown account type '%s'", apperrors.ErrValidation, s)
}

// AccountState is the state shared by every account variant.
type AccountState struct {
	Transactions []Transaction   `json:"transactions"`
	Balance      decimal.Decimal `json:"balance"`
}

func (s AccountState) clone() AccountState {
	return AccountState{Transactions: cloneTransactions(s.Transactions), Balance: s.Balance}
}

// Account is a closed sum type: FiatAccount and CryptoAccount are its only members.
type Account interface {
	Type() AccountType
	Currency() CurrencyCode
	CurrentBalance() decimal.Decimal
	State() AccountState
	account()
}

// FiatAccount is the USD checking account.
type FiatAccount struct {
	AccountState
}

func (FiatAccount) Type() AccountType                 { return Checking }
func (FiatAccount) Currency() CurrencyCode            { return USD }
func (a FiatAccount) CurrentBalance() decimal.Decimal { return a.Balance }
func (a FiatAccount) State() AccountState             { return a.AccountState.clone() }
func (FiatAccount) account()                          {}

// Reset clears the history and zeroes the balance.
func (a *FiatAccount) Reset() {
	a.Transactions = []Transaction{}
	a.Balance = decimal.Zero
}

// CryptoAccount is the bitcoin account.
type CryptoAccount struct {
	AccountState
}

func (CryptoAccount) Type() AccountType                 { return Bitcoin }
func (CryptoAccount) Currency() CurrencyCode            { return BTC }
func (a CryptoAccount) CurrentBalance() decimal.Decimal { return a.Balance }
func (a CryptoAccount) State() AccountState             { return a.AccountState.clone() }
func (CryptoAccount) account()                          {}

// NewFiatAccount returns an empty checking account.
func NewFiatAccount() FiatAccount {
	return FiatAccount{AccountState{Transactions: []Transaction{}, Balance: decimal.Zero}}
}

// NewCryptoAccount returns an empty bitcoin account.
func NewCryptoAccount() CryptoAccount {
	return CryptoAccount{AccountState{Transactions: []Transaction{}, Balance: decimal.Zero}}
}
