package dto

import (
	"time"

	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	"github.com/SscSPs/wallet_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// SetIdentityRequest replaces the whole signed-in identity.
type SetIdentityRequest struct {
	Email         string `json:"email" binding:"omitempty,email"`
	EmailVerified bool   `json:"emailVerified"`
	IsAnonymous   bool   `json:"isAnonymous"`
	UID           string `json:"uid" binding:"required"`
}

// SetIdentityEmailRequest replaces only the email of the identity.
type SetIdentityEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// IdentityResponse mirrors domain.Identity.
type IdentityResponse struct {
	Email         string `json:"email"`
	IsAnonymous   bool   `json:"isAnonymous"`
	UID           string `json:"uid"`
	EmailVerified bool   `json:"emailVerified"`
}

// TransactionResponse is one history entry.
type TransactionResponse struct {
	Name     string           `json:"name"`
	Icon     string           `json:"icon"`
	Amount   decimal.Decimal  `json:"amount"`
	Date     time.Time        `json:"date"`
	Cashback *decimal.Decimal `json:"cashback,omitempty"`
}

// AccountResponse describes one account with its balance converted to USD.
type AccountResponse struct {
	Type           domain.AccountType    `json:"type"`
	Currency       domain.CurrencyCode   `json:"currency"`
	Balance        decimal.Decimal       `json:"balance"`
	BalanceDisplay string                `json:"balanceDisplay"` // in the account currency precision
	BalanceInUSD   decimal.Decimal       `json:"balanceInUSD"`
	USDDisplay     string                `json:"usdDisplay"`
	Transactions   []TransactionResponse `json:"transactions"`
}

// RatesResponse lists the rate of every currency against USD.
type RatesResponse struct {
	USD decimal.Decimal `json:"USD"`
	BTC decimal.Decimal `json:"BTC"`
}

// WalletResponse is the full store tree.
type WalletResponse struct {
	Identity IdentityResponse  `json:"identity"`
	Accounts []AccountResponse `json:"accounts"`
	Rates    RatesResponse     `json:"rates"`
	TakenAt  time.Time         `json:"takenAt"`
}

// TotalsResponse holds the derived USD views.
type TotalsResponse struct {
	TotalBalanceInUSD     decimal.Decimal                        `json:"totalBalanceInUSD"`
	TotalDisplay          string                                 `json:"totalDisplay"`
	BalancesByAccountType map[domain.AccountType]decimal.Decimal `json:"balancesByAccountType"`
}

// ToIdentityResponse converts a domain.Identity to IdentityResponse DTO
func ToIdentityResponse(i domain.Identity) IdentityResponse {
	return IdentityResponse{
		Email:         i.Email,
		IsAnonymous:   i.IsAnonymous,
		UID:           i.UID,
		EmailVerified: i.EmailVerified,
	}
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(a domain.Account, rates domain.RateTable) AccountResponse {
	state := a.State()
	inUSD := domain.ToUSD(a, rates)

	txs := make([]TransactionResponse, len(state.Transactions))
	for i, tx := range state.Transactions {
		txs[i] = TransactionResponse{
			Name:     tx.Name,
			Icon:     tx.Icon,
			Amount:   tx.Amount,
			Date:     tx.Date,
			Cashback: tx.Cashback,
		}
	}

	return AccountResponse{
		Type:           a.Type(),
		Currency:       a.Currency(),
		Balance:        state.Balance,
		BalanceDisplay: utils.FormatWithCurrencyPrecision(state.Balance, a.Currency()),
		BalanceInUSD:   inUSD,
		USDDisplay:     utils.FormatWithCurrencyPrecision(inUSD, domain.USD),
		Transactions:   txs,
	}
}

// ToWalletResponse converts a snapshot to WalletResponse DTO
func ToWalletResponse(snap domain.WalletSnapshot) (WalletResponse, error) {
	fiat, crypto, err := snap.ToAccounts()
	if err != nil {
		return WalletResponse{}, err
	}
	return WalletResponse{
		Identity: ToIdentityResponse(snap.Identity),
		Accounts: []AccountResponse{
			ToAccountResponse(fiat, snap.Rates),
			ToAccountResponse(crypto, snap.Rates),
		},
		Rates:   RatesResponse{USD: snap.Rates.USD(), BTC: snap.Rates.BTC},
		TakenAt: snap.TakenAt,
	}, nil
}

// ToTotalsResponse builds the derived USD views
func ToTotalsResponse(total decimal.Decimal, byType map[domain.AccountType]decimal.Decimal) TotalsResponse {
	return TotalsResponse{
		TotalBalanceInUSD:     total,
		TotalDisplay:          utils.FormatWithCurrencyPrecision(total, domain.USD),
		BalancesByAccountType: byType,
	}
}
