package clients

import (
	"context"

	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UserDocument is the per-user document holding the fiat transaction history.
type UserDocument struct {
	Transactions []domain.Transaction
}

// UserDocumentReader fetches the per-user document keyed by uid.
type UserDocumentReader interface {
	FetchUserDocument(ctx context.Context, uid string) (*UserDocument, error)
}

// FiatBalanceResponse mirrors the balance function result: {data: {Checking: n, ...}}.
type FiatBalanceResponse struct {
	Data map[string]decimal.Decimal
}

// FiatBalanceQuerier calls the remote fiat balance function. It takes no input.
type FiatBalanceQuerier interface {
	QueryFiatBalances(ctx context.Context) (*FiatBalanceResponse, error)
}

// PriceQuote is either {price} or an error-shaped result where Price is nil and Problem is set.
type PriceQuote struct {
	Price   *decimal.Decimal
	Problem string
}

// PriceQuoter returns the current BTC price in USD.
type PriceQuoter interface {
	GetPrice(ctx context.Context) (*PriceQuote, error)
}
