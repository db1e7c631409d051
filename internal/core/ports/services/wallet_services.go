package services

import (
	"context"

	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WalletReaderSvc exposes the read-only views of the wallet store.
type WalletReaderSvc interface {
	Identity() domain.Identity
	Rates() domain.RateTable
	Accounts() []domain.Account
	AccountByType(accountType domain.AccountType) (domain.Account, bool)
	TotalBalanceInUSD() decimal.Decimal
	BalancesByAccountType() map[domain.AccountType]decimal.Decimal
	Snapshot() domain.WalletSnapshot
}

// IdentitySvc mutates the signed-in identity.
type IdentitySvc interface {
	SetIdentity(email string, emailVerified, isAnonymous bool, uid string)
	SetIdentityEmail(email string)
	ResetIdentity()

	// SignIn applies identity together with the saved snapshot of its uid (nil when none).
	SignIn(identity domain.Identity, saved *domain.WalletSnapshot) error
}

// WalletRefresherSvc refreshes store parts from remote services.
// None of these report failures: on error the previous value is kept and the error is logged.
type WalletRefresherSvc interface {
	RefreshAccountHistory(ctx context.Context, accountType domain.AccountType)
	RefreshBalance(ctx context.Context, accountType domain.AccountType)
	RefreshRates(ctx context.Context)
	RefreshAllBalances(ctx context.Context)
	RefreshAll(ctx context.Context)
}

// WalletWriterSvc holds the synchronous local mutations.
type WalletWriterSvc interface {
	// ResetAccount clears history and balance. Only the Checking account supports it.
	ResetAccount(accountType domain.AccountType) error
	Restore(snapshot domain.WalletSnapshot) error
	Subscribe(fn func(domain.WalletSnapshot)) (unsubscribe func())
}

// WalletSvcFacade combines all wallet-related service interfaces
type WalletSvcFacade interface {
	WalletReaderSvc
	IdentitySvc
	WalletRefresherSvc
	WalletWriterSvc
}

// SnapshotSvc persists the store and loads saved snapshots back into it.
type SnapshotSvc interface {
	// Run saves the store on every change until ctx is done.
	Run(ctx context.Context)

	// SignIn loads the last snapshot saved for identity.UID and signs the store in with it.
	// The store is left untouched when the snapshot cannot be loaded.
	SignIn(ctx context.Context, identity domain.Identity) error
}
