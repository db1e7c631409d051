package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/wallet_ledger/internal/apperrors"
	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	"github.com/SscSPs/wallet_ledger/internal/core/ports/clients"
	portssvc "github.com/SscSPs/wallet_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	errBitcoinHistoryNotSupported = fmt.Errorf("%w: bitcoin transaction history has no remote source", apperrors.ErrNotSupported)
	errBitcoinBalanceNotSupported = fmt.Errorf("%w: bitcoin balance has no remote source", apperrors.ErrNotSupported)
)

// WalletStore is the in-memory snapshot of the signed-in user's identity, accounts and rates.
// It seeds exactly one Checking and one Bitcoin account and never holds more.
// It is safe for concurrent use; readers always observe whole mutations.
type WalletStore struct {
	BaseService

	documents clients.UserDocumentReader
	balances  clients.FiatBalanceQuerier
	prices    clients.PriceQuoter
	now       func() time.Time

	mu       sync.RWMutex
	identity domain.Identity
	checking domain.FiatAccount
	bitcoin  domain.CryptoAccount
	rates    domain.RateTable

	// notifyMu keeps notifications in mutation order.
	notifyMu    sync.Mutex
	subMu       sync.Mutex
	subscribers map[int]func(domain.WalletSnapshot)
	nextSubID   int
}

// StoreOption is a functional option for configuring the wallet store
type StoreOption func(*WalletStore)

// WithUserDocumentReader sets the source of the checking transaction history
func WithUserDocumentReader(reader clients.UserDocumentReader) StoreOption {
	return func(s *WalletStore) {
		s.documents = reader
	}
}

// WithFiatBalanceQuerier sets the source of the checking balance
func WithFiatBalanceQuerier(querier clients.FiatBalanceQuerier) StoreOption {
	return func(s *WalletStore) {
		s.balances = querier
	}
}

// WithPriceQuoter sets the source of the BTC price
func WithPriceQuoter(quoter clients.PriceQuoter) StoreOption {
	return func(s *WalletStore) {
		s.prices = quoter
	}
}

// WithClock overrides the clock used to stamp snapshots
func WithClock(now func() time.Time) StoreOption {
	return func(s *WalletStore) {
		s.now = now
	}
}

// NewWalletStore creates a store seeded with the default identity, empty accounts and default rates.
func NewWalletStore(options ...StoreOption) *WalletStore {
	s := &WalletStore{
		now:         time.Now,
		identity:    domain.DefaultIdentity(),
		checking:    domain.NewFiatAccount(),
		bitcoin:     domain.NewCryptoAccount(),
		rates:       domain.DefaultRateTable(),
		subscribers: make(map[int]func(domain.WalletSnapshot)),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Ensure WalletStore implements the WalletSvcFacade interface
var _ portssvc.WalletSvcFacade = (*WalletStore)(nil)

// --- Views ---

func (s *WalletStore) Identity() domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *WalletStore) Rates() domain.RateTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rates
}

// Accounts returns copies of the accounts, Checking first.
func (s *WalletStore) Accounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountsLocked()
}

// AccountByType returns the unique account of the given type.
func (s *WalletStore) AccountByType(accountType domain.AccountType) (domain.Account, bool) {
	for _, account := range s.Accounts() {
		if account.Type() == accountType {
			return account, true
		}
	}
	return nil, false
}

// TotalBalanceInUSD sums balance * rate[currency] over every account.
func (s *WalletStore) TotalBalanceInUSD() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.TotalBalanceInUSD(s.accountsLocked(), s.rates)
}

// BalancesByAccountType maps each account type to its balance in USD.
func (s *WalletStore) BalancesByAccountType() map[domain.AccountType]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.BalancesByAccountType(s.accountsLocked(), s.rates)
}

func (s *WalletStore) Snapshot() domain.WalletSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *WalletStore) accountsLocked() []domain.Account {
	return []domain.Account{
		domain.FiatAccount{AccountState: s.checking.State()},
		domain.CryptoAccount{AccountState: s.bitcoin.State()},
	}
}

func (s *WalletStore) snapshotLocked() domain.WalletSnapshot {
	return domain.WalletSnapshot{
		Identity: s.identity,
		Accounts: []domain.AccountSnapshot{
			domain.SnapshotOf(s.checking),
			domain.SnapshotOf(s.bitcoin),
		},
		Rates:   s.rates,
		TakenAt: s.now(),
	}
}

// --- Identity actions ---

// SetIdentity replaces all four identity fields at once.
func (s *WalletStore) SetIdentity(email string, emailVerified, isAnonymous bool, uid string) {
	s.mutate(func() bool {
		s.identity = domain.Identity{
			Email:         email,
			EmailVerified: emailVerified,
			IsAnonymous:   isAnonymous,
			UID:           uid,
		}
		return true
	})
}

// SetIdentityEmail updates only the email.
func (s *WalletStore) SetIdentityEmail(email string) {
	s.mutate(func() bool {
		s.identity.Email = email
		return true
	})
}

// ResetIdentity restores the anonymous placeholder identity.
func (s *WalletStore) ResetIdentity() {
	s.mutate(func() bool {
		s.identity = domain.DefaultIdentity()
		return true
	})
}

// --- Refresh actions ---

// RefreshAccountHistory replaces the checking history with the per-user document of the
// current uid. The Bitcoin account has no history source.
func (s *WalletStore) RefreshAccountHistory(ctx context.Context, accountType domain.AccountType) {
	const op = "refresh_account_history"
	logger := s.GetLogger(ctx).With(slog.String("account_type", string(accountType)))

	switch accountType {
	case domain.Checking:
		uid := s.Identity().UID
		transactions, err := s.fetchCheckingHistory(ctx, uid)
		if !absorbRefreshError(ctx, logger, op, err, slog.String("uid", uid)) {
			return
		}

		stale := false
		s.mutate(func() bool {
			// The identity may have changed while the fetch was in flight.
			if s.identity.UID != uid {
				stale = true
				return false
			}
			s.checking.Transactions = transactions
			return true
		})
		if stale {
			logger.Warn("Discarding account history fetched for a previous identity", slog.String("uid", uid))
			return
		}
		logger.Debug("Account history refreshed", slog.Int("transactions", len(transactions)))
	case domain.Bitcoin:
		absorbRefreshError(ctx, logger, op, errBitcoinHistoryNotSupported)
	default:
		absorbRefreshError(ctx, logger, op, unknownAccountTypeError(accountType))
	}
}

// RefreshBalance sets the checking balance from the remote balance function.
// The Bitcoin account has no balance source.
func (s *WalletStore) RefreshBalance(ctx context.Context, accountType domain.AccountType) {
	const op = "refresh_balance"
	logger := s.GetLogger(ctx).With(slog.String("account_type", string(accountType)))

	switch accountType {
	case domain.Checking:
		balance, err := s.fetchCheckingBalance(ctx)
		if !absorbRefreshError(ctx, logger, op, err) {
			return
		}
		s.mutate(func() bool {
			s.checking.Balance = balance
			return true
		})
		logger.Debug("Balance refreshed", slog.String("balance", balance.String()))
	case domain.Bitcoin:
		absorbRefreshError(ctx, logger, op, errBitcoinBalanceNotSupported)
	default:
		absorbRefreshError(ctx, logger, op, unknownAccountTypeError(accountType))
	}
}

// RefreshRates sets rates.BTC from the price quote service.
func (s *WalletStore) RefreshRates(ctx context.Context) {
	const op = "refresh_rates"
	logger := s.GetLogger(ctx)

	price, err := s.fetchBTCPrice(ctx)
	if !absorbRefreshError(ctx, logger, op, err) {
		return
	}

	var rejected error
	s.mutate(func() bool {
		updated, err := s.rates.WithBTC(price)
		if err != nil {
			rejected = err
			return false
		}
		s.rates = updated
		return true
	})
	if rejected != nil {
		absorbRefreshError(ctx, logger, op, rejected)
		return
	}
	logger.Debug("Rates refreshed", slog.String("btc", price.String()))
}

// RefreshAllBalances refreshes every account balance in parallel.
func (s *WalletStore) RefreshAllBalances(ctx context.Context) {
	var g errgroup.Group
	for _, accountType := range domain.AccountTypes {
		g.Go(func() error {
			s.RefreshBalance(ctx, accountType)
			return nil
		})
	}
	_ = g.Wait()
}

// RefreshAll refreshes rates, balances and histories in parallel.
func (s *WalletStore) RefreshAll(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		s.RefreshRates(ctx)
		return nil
	})
	g.Go(func() error {
		s.RefreshAllBalances(ctx)
		return nil
	})
	for _, accountType := range domain.AccountTypes {
		g.Go(func() error {
			s.RefreshAccountHistory(ctx, accountType)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *WalletStore) fetchCheckingHistory(ctx context.Context, uid string) ([]domain.Transaction, error) {
	if s.documents == nil {
		return nil, fmt.Errorf("%w: no user document reader configured", apperrors.ErrNotSupported)
	}
	if uid == "" {
		return nil, fmt.Errorf("%w: no signed-in user to fetch history for", apperrors.ErrValidation)
	}

	doc, err := s.documents.FetchUserDocument(ctx, uid)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.Transactions == nil {
		return nil, apperrors.NewMalformedResponseError("user document", "transactions missing")
	}

	transactions := make([]domain.Transaction, len(doc.Transactions))
	for i, tx := range doc.Transactions {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %w", apperrors.ErrMalformedResponse, i, err)
		}
		transactions[i] = tx
	}
	return transactions, nil
}

func (s *WalletStore) fetchCheckingBalance(ctx context.Context) (decimal.Decimal, error) {
	if s.balances == nil {
		return decimal.Zero, fmt.Errorf("%w: no fiat balance querier configured", apperrors.ErrNotSupported)
	}

	resp, err := s.balances.QueryFiatBalances(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if resp == nil || resp.Data == nil {
		return decimal.Zero, apperrors.NewMalformedResponseError("fiat balances", "data missing")
	}

	balance, ok := resp.Data[string(domain.Checking)]
	if !ok {
		return decimal.Zero, apperrors.NewMalformedResponseError("fiat balances", "Checking balance missing")
	}
	return balance, nil
}

func (s *WalletStore) fetchBTCPrice(ctx context.Context) (decimal.Decimal, error) {
	if s.prices == nil {
		return decimal.Zero, fmt.Errorf("%w: no price quoter configured", apperrors.ErrNotSupported)
	}

	quote, err := s.prices.GetPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if quote == nil || quote.Price == nil {
		detail := "price missing"
		if quote != nil && quote.Problem != "" {
			detail = quote.Problem
		}
		return decimal.Zero, apperrors.NewMalformedResponseError("price quote", detail)
	}
	return *quote.Price, nil
}

// --- Local mutations ---

// ResetAccount clears the checking history and zeroes its balance.
func (s *WalletStore) ResetAccount(accountType domain.AccountType) error {
	switch accountType {
	case domain.Checking:
		s.mutate(func() bool {
			s.checking.Reset()
			return true
		})
		return nil
	case domain.Bitcoin:
		return fmt.Errorf("%w: the Bitcoin account cannot be reset", apperrors.ErrNotSupported)
	default:
		return unknownAccountTypeError(accountType)
	}
}

// Restore replaces the whole store tree with a previously taken snapshot.
func (s *WalletStore) Restore(snapshot domain.WalletSnapshot) error {
	fiat, crypto, rates, err := restoredState(snapshot)
	if err != nil {
		return err
	}

	s.mutate(func() bool {
		s.identity = snapshot.Identity
		s.checking = fiat
		s.bitcoin = crypto
		s.rates = rates
		return true
	})
	return nil
}

// SignIn replaces the identity and the accounts in one mutation, so no published snapshot
// pairs the new uid with the accounts of the previous user. A saved snapshot restores the
// accounts of identity.UID; without one the accounts start empty, unless identity.UID is
// already signed in. Rates are market data and are kept.
func (s *WalletStore) SignIn(identity domain.Identity, saved *domain.WalletSnapshot) error {
	var (
		fiat   domain.FiatAccount
		crypto domain.CryptoAccount
	)
	if saved != nil {
		var err error
		if fiat, crypto, _, err = restoredState(*saved); err != nil {
			return err
		}
	}

	s.mutate(func() bool {
		switch {
		case saved != nil:
			s.checking = fiat
			s.bitcoin = crypto
		case s.identity.UID != identity.UID:
			s.checking = domain.NewFiatAccount()
			s.bitcoin = domain.NewCryptoAccount()
		}
		s.identity = identity
		return true
	})
	return nil
}

func restoredState(snapshot domain.WalletSnapshot) (domain.FiatAccount, domain.CryptoAccount, domain.RateTable, error) {
	rates := domain.DefaultRateTable()
	fiat, crypto, err := snapshot.ToAccounts()
	if err != nil {
		return fiat, crypto, rates, fmt.Errorf("failed to restore wallet snapshot: %w", err)
	}
	if rates, err = rates.WithBTC(snapshot.Rates.BTC); err != nil {
		return fiat, crypto, rates, fmt.Errorf("failed to restore wallet snapshot: %w", err)
	}
	return fiat, crypto, rates, nil
}

// Subscribe registers fn to receive a snapshot after every mutation.
// fn runs synchronously after the mutation and must not mutate the store itself.
func (s *WalletStore) Subscribe(fn func(domain.WalletSnapshot)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
		})
	}
}

// mutate runs apply under the write lock and notifies subscribers when it reports a change.
func (s *WalletStore) mutate(apply func() bool) {
	s.mu.Lock()
	if !apply() {
		s.mu.Unlock()
		return
	}
	snapshot := s.snapshotLocked()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.subMu.Lock()
	subscribers := make([]func(domain.WalletSnapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func unknownAccountTypeError(accountType domain.AccountType) error {
	return fmt.Errorf("%w: unknown account type '%s'", apperrors.ErrValidation, accountType)
}
