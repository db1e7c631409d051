package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/wallet_ledger/internal/apperrors"
	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/wallet_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/wallet_ledger/internal/core/ports/services"
)

const flushTimeout = 5 * time.Second

// snapshotService persists the wallet store for the signed-in user and restores it on sign-in.
// Saves run on their own goroutine; pending snapshots are coalesced so only the latest is written.
// Only snapshots of the uid that signed in through SignIn are saved.
type snapshotService struct {
	BaseService
	repo    portsrepo.SnapshotRepositoryFacade
	wallet  portssvc.WalletSvcFacade
	pending chan domain.WalletSnapshot

	signInMu sync.Mutex
	ownerMu  sync.RWMutex
	owner    string
}

// NewSnapshotService creates a snapshot service bound to wallet.
func NewSnapshotService(repo portsrepo.SnapshotRepositoryFacade, wallet portssvc.WalletSvcFacade) portssvc.SnapshotSvc {
	return &snapshotService{
		repo:    repo,
		wallet:  wallet,
		pending: make(chan domain.WalletSnapshot, 1),
	}
}

var _ portssvc.SnapshotSvc = (*snapshotService)(nil)

// Run saves every store change until ctx is done, then flushes the last pending snapshot.
func (s *snapshotService) Run(ctx context.Context) {
	unsubscribe := s.wallet.Subscribe(s.enqueue)
	defer unsubscribe()

	s.LogInfo(ctx, "Snapshot persistence started")
	for {
		select {
		case <-ctx.Done():
			s.flush(ctx)
			s.LogInfo(ctx, "Snapshot persistence stopped")
			return
		case snapshot := <-s.pending:
			s.save(ctx, snapshot)
		}
	}
}

// SignIn loads the last snapshot of identity.UID, then applies identity and the snapshot to the
// store in a single mutation. The live identity wins over the persisted one.
func (s *snapshotService) SignIn(ctx context.Context, identity domain.Identity) error {
	if !identity.IsSignedIn() {
		return fmt.Errorf("%w: sign-in requires a uid", apperrors.ErrValidation)
	}

	s.signInMu.Lock()
	defer s.signInMu.Unlock()

	uid := slog.String("uid", identity.UID)
	saved, err := s.repo.FindSnapshotByUID(ctx, identity.UID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		s.LogInfo(ctx, "No saved wallet snapshot for user", uid)
		saved = nil
	case err != nil:
		s.LogError(ctx, err, "Failed to load wallet snapshot", uid)
		return fmt.Errorf("failed to load wallet snapshot: %w", err)
	}

	s.setOwner(identity.UID)
	if err := s.wallet.SignIn(identity, saved); err != nil {
		if saved == nil {
			return err
		}
		s.LogError(ctx, err, "Saved wallet snapshot is unusable, signing in with empty accounts", uid)
		return s.wallet.SignIn(identity, nil)
	}

	if saved != nil {
		s.LogInfo(ctx, "Wallet snapshot restored", uid, slog.Time("taken_at", saved.TakenAt))
	}
	return nil
}

func (s *snapshotService) setOwner(uid string) {
	s.ownerMu.Lock()
	s.owner = uid
	s.ownerMu.Unlock()
}

func (s *snapshotService) ownedBy(uid string) bool {
	s.ownerMu.RLock()
	defer s.ownerMu.RUnlock()
	return s.owner != "" && s.owner == uid
}

func (s *snapshotService) enqueue(snapshot domain.WalletSnapshot) {
	if !snapshot.Identity.IsSignedIn() || !s.ownedBy(snapshot.Identity.UID) {
		return
	}
	select {
	case s.pending <- snapshot:
		return
	default:
	}
	// Replace the unsaved snapshot with the newer one.
	select {
	case <-s.pending:
	default:
	}
	select {
	case s.pending <- snapshot:
	default:
	}
}

func (s *snapshotService) flush(ctx context.Context) {
	select {
	case snapshot := <-s.pending:
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flushTimeout)
		defer cancel()
		s.save(flushCtx, snapshot)
	default:
	}
}

func (s *snapshotService) save(ctx context.Context, snapshot domain.WalletSnapshot) {
	uid := snapshot.Identity.UID
	if err := s.repo.SaveSnapshot(ctx, uid, snapshot); err != nil {
		s.LogError(ctx, err, "Failed to save wallet snapshot", slog.String("uid", uid))
		return
	}
	s.LogDebug(ctx, "Wallet snapshot saved", slog.String("uid", uid))
}
