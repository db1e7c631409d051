package repositories

import (
	"context"

	"github.com/SscSPs/wallet_ledger/internal/core/domain"
)

// SnapshotReader defines read operations for persisted wallet snapshots
type SnapshotReader interface {
	// FindSnapshotByUID retrieves the last snapshot saved for a user.
	// Returns apperrors.ErrNotFound when nothing was saved yet.
	FindSnapshotByUID(ctx context.Context, uid string) (*domain.WalletSnapshot, error)
}

// SnapshotWriter defines write operations for persisted wallet snapshots
type SnapshotWriter interface {
	// SaveSnapshot replaces the stored snapshot of a user.
	SaveSnapshot(ctx context.Context, uid string, snapshot domain.WalletSnapshot) error
}

// SnapshotRepositoryFacade combines all snapshot-related repository interfaces
type SnapshotRepositoryFacade interface {
	SnapshotReader
	SnapshotWriter
}
