package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/wallet_ledger/internal/apperrors"
	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/wallet_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/wallet_ledger/internal/models"
	"github.com/SscSPs/wallet_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSnapshotRepository struct {
	BaseRepository
}

// newPgxSnapshotRepository creates a new repository for wallet snapshots.
func newPgxSnapshotRepository(pool *pgxpool.Pool) portsrepo.SnapshotRepositoryFacade {
	return &PgxSnapshotRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.SnapshotRepositoryFacade = (*PgxSnapshotRepository)(nil)

// SaveSnapshot inserts or replaces the snapshot stored for uid.
func (r *PgxSnapshotRepository) SaveSnapshot(ctx context.Context, uid string, snapshot domain.WalletSnapshot) error {
	if uid == "" {
		return apperrors.NewValidationError("snapshot uid cannot be empty")
	}
	row, err := mapping.ToModelSnapshot(uid, snapshot)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to map wallet snapshot", err)
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO wallet_snapshots (uid, email, is_anonymous, email_verified, btc_rate, accounts, taken_at, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (uid) DO UPDATE SET
			email = EXCLUDED.email,
			is_anonymous = EXCLUDED.is_anonymous,
			email_verified = EXCLUDED.email_verified,
			btc_rate = EXCLUDED.btc_rate,
			accounts = EXCLUDED.accounts,
			taken_at = EXCLUDED.taken_at,
			last_updated_at = EXCLUDED.last_updated_at
		WHERE wallet_snapshots.taken_at <= EXCLUDED.taken_at;
	`

	_, err = r.Pool.Exec(ctx, query,
		row.UID,
		row.Email,
		row.IsAnonymous,
		row.EmailVerified,
		row.BTCRate,
		row.Accounts,
		row.TakenAt,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to save wallet snapshot for %s: %w", uid, err)
	}
	return nil
}

// FindSnapshotByUID retrieves the last snapshot saved for uid.
func (r *PgxSnapshotRepository) FindSnapshotByUID(ctx context.Context, uid string) (*domain.WalletSnapshot, error) {
	query := `
		SELECT uid, email, is_anonymous, email_verified, btc_rate, accounts, taken_at, created_at, last_updated_at
		FROM wallet_snapshots
		WHERE uid = $1;
	`
	var row models.WalletSnapshot
	err := r.Pool.QueryRow(ctx, query, uid).Scan(
		&row.UID,
		&row.Email,
		&row.IsAnonymous,
		&row.EmailVerified,
		&row.BTCRate,
		&row.Accounts,
		&row.TakenAt,
		&row.CreatedAt,
		&row.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no wallet snapshot for user %s", uid))
		}
		return nil, fmt.Errorf("failed to find wallet snapshot for %s: %w", uid, err)
	}

	snapshot, err := mapping.ToDomainSnapshot(row)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "stored wallet snapshot is unreadable", err)
	}
	return &snapshot, nil
}
