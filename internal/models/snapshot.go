package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletSnapshot is one row of wallet_snapshots, the last known store state per uid.
type WalletSnapshot struct {
	UID           string          `db:"uid"`
	Email         string          `db:"email"`
	IsAnonymous   bool            `db:"is_anonymous"`
	EmailVerified bool            `db:"email_verified"`
	BTCRate       decimal.Decimal `db:"btc_rate"`
	Accounts      []byte          `db:"accounts"` // JSONB array of account snapshots
	TakenAt       time.Time       `db:"taken_at"`
	CreatedAt     time.Time       `db:"created_at"`
	LastUpdatedAt time.Time       `db:"last_updated_at"`
}
