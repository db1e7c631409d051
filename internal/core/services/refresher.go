package services

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/wallet_ledger/internal/core/ports/services"
)

// Refresher periodically refreshes the whole wallet store.
type Refresher struct {
	BaseService
	wallet   portssvc.WalletRefresherSvc
	interval time.Duration
}

// NewRefresher creates a refresher. A non-positive interval disables it.
func NewRefresher(wallet portssvc.WalletRefresherSvc, interval time.Duration) *Refresher {
	return &Refresher{wallet: wallet, interval: interval}
}

// Run refreshes once immediately and then on every tick until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		r.LogInfo(ctx, "Background refresh disabled")
		return
	}

	r.LogInfo(ctx, "Background refresh started", slog.Duration("interval", r.interval))
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.wallet.RefreshAll(ctx)
	for {
		select {
		case <-ctx.Done():
			r.LogInfo(ctx, "Background refresh stopped")
			return
		case <-ticker.C:
			r.wallet.RefreshAll(ctx)
		}
	}
}
