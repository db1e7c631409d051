package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	"github.com/SscSPs/wallet_ledger/internal/models"
)

// ToModelSnapshot converts a domain WalletSnapshot to a row keyed by uid.
func ToModelSnapshot(uid string, d domain.WalletSnapshot) (models.WalletSnapshot, error) {
	accounts, err := json.Marshal(d.Accounts)
	if err != nil {
		return models.WalletSnapshot{}, fmt.Errorf("failed to encode accounts: %w", err)
	}
	return models.WalletSnapshot{
		UID:           uid,
		Email:         d.Identity.Email,
		IsAnonymous:   d.Identity.IsAnonymous,
		EmailVerified: d.Identity.EmailVerified,
		BTCRate:       d.Rates.BTC,
		Accounts:      accounts,
		TakenAt:       d.TakenAt,
	}, nil
}

// ToDomainSnapshot converts a row back to a domain WalletSnapshot.
func ToDomainSnapshot(m models.WalletSnapshot) (domain.WalletSnapshot, error) {
	var accounts []domain.AccountSnapshot
	if err := json.Unmarshal(m.Accounts, &accounts); err != nil {
		return domain.WalletSnapshot{}, fmt.Errorf("failed to decode accounts: %w", err)
	}
	return domain.WalletSnapshot{
		Identity: domain.Identity{
			Email:         m.Email,
			IsAnonymous:   m.IsAnonymous,
			UID:           m.UID,
			EmailVerified: m.EmailVerified,
		},
		Accounts: accounts,
		Rates:    domain.RateTable{BTC: m.BTCRate},
		TakenAt:  m.TakenAt,
	}, nil
}
