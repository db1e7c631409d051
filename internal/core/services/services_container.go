package services

import (
	"github.com/SscSPs/wallet_ledger/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/wallet_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/wallet_ledger/internal/core/ports/services"
)

// RemoteClients holds the remote service adapters the wallet store refreshes from.
// Any of them may be nil; the matching refresh is then logged as not supported.
type RemoteClients struct {
	Documents clients.UserDocumentReader
	Balances  clients.FiatBalanceQuerier
	Prices    clients.PriceQuoter
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(remote RemoteClients, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	options := []StoreOption{}
	if remote.Documents != nil {
		options = append(options, WithUserDocumentReader(remote.Documents))
	}
	if remote.Balances != nil {
		options = append(options, WithFiatBalanceQuerier(remote.Balances))
	}
	if remote.Prices != nil {
		options = append(options, WithPriceQuoter(remote.Prices))
	}
	container.Wallet = NewWalletStore(options...)

	// Persistence is optional
	if repos.SnapshotRepo != nil {
		container.Snapshots = NewSnapshotService(repos.SnapshotRepo, container.Wallet)
	}

	return container
}
