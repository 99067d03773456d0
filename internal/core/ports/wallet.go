package ports

import (
	"context"
	"errors"

	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

var (
	// ErrWalletNotFound is returned by a WalletRepository that has nothing
	// stored yet.
	ErrWalletNotFound = errors.New("wallet not found")
)

// WalletRepository persists the snapshot of the wallet group. Every
// implementation stores at most one snapshot.
type WalletRepository interface {
	// Get returns the stored snapshot or ErrWalletNotFound.
	Get(ctx context.Context) (*vault.Snapshot, error)
	// Save replaces the stored snapshot with the given one.
	Save(ctx context.Context, snapshot vault.Snapshot) error
	Close() error
}
