package dbbadger

import (
	"context"
	"errors"

	"github.com/timshannon/badgerhold/v4"
	"github.com/vipstarcoin/vipswallet/internal/core/ports"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

// DefaultWalletName is the key the snapshot is stored with when none is
// given.
const DefaultWalletName = "default"

type walletRepositoryImpl struct {
	db   *DbManager
	name string
}

// NewWalletRepository returns a repository storing the snapshot under the
// given wallet name.
func NewWalletRepository(db *DbManager, name string) ports.WalletRepository {
	if name == "" {
		name = DefaultWalletName
	}
	return &walletRepositoryImpl{db, name}
}

func (r *walletRepositoryImpl) Get(_ context.Context) (*vault.Snapshot, error) {
	var snapshot vault.Snapshot
	if err := r.db.Store.Get(r.name, &snapshot); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ports.ErrWalletNotFound
		}
		return nil, err
	}
	if snapshot.Accounts == nil {
		snapshot.Accounts = make([]vault.AccountSnapshot, 0)
	}
	return &snapshot, nil
}

func (r *walletRepositoryImpl) Save(
	_ context.Context, snapshot vault.Snapshot,
) error {
	return r.db.Store.Upsert(r.name, snapshot)
}

func (r *walletRepositoryImpl) Close() error {
	return r.db.Close()
}
