package inmemory

import (
	"context"
	"sync"

	"github.com/vipstarcoin/vipswallet/internal/core/ports"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

type walletRepositoryImpl struct {
	lock     sync.RWMutex
	snapshot []byte
}

// NewWalletRepository returns a repository that keeps the snapshot in
// memory, serialized so that callers never share state with the store.
func NewWalletRepository() ports.WalletRepository {
	return &walletRepositoryImpl{}
}

func (r *walletRepositoryImpl) Get(_ context.Context) (*vault.Snapshot, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.snapshot == nil {
		return nil, ports.ErrWalletNotFound
	}
	return vault.ParseSnapshot(r.snapshot)
}

func (r *walletRepositoryImpl) Save(
	_ context.Context, snapshot vault.Snapshot,
) error {
	data, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.snapshot = data
	return nil
}

func (r *walletRepositoryImpl) Close() error {
	return nil
}
