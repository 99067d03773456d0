package dbfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vipstarcoin/vipswallet/internal/core/ports"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

const (
	// WalletFilename is the name of the snapshot file within the db dir.
	WalletFilename = "wallet.json"

	filePerm = 0600
)

type walletRepositoryImpl struct {
	lock sync.Mutex
	path string
}

// NewWalletRepository returns a repository storing the snapshot as a JSON
// file in the given directory.
func NewWalletRepository(dbDir string) (ports.WalletRepository, error) {
	if err := os.MkdirAll(dbDir, os.ModeDir|0700); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}
	return &walletRepositoryImpl{
		path: filepath.Join(dbDir, WalletFilename),
	}, nil
}

func (r *walletRepositoryImpl) Get(_ context.Context) (*vault.Snapshot, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ports.ErrWalletNotFound
		}
		return nil, err
	}
	return vault.ParseSnapshot(data)
}

// Save writes the snapshot to a temp file in the same dir and renames it
// over the previous one.
func (r *walletRepositoryImpl) Save(
	_ context.Context, snapshot vault.Snapshot,
) error {
	data, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(r.path), WalletFilename+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, r.path)
}

func (r *walletRepositoryImpl) Close() error {
	return nil
}
