package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vipstarcoin/vipswallet/internal/core/ports"
	dbbadger "github.com/vipstarcoin/vipswallet/internal/infrastructure/storage/db/badger"
	dbfile "github.com/vipstarcoin/vipswallet/internal/infrastructure/storage/db/file"
	"github.com/vipstarcoin/vipswallet/internal/infrastructure/storage/db/inmemory"
)

var ctx = context.Background()

type walletRepository struct {
	Name       string
	Repository ports.WalletRepository
}

func TestWalletRepositoryImplementations(t *testing.T) {
	repositories := createWalletRepositories(t)

	for i := range repositories {
		repo := repositories[i]

		t.Run(repo.Name, func(t *testing.T) {
			t.Run("get_empty", func(t *testing.T) {
				testGetEmptyWallet(t, createWalletRepositories(t)[i])
			})
			t.Run("save_and_get", func(t *testing.T) {
				testSaveAndGetWallet(t, repo)
			})
			t.Run("overwrite", func(t *testing.T) {
				testOverwriteWallet(t, repo)
			})
		})
	}
}

func testGetEmptyWallet(t *testing.T, repo walletRepository) {
	snapshot, err := repo.Repository.Get(ctx)
	require.ErrorIs(t, err, ports.ErrWalletNotFound)
	require.Nil(t, snapshot)
}

func testSaveAndGetWallet(t *testing.T, repo walletRepository) {
	snapshot := makeRandomSnapshot(2)

	err := repo.Repository.Save(ctx, snapshot)
	require.NoError(t, err)

	got, err := repo.Repository.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, snapshot, *got)
}

func testOverwriteWallet(t *testing.T, repo walletRepository) {
	first := makeRandomSnapshot(1)
	second := makeRandomSnapshot(3)

	require.NoError(t, repo.Repository.Save(ctx, first))
	require.NoError(t, repo.Repository.Save(ctx, second))

	got, err := repo.Repository.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, second, *got)
}

func TestFileWalletRepository(t *testing.T) {
	dir := t.TempDir()
	repo, err := dbfile.NewWalletRepository(dir)
	require.NoError(t, err)

	snapshot := makeRandomSnapshot(1)
	require.NoError(t, repo.Save(ctx, snapshot))

	path := filepath.Join(dir, dbfile.WalletFilename)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	_, err = repo.Get(ctx)
	require.Error(t, err)
}

func TestBadgerWalletRepositoryReopen(t *testing.T) {
	dir := t.TempDir()
	snapshot := makeRandomSnapshot(2)

	dbManager, err := dbbadger.NewDbManager(dir, nil)
	require.NoError(t, err)
	repo := dbbadger.NewWalletRepository(dbManager, "main")
	require.NoError(t, repo.Save(ctx, snapshot))
	require.NoError(t, repo.Close())

	dbManager, err = dbbadger.NewDbManager(dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { dbManager.Close() })

	got, err := dbbadger.NewWalletRepository(dbManager, "main").Get(ctx)
	require.NoError(t, err)
	require.Equal(t, snapshot, *got)

	_, err = dbbadger.NewWalletRepository(dbManager, "other").Get(ctx)
	require.ErrorIs(t, err, ports.ErrWalletNotFound)
}

func createWalletRepositories(t *testing.T) []walletRepository {
	badgerDBManager, err := dbbadger.NewDbManager("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { badgerDBManager.Close() })

	fileRepository, err := dbfile.NewWalletRepository(t.TempDir())
	require.NoError(t, err)

	return []walletRepository{
		{
			Name:       "badger",
			Repository: dbbadger.NewWalletRepository(badgerDBManager, ""),
		},
		{
			Name:       "file",
			Repository: fileRepository,
		},
		{
			Name:       "inmemory",
			Repository: inmemory.NewWalletRepository(),
		},
	}
}
