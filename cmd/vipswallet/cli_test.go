package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vipstarcoin/vipswallet/internal/config"
	dbfile "github.com/vipstarcoin/vipswallet/internal/infrastructure/storage/db/file"
	"github.com/vipstarcoin/vipswallet/pkg/network"
)

const (
	password = "hodlhodlhodl"
	mnemonic = "abandon abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon about"
)

func runCLICommand(t *testing.T, datadir, db string, args ...string) error {
	base := []string{
		"vipswallet", "--network", network.RegtestName,
		"--datadir", datadir, "--db", db,
	}
	return newApp().Run(append(base, args...))
}

func TestGenSeed(t *testing.T) {
	require.NoError(t, newApp().Run([]string{"vipswallet", "genseed"}))
}

func TestInitWallet(t *testing.T) {
	for _, db := range []string{config.DBJson, config.DBBadger} {
		t.Run(db, func(t *testing.T) {
			datadir := t.TempDir()

			err := runCLICommand(t, datadir, db, "listaccounts")
			require.Error(t, err)

			err = runCLICommand(
				t, datadir, db, "init", "--seed", mnemonic, "--password", password,
			)
			require.NoError(t, err)

			err = runCLICommand(
				t, datadir, db, "init", "--seed", mnemonic, "--password", password,
			)
			require.Error(t, err)

			err = runCLICommand(t, datadir, db, "listaccounts")
			require.NoError(t, err)

			err = runCLICommand(
				t, datadir, db, "changepassword",
				"--current_password", password, "--new_password", "newpassword",
			)
			require.NoError(t, err)
		})
	}
}

func TestWalletFile(t *testing.T) {
	datadir := t.TempDir()

	err := runCLICommand(
		t, datadir, config.DBJson, "init", "--seed", mnemonic, "--password", password,
	)
	require.NoError(t, err)

	path := filepath.Join(
		datadir, config.DbLocation, network.RegtestName, dbfile.WalletFilename,
	)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestInvalidUsage(t *testing.T) {
	datadir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"init_without_seed", []string{"init", "--password", password}},
		{"setdefault_without_label", []string{"setdefault"}},
		{"send_without_amount", []string{"send", "--to", "addr"}},
		{"signmessage_without_message", []string{"signmessage"}},
		{"tokeninfo_without_contract", []string{"tokeninfo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLICommand(t, datadir, config.DBJson, tt.args...)
			var e *invalidUsageError
			require.ErrorAs(t, err, &e)
		})
	}
}
