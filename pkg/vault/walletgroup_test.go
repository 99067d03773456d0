package vault_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/network"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
	"github.com/vipstarcoin/vipswallet/pkg/wallet"
)

func newTestOptions(chain *fakeChain) vault.Options {
	registry := explorer.NewRegistry(testNet)
	registry.Register(vault.DefaultProvider, func(*network.Params) (explorer.Service, error) {
		return chain, nil
	})
	return vault.Options{
		Network:  testNet,
		Resolver: registry,
	}
}

func newTestGroup(t *testing.T, chain *fakeChain) *vault.WalletGroup {
	group, err := vault.FromMnemonic(testMnemonic, testPassword, newTestOptions(chain))
	require.NoError(t, err)
	return group
}

func TestFromMnemonic(t *testing.T) {
	t.Parallel()

	group := newTestGroup(t, &fakeChain{name: vault.DefaultProvider})
	require.Empty(t, group.Accounts())

	mnemonic, err := group.ToMnemonic(testPassword)
	require.NoError(t, err)
	require.Equal(t, testMnemonic, mnemonic)

	_, err = group.ToMnemonic("wrong password")
	require.True(t, errors.Is(err, vault.ErrDecryptionFailed))

	_, err = vault.FromMnemonic(
		"abandon abandon abandon", testPassword, newTestOptions(&fakeChain{}),
	)
	require.True(t, errors.Is(err, vault.ErrInvalidMnemonic))

	_, err = vault.FromMnemonic(testMnemonic, testPassword, vault.Options{})
	require.True(t, errors.Is(err, vault.ErrNullNetwork))
}

func TestNewMnemonicWalletGroup(t *testing.T) {
	t.Parallel()

	opts := newTestOptions(&fakeChain{name: vault.DefaultProvider})
	opts.Scheme = wallet.SchemeAuthenticated

	group, mnemonic, err := vault.NewMnemonicWalletGroup(testPassword, opts)
	require.NoError(t, err)
	require.True(t, wallet.IsMnemonicValid(mnemonic))

	restored, err := group.ToMnemonic(testPassword)
	require.NoError(t, err)
	require.Equal(t, mnemonic, restored)

	snap := group.ToSnapshot()
	require.Equal(t, wallet.SchemeAuthenticated, wallet.SchemeOf(snap.Entropy))
	require.Equal(t, wallet.SchemeAuthenticated, wallet.SchemeOf(snap.Seed))
}

func TestCreateAccount(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{name: vault.DefaultProvider}
	group := newTestGroup(t, chain)

	tests := []struct {
		label         string
		accountType   vault.AccountType
		accountNumber uint32
	}{
		{"main", vault.AccountTypeLegacy, 0},
		{"segwit", vault.AccountTypeWrappedSegwit, 0},
		{"second", vault.AccountTypeLegacy, 1},
	}

	for _, tt := range tests {
		account, err := group.CreateAccount(context.Background(), vault.CreateAccountOpts{
			Label:         tt.label,
			Type:          tt.accountType,
			AccountNumber: tt.accountNumber,
			Password:      testPassword,
		})
		require.NoError(t, err)
		require.Len(t, account.Addresses(), 20)

		got, ok := group.GetAccount(tt.accountType, tt.accountNumber)
		require.True(t, ok)
		require.Equal(t, tt.accountType, got.Type())
		require.Equal(t, tt.accountNumber, got.AccountNumber())
		require.Equal(t, tt.label, got.Label())

		got, ok = group.GetAccountByLabel(tt.label)
		require.True(t, ok)
		require.Same(t, account, got)
	}

	require.Len(t, group.Accounts(), 3)
	require.Equal(t, "main", group.DefaultAccount())

	def, ok := group.GetAccountByLabel("")
	require.True(t, ok)
	require.Equal(t, "main", def.Label())

	require.NoError(t, group.SetDefaultAccount("segwit"))
	def, ok = group.GetAccountByLabel("")
	require.True(t, ok)
	require.Equal(t, vault.AccountTypeWrappedSegwit, def.Type())

	err := group.SetDefaultAccount("unknown")
	require.True(t, errors.Is(err, vault.ErrAccountNotFound))

	_, ok = group.GetAccount(vault.AccountTypeLegacy, 5)
	require.False(t, ok)
	_, ok = group.GetAccountByLabel("unknown")
	require.False(t, ok)

	// accounts derived from the same seed and path share the keys
	other := newTestAccount(t, vault.AccountTypeLegacy, chain, vault.DiscoveryOpts{})
	main, _ := group.GetAccount(vault.AccountTypeLegacy, 0)
	require.Equal(t, other.PublicKey(), main.PublicKey())
}

func TestDuplicatedLabel(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{name: vault.DefaultProvider}
	group := newTestGroup(t, chain)

	for _, number := range []uint32{0, 1} {
		_, err := group.CreateAccount(context.Background(), vault.CreateAccountOpts{
			Label:         "main",
			Type:          vault.AccountTypeLegacy,
			AccountNumber: number,
			Password:      testPassword,
		})
		require.NoError(t, err)
	}
	require.Len(t, group.Accounts(), 2)

	account, ok := group.GetAccountByLabel("main")
	require.True(t, ok)
	require.Equal(t, uint32(0), account.AccountNumber())

	restored, err := vault.FromSnapshot(group.ToSnapshot(), newTestOptions(chain))
	require.NoError(t, err)
	require.Len(t, restored.Accounts(), 2)

	account, ok = restored.GetAccountByLabel("main")
	require.True(t, ok)
	require.Equal(t, uint32(0), account.AccountNumber())
	require.Equal(t, uint32(1), restored.Accounts()[1].AccountNumber())
}

func TestFailingCreateAccount(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{name: vault.DefaultProvider}
	group := newTestGroup(t, chain)
	_, err := group.CreateAccount(context.Background(), vault.CreateAccountOpts{
		Label:    "main",
		Type:     vault.AccountTypeLegacy,
		Password: testPassword,
	})
	require.NoError(t, err)

	tests := []struct {
		name          string
		opts          vault.CreateAccountOpts
		expectedError error
	}{
		{
			name: "invalid_type",
			opts: vault.CreateAccountOpts{
				Label: "a", Type: 84, Password: testPassword,
			},
			expectedError: vault.ErrInvalidAccountType,
		},
		{
			name: "wrong_password",
			opts: vault.CreateAccountOpts{
				Label: "a", Type: vault.AccountTypeLegacy, AccountNumber: 1,
				Password: "wrong password",
			},
			expectedError: vault.ErrDecryptionFailed,
		},
		{
			name: "duplicated_account",
			opts: vault.CreateAccountOpts{
				Label: "a", Type: vault.AccountTypeLegacy, Password: testPassword,
			},
			expectedError: vault.ErrAccountExists,
		},
		{
			name: "unknown_provider",
			opts: vault.CreateAccountOpts{
				Label: "a", Type: vault.AccountTypeLegacy, AccountNumber: 1,
				Password: testPassword, Provider: "unknown",
			},
			expectedError: vault.ErrInvalidApiProvider,
		},
	}

	for _, tt := range tests {
		account, err := group.CreateAccount(context.Background(), tt.opts)
		require.Error(t, err, tt.name)
		require.True(t, errors.Is(err, tt.expectedError), tt.name+": "+err.Error())
		require.Nil(t, account)
	}
	require.Len(t, group.Accounts(), 1)

	t.Run("failing_discovery", func(t *testing.T) {
		chain := &fakeChain{name: vault.DefaultProvider, err: vault.ErrProviderUnavailable}
		group := newTestGroup(t, chain)

		_, err := group.CreateAccount(context.Background(), vault.CreateAccountOpts{
			Label: "main", Type: vault.AccountTypeLegacy, Password: testPassword,
		})
		require.True(t, errors.Is(err, vault.ErrProviderUnavailable))
		require.Empty(t, group.Accounts())
		require.Empty(t, group.DefaultAccount())
	})
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	group := newTestGroup(t, &fakeChain{name: vault.DefaultProvider})
	account, err := group.CreateAccount(context.Background(), vault.CreateAccountOpts{
		Label: "main", Type: vault.AccountTypeLegacy, Password: testPassword,
	})
	require.NoError(t, err)

	err = group.ChangePassword("wrong password", "newpassword")
	require.True(t, errors.Is(err, vault.ErrDecryptionFailed))

	require.NoError(t, group.ChangePassword(testPassword, "newpassword"))

	mnemonic, err := group.ToMnemonic("newpassword")
	require.NoError(t, err)
	require.Equal(t, testMnemonic, mnemonic)

	_, err = account.SignMessage("message", 0, 0, "newpassword")
	require.NoError(t, err)
	_, err = account.SignMessage("message", 0, 0, testPassword)
	require.True(t, errors.Is(err, vault.ErrDecryptionFailed))

	_, err = group.CreateAccount(context.Background(), vault.CreateAccountOpts{
		Label: "other", Type: vault.AccountTypeLegacy, AccountNumber: 1,
		Password: "newpassword",
	})
	require.NoError(t, err)
}

func TestWalletGroupDiscover(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{name: vault.DefaultProvider}
	group := newTestGroup(t, chain)
	for i, accountType := range []vault.AccountType{
		vault.AccountTypeLegacy, vault.AccountTypeWrappedSegwit,
	} {
		_, err := group.CreateAccount(context.Background(), vault.CreateAccountOpts{
			Label: string(rune('a' + i)), Type: accountType, Password: testPassword,
		})
		require.NoError(t, err)
	}

	legacy, _ := group.GetAccount(vault.AccountTypeLegacy, 0)
	segwit, _ := group.GetAccount(vault.AccountTypeWrappedSegwit, 0)
	chain.addTx("tx1", nil, []string{legacy.Addresses()[19].External})
	chain.addTx("tx2", nil, []string{segwit.Addresses()[0].Change})

	require.NoError(t, group.Discover(context.Background()))
	require.Len(t, legacy.Addresses(), 40)
	require.True(t, legacy.Addresses()[19].Used)
	// change addresses are not probed by the window scan
	require.Len(t, segwit.Addresses(), 20)
	require.False(t, segwit.Addresses()[0].Used)
}
