package vault_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

func TestSignMessage(t *testing.T) {
	t.Parallel()

	for _, accountType := range []vault.AccountType{
		vault.AccountTypeLegacy, vault.AccountTypeWrappedSegwit,
	} {
		account := newTestAccount(t, accountType, &fakeChain{}, vault.DiscoveryOpts{})
		require.NoError(t, account.Discover(context.Background()))

		message := "vipstarcoin"
		addr := account.addressAt(t, 1, 4)

		sig, err := account.SignMessage(message, 1, 4, testPassword)
		require.NoError(t, err)

		ok, err := account.VerifySignedMessage(message, addr, sig)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = account.VerifySignedMessage("another message", addr, sig)
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = account.VerifySignedMessage(message, account.addressAt(t, 0, 4), sig)
		require.NoError(t, err)
		require.False(t, ok)

		sigWithAddress, err := account.SignMessageWithAddress(message, addr, testPassword)
		require.NoError(t, err)
		require.Equal(t, sig, sigWithAddress)
	}
}

func TestFailingSignMessage(t *testing.T) {
	t.Parallel()

	account := newTestAccount(t, vault.AccountTypeLegacy, &fakeChain{}, vault.DiscoveryOpts{})
	require.NoError(t, account.Discover(context.Background()))

	_, err := account.SignMessage("message", 0, 0, "wrong password")
	require.True(t, errors.Is(err, vault.ErrDecryptionFailed))

	_, err = account.SignMessageWithAddress("message", randomAddress(t), testPassword)
	require.True(t, errors.Is(err, vault.ErrUnknownAddress))
}
