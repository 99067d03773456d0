package vault_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vipstarcoin/vipswallet/pkg/address"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/network"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
	"github.com/vipstarcoin/vipswallet/pkg/wallet"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon " +
		"abandon abandon abandon abandon abandon about"
	testPassword = "Sup3rS3cr3tP4ssw0rd!"
)

var testNet = network.Regtest

type testAccount struct {
	*vault.Account
	xpub string
}

// newTestAccount builds an account of the given type derived from the test
// mnemonic, with an empty address book.
func newTestAccount(
	t *testing.T, accountType vault.AccountType, provider explorer.Service,
	discovery vault.DiscoveryOpts,
) testAccount {
	seed, err := wallet.MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)
	path, err := wallet.AccountPath(uint32(accountType), network.CoinType, 0)
	require.NoError(t, err)
	keys, err := wallet.DeriveAccountKey(wallet.DeriveAccountKeyOpts{
		SeedHex: seed,
		Path:    path,
		Network: testNet,
	})
	require.NoError(t, err)
	cypher, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  keys.ExtendedPrivateKey,
		Passphrase: testPassword,
	})
	require.NoError(t, err)

	account, err := vault.NewAccount(vault.AccountOpts{
		Label:               "test",
		Type:                accountType,
		EncryptedPrivateKey: cypher,
		PublicKey:           keys.ExtendedPublicKey,
		Provider:            provider,
		Network:             testNet,
		Discovery:           discovery,
	})
	require.NoError(t, err)

	return testAccount{account, keys.ExtendedPublicKey}
}

// addressAt derives the address at the given path independently from the
// account.
func (a testAccount) addressAt(t *testing.T, change, index uint32) string {
	pubkey, err := wallet.DeriveChildPublicKey(a.xpub, change, index)
	require.NoError(t, err)

	var addr string
	if a.Type() == vault.AccountTypeLegacy {
		addr, err = address.PubKeyHashAddress(pubkey, testNet)
	} else {
		addr, err = address.WrappedSegwitAddress(pubkey, testNet)
	}
	require.NoError(t, err)
	return addr
}

func newUtxo(t *testing.T, addr string, txid byte, satoshis uint64) explorer.Utxo {
	script, err := address.ToOutputScript(addr, testNet)
	require.NoError(t, err)

	return explorer.Utxo{
		Address:       addr,
		TxID:          strings.Repeat(hex.EncodeToString([]byte{txid}), 32),
		Vout:          0,
		ScriptPubKey:  hex.EncodeToString(script),
		Satoshis:      satoshis,
		Confirmations: 10,
	}
}

func randomAddress(t *testing.T) string {
	addr, err := address.FromHexAddress(strings.Repeat("ab", 20), testNet)
	require.NoError(t, err)
	return addr
}
