package vault

import (
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/vipstarcoin/vipswallet/pkg/address"
	"github.com/vipstarcoin/vipswallet/pkg/network"
	"github.com/vipstarcoin/vipswallet/pkg/wallet"
)

// AccountType is the BIP-43 purpose of an account and determines how its
// addresses are generated and its inputs signed.
type AccountType uint32

const (
	// AccountTypeLegacy is a BIP-44 account with P2PKH addresses. It is the
	// only type able to call contracts.
	AccountTypeLegacy AccountType = 44
	// AccountTypeWrappedSegwit is a BIP-49 account with P2SH-P2WPKH addresses.
	AccountTypeWrappedSegwit AccountType = 49
)

// ParseAccountType ...
func ParseAccountType(s string) (AccountType, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAccountType, s)
	}
	t := AccountType(n)
	if _, err := schemeFor(t); err != nil {
		return 0, err
	}
	return t, nil
}

func (t AccountType) String() string {
	switch t {
	case AccountTypeLegacy:
		return "legacy (bip44)"
	case AccountTypeWrappedSegwit:
		return "wrapped segwit (bip49)"
	default:
		return fmt.Sprintf("unknown (%d)", uint32(t))
	}
}

type scheme interface {
	accountType() AccountType
	inputScriptType() int
	address(pubkey *btcec.PublicKey, net *network.Params) (string, error)
	supportsContracts() bool
}

func schemeFor(t AccountType) (scheme, error) {
	switch t {
	case AccountTypeLegacy:
		return legacyScheme{}, nil
	case AccountTypeWrappedSegwit:
		return wrappedSegwitScheme{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidAccountType, uint32(t))
	}
}

type legacyScheme struct{}

func (legacyScheme) accountType() AccountType { return AccountTypeLegacy }

func (legacyScheme) inputScriptType() int { return wallet.P2PKH }

func (legacyScheme) address(
	pubkey *btcec.PublicKey, net *network.Params,
) (string, error) {
	return address.PubKeyHashAddress(pubkey, net)
}

func (legacyScheme) supportsContracts() bool { return true }

type wrappedSegwitScheme struct{}

func (wrappedSegwitScheme) accountType() AccountType { return AccountTypeWrappedSegwit }

func (wrappedSegwitScheme) inputScriptType() int { return wallet.P2SH_P2WPKH }

func (wrappedSegwitScheme) address(
	pubkey *btcec.PublicKey, net *network.Params,
) (string, error) {
	return address.WrappedSegwitAddress(pubkey, net)
}

func (wrappedSegwitScheme) supportsContracts() bool { return false }
