package wallet

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/vipstarcoin/vipswallet/pkg/network"
)

// DeriveAccountKeyOpts is the struct given to DeriveAccountKey method
type DeriveAccountKeyOpts struct {
	SeedHex string
	Path    DerivationPath
	Network *network.Params
}

func (o DeriveAccountKeyOpts) validate() error {
	if len(o.SeedHex) <= 0 {
		return ErrNullSeed
	}
	if _, err := hex.DecodeString(o.SeedHex); err != nil {
		return ErrNullSeed
	}
	if len(o.Path) <= 0 {
		return ErrNullDerivationPath
	}
	if err := checkAccountPath(o.Path); err != nil {
		return err
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	return nil
}

// AccountKeys holds the extended keys of an account in base58 format
type AccountKeys struct {
	ExtendedPrivateKey string
	ExtendedPublicKey  string
}

// DeriveAccountKey derives the account extended key pair from the master
// seed along the given (hardened) account path
func DeriveAccountKey(opts DeriveAccountKeyOpts) (*AccountKeys, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	seed, _ := hex.DecodeString(opts.SeedHex)
	hdNode, err := hdkeychain.NewMaster(seed, opts.Network.ChainParams())
	if err != nil {
		return nil, err
	}

	for _, step := range opts.Path {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, err
		}
	}

	xpub, err := hdNode.Neuter()
	if err != nil {
		return nil, err
	}

	return &AccountKeys{
		ExtendedPrivateKey: hdNode.String(),
		ExtendedPublicKey:  xpub.String(),
	}, nil
}

// DeriveChildKey derives the non-hardened change/index child of the given
// base58 extended key, either private or public
func DeriveChildKey(xkey string, change, index uint32) (*hdkeychain.ExtendedKey, error) {
	if change >= hdkeychain.HardenedKeyStart || index >= hdkeychain.HardenedKeyStart {
		return nil, ErrInvalidDerivationPath
	}
	hdNode, err := hdkeychain.NewKeyFromString(xkey)
	if err != nil {
		return nil, err
	}

	for _, step := range []uint32{change, index} {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, err
		}
	}
	return hdNode, nil
}

// DeriveChildPublicKey returns the public key at change/index of the given
// extended key
func DeriveChildPublicKey(xkey string, change, index uint32) (*btcec.PublicKey, error) {
	hdNode, err := DeriveChildKey(xkey, change, index)
	if err != nil {
		return nil, err
	}
	return hdNode.ECPubKey()
}

// DeriveChildPrivateKey returns the private key at change/index of the given
// extended private key
func DeriveChildPrivateKey(xprv string, change, index uint32) (*btcec.PrivateKey, error) {
	hdNode, err := DeriveChildKey(xprv, change, index)
	if err != nil {
		return nil, err
	}
	return hdNode.ECPrivKey()
}
