package wallet

import (
	"bytes"
	"encoding/base64"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/vipstarcoin/vipswallet/pkg/network"
)

// MessageHash returns the double sha256 of prefix ‖ varint(len(msg)) ‖ msg.
func MessageHash(message, prefix string) []byte {
	var buf bytes.Buffer
	buf.WriteString(prefix)
	// writing to a bytes.Buffer never fails
	_ = wire.WriteVarString(&buf, 0, message)
	return chainhash.DoubleHashB(buf.Bytes())
}

// SignMessageOpts is the struct given to SignMessage method
type SignMessageOpts struct {
	Message    string
	PrivateKey *btcec.PrivateKey
	Network    *network.Params
}

func (o SignMessageOpts) validate() error {
	if len(o.Message) <= 0 {
		return ErrNullMessage
	}
	if o.PrivateKey == nil {
		return ErrNullPrivateKey
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	return nil
}

// SignMessage returns the base64 compact recoverable signature of the message
// for a compressed public key.
func SignMessage(opts SignMessageOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	hash := MessageHash(opts.Message, opts.Network.MessagePrefix)
	sig := ecdsa.SignCompact(opts.PrivateKey, hash, true)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyMessageOpts is the struct given to VerifyMessage method
type VerifyMessageOpts struct {
	Message   string
	Address   string
	Signature string
	Network   *network.Params
}

func (o VerifyMessageOpts) validate() error {
	if len(o.Message) <= 0 {
		return ErrNullMessage
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	sig, err := base64.StdEncoding.DecodeString(o.Signature)
	if err != nil || len(sig) != 65 {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyMessage recovers the public key from the signature and returns
// whether it matches the given P2PKH or P2SH-P2WPKH address.
func VerifyMessage(opts VerifyMessageOpts) (bool, error) {
	if err := opts.validate(); err != nil {
		return false, err
	}

	sig, _ := base64.StdEncoding.DecodeString(opts.Signature)
	hash := MessageHash(opts.Message, opts.Network.MessagePrefix)

	pubkey, wasCompressed, err := ecdsa.RecoverCompact(sig, hash)
	if err != nil {
		return false, nil
	}

	var serializedPubkey []byte
	if wasCompressed {
		serializedPubkey = pubkey.SerializeCompressed()
	} else {
		serializedPubkey = pubkey.SerializeUncompressed()
	}
	pubkeyHash := btcutil.Hash160(serializedPubkey)

	p2pkh, err := btcutil.NewAddressPubKeyHash(
		pubkeyHash, opts.Network.ChainParams(),
	)
	if err != nil {
		return false, err
	}
	if p2pkh.EncodeAddress() == opts.Address {
		return true, nil
	}

	if !wasCompressed {
		return false, nil
	}
	redeemScript := append([]byte{0x00, 0x14}, pubkeyHash...)
	p2sh, err := btcutil.NewAddressScriptHash(
		redeemScript, opts.Network.ChainParams(),
	)
	if err != nil {
		return false, err
	}
	return p2sh.EncodeAddress() == opts.Address, nil
}
