package vault

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/vipstarcoin/vipswallet/pkg/wallet"
)

// SignTransaction signs every input of the draft with the key at the
// matching address path and returns the serialized tx in hex format. The
// draft itself is left untouched.
func (a *Account) SignTransaction(draft *TransactionDraft, password string) (string, error) {
	if draft == nil || draft.Tx == nil {
		return "", ErrNullDraft
	}
	if len(draft.AddressPaths) != len(draft.Tx.TxIn) ||
		len(draft.Inputs) != len(draft.Tx.TxIn) {
		return "", fmt.Errorf(
			"%w: expected %d address paths and inputs, got %d and %d", ErrNullDraft,
			len(draft.Tx.TxIn), len(draft.AddressPaths), len(draft.Inputs),
		)
	}

	xprv, err := a.decryptPrivateKey(password)
	if err != nil {
		return "", err
	}
	accountKey, err := hdkeychain.NewKeyFromString(xprv)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	defer accountKey.Zero()

	tx := draft.Tx.Copy()
	fetcher, err := prevOutFetcher(tx, draft.Inputs)
	if err != nil {
		return "", err
	}

	for i, path := range draft.AddressPaths {
		if err := a.signInput(tx, i, accountKey, path, fetcher); err != nil {
			return "", err
		}
	}

	return serializeTx(tx)
}

func (a *Account) signInput(
	tx *wire.MsgTx, inIndex int, accountKey *hdkeychain.ExtendedKey,
	path AddressPath, fetcher txscript.PrevOutputFetcher,
) error {
	prvkey, err := childPrivateKey(accountKey, path)
	if err != nil {
		return err
	}
	defer prvkey.Zero()

	return wallet.SignInput(wallet.SignInputOpts{
		Tx:             tx,
		InIndex:        inIndex,
		PrivateKey:     prvkey,
		ScriptType:     a.scheme.inputScriptType(),
		PrevOutFetcher: fetcher,
	})
}

func childPrivateKey(
	accountKey *hdkeychain.ExtendedKey, path AddressPath,
) (*btcec.PrivateKey, error) {
	node, err := accountKey.Derive(path.Change)
	if err != nil {
		return nil, err
	}
	node, err = node.Derive(path.Index)
	if err != nil {
		return nil, err
	}
	return node.ECPrivKey()
}

// SignMessage signs the message with the key at the given path and returns
// the signature in base64 format.
func (a *Account) SignMessage(message string, change, index uint32, password string) (string, error) {
	xprv, err := a.decryptPrivateKey(password)
	if err != nil {
		return "", err
	}
	prvkey, err := wallet.DeriveChildPrivateKey(xprv, change, index)
	if err != nil {
		return "", err
	}
	defer prvkey.Zero()

	return wallet.SignMessage(wallet.SignMessageOpts{
		Message:    message,
		PrivateKey: prvkey,
		Network:    a.net,
	})
}

// SignMessageWithAddress signs the message with the key owning the given
// address.
func (a *Account) SignMessageWithAddress(message, addr, password string) (string, error) {
	_, path, ok := a.FindAddress(addr)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAddress, addr)
	}
	return a.SignMessage(message, path.Change, path.Index, password)
}

// VerifySignedMessage returns whether signature is a valid signature of
// message for the given address.
func (a *Account) VerifySignedMessage(message, addr, signature string) (bool, error) {
	return wallet.VerifyMessage(wallet.VerifyMessageOpts{
		Message:   message,
		Address:   addr,
		Signature: signature,
		Network:   a.net,
	})
}

func serializeTx(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}
