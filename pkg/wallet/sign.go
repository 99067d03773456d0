package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// SignInputOpts is the struct given to SignInput method
type SignInputOpts struct {
	Tx             *wire.MsgTx
	InIndex        int
	PrivateKey     *btcec.PrivateKey
	ScriptType     int
	PrevOutFetcher txscript.PrevOutputFetcher
}

func (o SignInputOpts) validate() error {
	if o.Tx == nil {
		return ErrNullTransaction
	}
	if o.InIndex < 0 || o.InIndex >= len(o.Tx.TxIn) {
		return fmt.Errorf(
			"%w: input index must be in range [0, %d]",
			ErrInvalidInputIndex, len(o.Tx.TxIn)-1,
		)
	}
	if o.PrivateKey == nil {
		return ErrNullPrivateKey
	}
	if o.ScriptType != P2PKH && o.ScriptType != P2SH_P2WPKH {
		return fmt.Errorf("unsupported input script type %d", o.ScriptType)
	}
	if o.PrevOutFetcher == nil {
		return fmt.Errorf("prevout fetcher must not be null")
	}
	prevout := o.PrevOutFetcher.FetchPrevOutput(
		o.Tx.TxIn[o.InIndex].PreviousOutPoint,
	)
	if prevout == nil {
		return fmt.Errorf("missing prevout for input %d", o.InIndex)
	}
	return nil
}

// SignInput produces (and verifies) the signature for the given input of the
// transaction. P2PKH inputs get a <sig> <pubkey> script sig, P2SH-P2WPKH
// inputs get the witness plus the script sig pushing the redeem script.
func SignInput(opts SignInputOpts) error {
	if err := opts.validate(); err != nil {
		return err
	}

	tx, inIndex := opts.Tx, opts.InIndex
	prevout := opts.PrevOutFetcher.FetchPrevOutput(tx.TxIn[inIndex].PreviousOutPoint)
	sigHashes := txscript.NewTxSigHashes(tx, opts.PrevOutFetcher)

	switch opts.ScriptType {
	case P2PKH:
		sigScript, err := txscript.SignatureScript(
			tx, inIndex, prevout.PkScript, txscript.SigHashAll,
			opts.PrivateKey, true,
		)
		if err != nil {
			return err
		}
		tx.TxIn[inIndex].SignatureScript = sigScript

	case P2SH_P2WPKH:
		pubkey := opts.PrivateKey.PubKey().SerializeCompressed()
		redeemScript, err := txscript.NewScriptBuilder().
			AddOp(txscript.OP_0).
			AddData(btcutil.Hash160(pubkey)).
			Script()
		if err != nil {
			return err
		}

		witness, err := txscript.WitnessSignature(
			tx, sigHashes, inIndex, prevout.Value, redeemScript,
			txscript.SigHashAll, opts.PrivateKey, true,
		)
		if err != nil {
			return err
		}
		sigScript, err := txscript.NewScriptBuilder().
			AddData(redeemScript).
			Script()
		if err != nil {
			return err
		}
		tx.TxIn[inIndex].Witness = witness
		tx.TxIn[inIndex].SignatureScript = sigScript
	}

	vm, err := txscript.NewEngine(
		prevout.PkScript, tx, inIndex, txscript.StandardVerifyFlags, nil,
		sigHashes, prevout.Value, opts.PrevOutFetcher,
	)
	if err != nil {
		return err
	}
	if err := vm.Execute(); err != nil {
		return fmt.Errorf(
			"%w for input %d: %s", ErrSignatureVerificationFailed, inIndex, err,
		)
	}
	return nil
}
