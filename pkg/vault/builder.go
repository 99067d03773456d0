package vault

import (
	"context"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/vipstarcoin/vipswallet/pkg/address"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/mathutil"
	"github.com/vipstarcoin/vipswallet/pkg/messageutil"
	"github.com/vipstarcoin/vipswallet/pkg/wallet"
)

const (
	txVersion = 2
	// DefaultFeeBlocks is the confirmation target used to estimate the fee
	// rate when not given.
	DefaultFeeBlocks = 6
)

// TxOpts is the struct given to BuildTransactionData method.
type TxOpts struct {
	// FeeRate in coin per byte. The provider estimation is used if empty.
	FeeRate string
	// Utxos restricts the inputs to the given outputs. Each one must be a
	// spendable output of the account.
	Utxos []explorer.Utxo
	// AllowConfirmations is the min number of confirmations of the spent
	// outputs, defaults to 1.
	AllowConfirmations int64
	// ExtraData is embedded in a null data output.
	ExtraData string
	// ExtraOutputs are appended verbatim to the requested outputs.
	ExtraOutputs []explorer.Output
}

// TransactionDraft is an unsigned transaction together with the paths of the
// keys that must sign its inputs, in the same order.
type TransactionDraft struct {
	Tx           *wire.MsgTx
	Inputs       []explorer.Utxo
	AddressPaths []AddressPath
	// Fee in satoshi. For contract calls it includes the gas budget.
	Fee uint64
	// GasFee is the gas budget in satoshi of a contract call.
	GasFee uint64
	// EstimatedSize is the virtual size of the tx once signed.
	EstimatedSize int
}

// TxHex returns the serialized unsigned tx in hex format.
func (d *TransactionDraft) TxHex() (string, error) {
	return serializeTx(d.Tx)
}

// BuildTransactionData returns the draft of a tx sending amount coins to the
// given address. The change, if any, goes to the change address paired with
// the first selected input.
func (a *Account) BuildTransactionData(
	ctx context.Context, toAddress, amount string, opts TxOpts,
) (*TransactionDraft, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if !address.IsValidAddress(toAddress, a.net) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, toAddress)
	}
	satoshis, err := mathutil.CoinToSatoshi(amount)
	if err != nil {
		return nil, err
	}

	feeRate, err := a.resolveFeeRate(ctx, opts.FeeRate)
	if err != nil {
		return nil, err
	}
	utxos, err := a.resolveUtxos(ctx, opts.Utxos, opts.AllowConfirmations)
	if err != nil {
		return nil, err
	}

	outputs := []explorer.Output{{Address: toAddress, Value: satoshis}}
	if len(opts.ExtraData) > 0 {
		script, err := messageutil.Encode(opts.ExtraData)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, explorer.Output{Script: script})
	}
	outputs = append(outputs, opts.ExtraOutputs...)

	selection, err := explorer.SelectCoins(utxos, outputs, feeRate)
	if err != nil {
		return nil, err
	}

	paths, err := a.addressPaths(selection.Inputs)
	if err != nil {
		return nil, err
	}
	sender, _, _ := a.findAddress(selection.Inputs[0].Address)

	tx, err := newUnsignedTx(selection.Inputs)
	if err != nil {
		return nil, err
	}
	for _, out := range selection.Outputs {
		if out.IsChange() {
			out.Address = sender.Change
		}
		txOut, err := a.txOutput(out)
		if err != nil {
			return nil, err
		}
		tx.AddTxOut(txOut)
	}

	return &TransactionDraft{
		Tx:            tx,
		Inputs:        selection.Inputs,
		AddressPaths:  paths,
		Fee:           selection.Fee,
		EstimatedSize: a.estimateSize(tx),
	}, nil
}

// resolveFeeRate returns the given fee rate, or the provider estimation if
// empty, in satoshi per byte.
func (a *Account) resolveFeeRate(ctx context.Context, feeRate string) (uint64, error) {
	if len(feeRate) > 0 {
		return mathutil.ParseFeeRate(feeRate)
	}
	rate, err := a.provider.EstimateFeePerByte(ctx, DefaultFeeBlocks)
	if err != nil {
		return 0, err
	}
	return mathutil.FeeRateToSatoshi(rate)
}

// resolveUtxos returns the spendable outputs of the account or, if a
// restricted set is given, checks that each one of them is spendable.
func (a *Account) resolveUtxos(
	ctx context.Context, restricted []explorer.Utxo, minConfirmations int64,
) ([]explorer.Utxo, error) {
	if minConfirmations < 1 {
		minConfirmations = 1
	}

	all, err := a.provider.GetUTXOs(ctx, a.allAddresses(), minConfirmations)
	if err != nil {
		return nil, err
	}
	spendable := make([]explorer.Utxo, 0, len(all))
	for _, u := range all {
		if u.IsSpendable(minConfirmations) {
			spendable = append(spendable, u)
		}
	}

	if restricted == nil {
		return spendable, nil
	}

	byKey := make(map[string]explorer.Utxo, len(spendable))
	for _, u := range spendable {
		byKey[u.Key()] = u
	}
	utxos := make([]explorer.Utxo, 0, len(restricted))
	for _, r := range restricted {
		u, ok := byKey[r.Key()]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownUTXO, r.Key())
		}
		utxos = append(utxos, u)
	}
	return utxos, nil
}

func (a *Account) addressPaths(inputs []explorer.Utxo) ([]AddressPath, error) {
	paths := make([]AddressPath, 0, len(inputs))
	for _, in := range inputs {
		_, path, ok := a.findAddress(in.Address)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSenderAddress, in.Address)
		}
		paths = append(paths, *path)
	}
	return paths, nil
}

func (a *Account) txOutput(out explorer.Output) (*wire.TxOut, error) {
	script := out.Script
	if len(script) <= 0 {
		s, err := address.ToOutputScript(out.Address, a.net)
		if err != nil {
			return nil, err
		}
		script = s
	}
	return wire.NewTxOut(int64(out.Value), script), nil
}

// estimateSize returns the virtual size of the tx once all its inputs are
// signed with the account scheme.
func (a *Account) estimateSize(tx *wire.MsgTx) int {
	inTypes := make([]int, 0, len(tx.TxIn))
	for range tx.TxIn {
		inTypes = append(inTypes, a.scheme.inputScriptType())
	}

	outTypes := make([]int, 0, len(tx.TxOut))
	outAux := make([]int, 0)
	for _, out := range tx.TxOut {
		switch txscript.GetScriptClass(out.PkScript) {
		case txscript.PubKeyHashTy:
			outTypes = append(outTypes, wallet.P2PKH)
		case txscript.ScriptHashTy:
			outTypes = append(outTypes, wallet.P2SH_P2WPKH)
		case txscript.WitnessV0PubKeyHashTy:
			outTypes = append(outTypes, wallet.P2WPKH)
		case txscript.WitnessV0ScriptHashTy:
			outTypes = append(outTypes, wallet.P2WSH)
		default:
			outTypes = append(outTypes, -1)
			outAux = append(outAux, len(out.PkScript))
		}
	}

	return wallet.EstimateTxSize(inTypes, nil, nil, outTypes, outAux)
}

func newUnsignedTx(inputs []explorer.Utxo) (*wire.MsgTx, error) {
	tx := wire.NewMsgTx(txVersion)
	for _, in := range inputs {
		hash, err := chainhash.NewHashFromStr(in.TxID)
		if err != nil {
			return nil, fmt.Errorf("invalid utxo %s: %w", in.Key(), err)
		}
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(hash, in.Vout), nil, nil))
	}
	return tx, nil
}

// sortInputsBySender moves the inputs owned by sender before all the others,
// keeping the relative order otherwise.
func sortInputsBySender(inputs []explorer.Utxo, sender string) {
	sort.SliceStable(inputs, func(i, j int) bool {
		return inputs[i].Address == sender && inputs[j].Address != sender
	})
}

func prevOutFetcher(
	tx *wire.MsgTx, inputs []explorer.Utxo,
) (*txscript.MultiPrevOutFetcher, error) {
	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for i, in := range inputs {
		script, err := hex.DecodeString(in.ScriptPubKey)
		if err != nil {
			return nil, fmt.Errorf("invalid script of utxo %s: %w", in.Key(), err)
		}
		fetcher.AddPrevOut(
			tx.TxIn[i].PreviousOutPoint, wire.NewTxOut(int64(in.Satoshis), script),
		)
	}
	return fetcher, nil
}
