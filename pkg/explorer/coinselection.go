package explorer

import (
	"errors"
	"math"
	"sort"

	"github.com/vipstarcoin/vipswallet/pkg/mathutil"
)

const (
	txEmptySize        = 4 + 1 + 1 + 4
	txInputBase        = 32 + 4 + 1 + 4
	txInputPubKeyHash  = 107
	txOutputBase       = 8 + 1
	txOutputPubKeyHash = 25
)

var (
	// ErrInsufficientFunds ...
	ErrInsufficientFunds = errors.New("insufficient funds to cover outputs and fee")
	// ErrInvalidFeeRate ...
	ErrInvalidFeeRate = mathutil.ErrInvalidFeeRate
	// ErrInvalidAmount ...
	ErrInvalidAmount = mathutil.ErrInvalidAmount
	// ErrNullOutputs ...
	ErrNullOutputs = errors.New("at least one output is required")
)

// Output is a requested output of a transaction. A change output added by
// the coin selection has neither Address nor Script.
type Output struct {
	Address string
	Script  []byte
	Value   uint64
}

// IsChange returns whether the output is a change output.
func (o Output) IsChange() bool {
	return o.Address == "" && len(o.Script) == 0
}

// Selection is the result of a successful coin selection.
type Selection struct {
	Inputs  []Utxo
	Outputs []Output
	Fee     uint64
}

// SelectCoins selects a subset of utxos covering the given outputs plus the
// fee for the resulting tx at feeRate satoshi/byte.
// An exact match not wasting more than the cost of an input is searched
// first, then the utxos are accumulated by descending effective value.
// A change output is appended only if the remainder is not dust.
func SelectCoins(utxos []Utxo, outputs []Output, feeRate uint64) (*Selection, error) {
	if feeRate == 0 || feeRate > mathutil.MaxFeeRate {
		return nil, ErrInvalidFeeRate
	}
	if len(outputs) <= 0 {
		return nil, ErrNullOutputs
	}
	for _, out := range outputs {
		// null data outputs are the only ones allowed to carry no value
		if out.Value == 0 && len(out.Script) == 0 {
			return nil, ErrInvalidAmount
		}
		if out.Value > math.MaxInt64 {
			return nil, ErrInvalidAmount
		}
	}

	sorted := make([]Utxo, len(utxos))
	copy(sorted, utxos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utxoScore(sorted[i], feeRate) > utxoScore(sorted[j], feeRate)
	})

	if selection := blackjack(sorted, outputs, feeRate); selection != nil {
		return selection, nil
	}
	if selection := accumulative(sorted, outputs, feeRate); selection != nil {
		return selection, nil
	}
	return nil, ErrInsufficientFunds
}

func blackjack(utxos []Utxo, outputs []Output, feeRate uint64) *Selection {
	bytesAccum := transactionBytes(nil, outputs)
	outAccum := sumOutputs(outputs)
	threshold := dustThreshold(feeRate)
	inAccum := uint64(0)
	inputs := make([]Utxo, 0)

	for _, utxo := range utxos {
		fee := feeRate * (bytesAccum + inputBytes())

		// would it waste value?
		if inAccum+utxo.Satoshis > outAccum+fee+threshold {
			continue
		}

		bytesAccum += inputBytes()
		inAccum += utxo.Satoshis
		inputs = append(inputs, utxo)

		if inAccum < outAccum+fee {
			continue
		}
		return finalize(inputs, outputs, feeRate)
	}
	return nil
}

func accumulative(utxos []Utxo, outputs []Output, feeRate uint64) *Selection {
	bytesAccum := transactionBytes(nil, outputs)
	outAccum := sumOutputs(outputs)
	inAccum := uint64(0)
	inputs := make([]Utxo, 0)

	for _, utxo := range utxos {
		// skip detrimental input
		if feeRate*inputBytes() > utxo.Satoshis {
			continue
		}

		bytesAccum += inputBytes()
		inAccum += utxo.Satoshis
		inputs = append(inputs, utxo)

		if inAccum < outAccum+feeRate*bytesAccum {
			continue
		}
		return finalize(inputs, outputs, feeRate)
	}
	return nil
}

func finalize(inputs []Utxo, outputs []Output, feeRate uint64) *Selection {
	bytesAccum := transactionBytes(inputs, outputs)
	feeAfterExtraOutput := feeRate * (bytesAccum + outputBytes(Output{}))
	inAccum := sumInputs(inputs)
	outAccum := sumOutputs(outputs)

	finalOutputs := make([]Output, len(outputs), len(outputs)+1)
	copy(finalOutputs, outputs)

	// is it worth a change output?
	if inAccum > outAccum+feeAfterExtraOutput &&
		inAccum-(outAccum+feeAfterExtraOutput) > dustThreshold(feeRate) {
		finalOutputs = append(finalOutputs, Output{
			Value: inAccum - (outAccum + feeAfterExtraOutput),
		})
	}

	return &Selection{
		Inputs:  inputs,
		Outputs: finalOutputs,
		Fee:     inAccum - sumOutputs(finalOutputs),
	}
}

// EstimateSize returns the estimated size in bytes of a tx spending the
// given number of P2PKH inputs into the given outputs.
func EstimateSize(numInputs int, outputs []Output) uint64 {
	return transactionBytes(make([]Utxo, numInputs), outputs)
}

func utxoScore(utxo Utxo, feeRate uint64) int64 {
	return int64(utxo.Satoshis) - int64(feeRate*inputBytes())
}

func inputBytes() uint64 {
	return txInputBase + txInputPubKeyHash
}

func outputBytes(out Output) uint64 {
	if len(out.Script) > 0 {
		return txOutputBase + uint64(len(out.Script))
	}
	return txOutputBase + txOutputPubKeyHash
}

func dustThreshold(feeRate uint64) uint64 {
	return inputBytes() * feeRate
}

func transactionBytes(inputs []Utxo, outputs []Output) uint64 {
	size := uint64(txEmptySize) + uint64(len(inputs))*inputBytes()
	for _, out := range outputs {
		size += outputBytes(out)
	}
	return size
}

func sumInputs(inputs []Utxo) uint64 {
	total := uint64(0)
	for _, in := range inputs {
		total += in.Satoshis
	}
	return total
}

func sumOutputs(outputs []Output) uint64 {
	total := uint64(0)
	for _, out := range outputs {
		total += out.Value
	}
	return total
}
