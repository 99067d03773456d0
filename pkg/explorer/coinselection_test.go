package explorer_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/mathutil"
)

func newUtxo(txid string, sats uint64) explorer.Utxo {
	return explorer.Utxo{
		Address:       "addr",
		TxID:          txid,
		Satoshis:      sats,
		Confirmations: 10,
	}
}

func TestSelectCoins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		utxos          []explorer.Utxo
		outputs        []explorer.Output
		feeRate        uint64
		expectedInputs []string
		expectedFee    uint64
		withChange     bool
	}{
		{
			name: "two inputs with change",
			utxos: []explorer.Utxo{
				newUtxo("a", 500000000), newUtxo("b", 300000000),
			},
			outputs:        []explorer.Output{{Address: "to", Value: 700000000}},
			feeRate:        4,
			expectedInputs: []string{"a", "b"},
			// (10 + 2*148 + 2*34) * 4
			expectedFee: 1496,
			withChange:  true,
		},
		{
			name: "largest input first",
			utxos: []explorer.Utxo{
				newUtxo("a", 100000), newUtxo("b", 900000000), newUtxo("c", 200000),
			},
			outputs:        []explorer.Output{{Address: "to", Value: 100000000}},
			feeRate:        10,
			expectedInputs: []string{"b"},
			expectedFee:    (10 + 148 + 2*34) * 10,
			withChange:     true,
		},
		{
			name: "exact match without change",
			utxos: []explorer.Utxo{
				newUtxo("a", 900000000), newUtxo("b", 100000+192*2+100),
			},
			outputs:        []explorer.Output{{Address: "to", Value: 100000}},
			feeRate:        2,
			expectedInputs: []string{"b"},
			expectedFee:    192*2 + 100,
			withChange:     false,
		},
		{
			name:           "null data output",
			utxos:          []explorer.Utxo{newUtxo("a", 100000000)},
			outputs:        []explorer.Output{{Address: "to", Value: 1000}, {Script: []byte{0x6a, 0x01, 0x01}}},
			feeRate:        1,
			expectedInputs: []string{"a"},
			// 10 + 148 + 34 + 12 + 34
			expectedFee: 238,
			withChange:  true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			selection, err := explorer.SelectCoins(tt.utxos, tt.outputs, tt.feeRate)
			require.NoError(t, err)

			txids := make([]string, 0, len(selection.Inputs))
			inAmount := uint64(0)
			for _, in := range selection.Inputs {
				txids = append(txids, in.TxID)
				inAmount += in.Satoshis
			}
			require.Equal(t, tt.expectedInputs, txids)
			require.Equal(t, tt.expectedFee, selection.Fee)

			outAmount := uint64(0)
			for _, out := range selection.Outputs {
				outAmount += out.Value
			}
			require.Equal(t, inAmount, outAmount+selection.Fee)

			last := selection.Outputs[len(selection.Outputs)-1]
			require.Equal(t, tt.withChange, last.IsChange())
			if tt.withChange {
				require.Len(t, selection.Outputs, len(tt.outputs)+1)
			} else {
				require.Len(t, selection.Outputs, len(tt.outputs))
			}
		})
	}
}

func TestFailingSelectCoins(t *testing.T) {
	t.Parallel()

	utxos := []explorer.Utxo{newUtxo("a", 100000), newUtxo("b", 200000)}

	tests := []struct {
		name    string
		utxos   []explorer.Utxo
		outputs []explorer.Output
		feeRate uint64
		err     error
	}{
		{"not enough funds", utxos, []explorer.Output{{Address: "to", Value: 300000}}, 1, explorer.ErrInsufficientFunds},
		{"no utxos", nil, []explorer.Output{{Address: "to", Value: 1}}, 1, explorer.ErrInsufficientFunds},
		{"dust utxos", []explorer.Utxo{newUtxo("a", 100)}, []explorer.Output{{Address: "to", Value: 1}}, 1, explorer.ErrInsufficientFunds},
		{"zero fee rate", utxos, []explorer.Output{{Address: "to", Value: 1000}}, 0, explorer.ErrInvalidFeeRate},
		{"fee rate too high", utxos, []explorer.Output{{Address: "to", Value: 1000}}, mathutil.MaxFeeRate + 1, explorer.ErrInvalidFeeRate},
		{"wrapping fee rate", utxos, []explorer.Output{{Address: "to", Value: 1000}}, 1 << 62, explorer.ErrInvalidFeeRate},
		{"amount too high", utxos, []explorer.Output{{Address: "to", Value: 1 << 63}}, 1, explorer.ErrInvalidAmount},
		{"zero amount", utxos, []explorer.Output{{Address: "to", Value: 0}}, 1, explorer.ErrInvalidAmount},
		{"no outputs", utxos, nil, 1, explorer.ErrNullOutputs},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := explorer.SelectCoins(tt.utxos, tt.outputs, tt.feeRate)
			require.ErrorIs(t, err, tt.err)
		})
	}
}
