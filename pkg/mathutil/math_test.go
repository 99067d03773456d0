package mathutil_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vipstarcoin/vipswallet/pkg/mathutil"
)

func TestCoinToSatoshi(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount   string
		expected uint64
	}{
		{"1", 100000000},
		{"0.00000001", 1},
		{"7", 700000000},
		{"21000000.12345678", 2100000012345678},
		{"0.10", 10000000},
	}

	for _, tt := range tests {
		sats, err := mathutil.CoinToSatoshi(tt.amount)
		require.NoError(t, err)
		require.Equal(t, tt.expected, sats, tt.amount)
	}
}

func TestFailingCoinToSatoshi(t *testing.T) {
	t.Parallel()

	for _, amount := range []string{"", "abc", "0", "-1", "0.000000001", "1e-9"} {
		_, err := mathutil.CoinToSatoshi(amount)
		require.ErrorIs(t, err, mathutil.ErrInvalidAmount, amount)
	}
}

func TestSatoshiToCoin(t *testing.T) {
	t.Parallel()

	require.True(t, mathutil.SatoshiToCoin(150000000).Equal(decimal.RequireFromString("1.5")))
	require.Equal(t, "0.00000001", mathutil.FormatCoin(1))
	require.Equal(t, "3.00000000", mathutil.FormatCoin(300000000))
}

func TestFeeRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate     string
		expected uint64
	}{
		{"0.000004", 400},
		{"0.00000004", 4},
		{"0.000000045", 5},
		{"1", mathutil.MaxFeeRate},
	}

	for _, tt := range tests {
		sats, err := mathutil.ParseFeeRate(tt.rate)
		require.NoError(t, err)
		require.Equal(t, tt.expected, sats, tt.rate)
	}

	for _, rate := range []string{
		"0", "-0.1", "0.000000001", "abc", "1.00000001", "184467440737.09551616",
	} {
		_, err := mathutil.ParseFeeRate(rate)
		require.ErrorIs(t, err, mathutil.ErrInvalidFeeRate, rate)
	}
}
