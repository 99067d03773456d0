package contract_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vipstarcoin/vipswallet/pkg/address"
	"github.com/vipstarcoin/vipswallet/pkg/contract"
	"github.com/vipstarcoin/vipswallet/pkg/network"
)

func TestERC20(t *testing.T) {
	t.Parallel()

	erc20 := contract.NewERC20(network.Regtest)
	owner, err := address.FromHexAddress(hash160Hex, network.Regtest)
	require.NoError(t, err)
	spender := "00000000000000000000000000000000000000ff"

	data, err := erc20.BalanceOf(owner)
	require.NoError(t, err)
	require.Equal(t, "70a08231"+pad32(hash160Hex), data)

	data, err = erc20.Allowance(owner, spender)
	require.NoError(t, err)
	require.Equal(t, "dd62ed3e"+pad32(hash160Hex)+pad32("ff"), data)

	data, err = erc20.Approve(spender, big.NewInt(255))
	require.NoError(t, err)
	require.Equal(t, "095ea7b3"+pad32("ff")+pad32("ff"), data)

	data, err = erc20.TransferFrom(owner, spender, big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, "23b872dd"+pad32(hash160Hex)+pad32("ff")+pad32("1"), data)

	require.Equal(t, "313ce567", erc20.Decimals())
	require.Equal(t, "06fdde03", erc20.Name())
	require.Equal(t, "95d89b41", erc20.Symbol())
	require.Equal(t, "18160ddd", erc20.TotalSupply())
}

func TestTokenAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount   string
		decimals uint8
		expected string
	}{
		{"1.5", 8, "150000000"},
		{"1000", 0, "1000"},
		{"0.000000000000000001", 18, "1"},
	}

	for _, tt := range tests {
		units, err := contract.TokenAmount(tt.amount, tt.decimals)
		require.NoError(t, err)
		require.Equal(t, tt.expected, units.String())
	}

	units, _ := new(big.Int).SetString("150000000", 10)
	require.Equal(t, "1.5", contract.FormatTokenAmount(units, 8))

	for _, amount := range []string{"0", "-1", "abc", "0.123"} {
		_, err := contract.TokenAmount(amount, 2)
		require.ErrorIs(t, err, contract.ErrInvalidTokenAmount, amount)
	}
}
