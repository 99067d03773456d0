package vault_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

func TestProviderPassthrough(t *testing.T) {
	t.Parallel()

	provider := &mockExplorer{}
	account := newTestAccount(t, vault.AccountTypeLegacy, provider, vault.DiscoveryOpts{})
	ctx := context.Background()

	provider.On("GetTXsAll", mock.Anything, mock.Anything).Return([]explorer.Tx{}, nil).Once()
	require.NoError(t, account.Discover(ctx))
	addresses := account.AllAddresses()

	detail := &explorer.BalanceDetail{Balance: decimal.NewFromInt(1)}
	opts := explorer.BalanceOpts{MinConfirmations: 2}
	provider.On("GetBalanceDetail", mock.Anything, addresses, opts).Return(detail, nil)
	res, err := account.GetBalanceDetail(ctx, opts)
	require.NoError(t, err)
	require.Equal(t, detail, res)

	page := &explorer.TxPage{TotalItems: 1, From: 0, To: 1}
	provider.On("GetTXs", mock.Anything, addresses, 0, 10).Return(page, nil)
	txPage, err := account.GetTXs(ctx, 0, 10)
	require.NoError(t, err)
	require.Equal(t, page, txPage)

	provider.On("SendRawTransaction", mock.Anything, "0200").Return("txid", nil)
	txid, err := account.SendRawTransaction(ctx, "0200")
	require.NoError(t, err)
	require.Equal(t, "txid", txid)

	receipts := []explorer.TransactionReceipt{{TransactionHash: "txid"}}
	provider.On("GetTransactionReceipt", mock.Anything, "txid").Return(receipts, nil)
	resReceipts, err := account.GetTransactionReceipt(ctx, "txid")
	require.NoError(t, err)
	require.Equal(t, receipts, resReceipts)

	provider.On("EstimateFee", mock.Anything, 6).Return(decimal.RequireFromString("0.004"), nil)
	fee, err := account.EstimateFee(ctx, 6)
	require.NoError(t, err)
	require.Equal(t, "0.004", fee.String())

	provider.On("CallContract", mock.Anything, testContract, "06fdde03").
		Return(callResult("None", ""), nil)
	callRes, err := account.CallContract(ctx, "0x"+testContract, "06fdde03")
	require.NoError(t, err)
	require.Equal(t, testContract, callRes.Address)

	provider.AssertExpectations(t)
}
