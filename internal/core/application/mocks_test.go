package application_test

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/vipstarcoin/vipswallet/internal/core/ports"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

// **** Repository ****

// failingRepository wraps a repository and fails every Save once armed.
type failingRepository struct {
	ports.WalletRepository
	fail bool
}

func (r *failingRepository) Save(
	ctx context.Context, snapshot vault.Snapshot,
) error {
	if r.fail {
		return errors.New("disk full")
	}
	return r.WalletRepository.Save(ctx, snapshot)
}

// **** Explorer ****

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockExplorer) GetUTXOs(
	ctx context.Context, addresses []string, minConfirmations int64,
) ([]explorer.Utxo, error) {
	args := m.Called(ctx, addresses, minConfirmations)

	var res []explorer.Utxo
	if a := args.Get(0); a != nil {
		res = a.([]explorer.Utxo)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetBalanceDetail(
	ctx context.Context, addresses []string, opts explorer.BalanceOpts,
) (*explorer.BalanceDetail, error) {
	args := m.Called(ctx, addresses, opts)

	var res *explorer.BalanceDetail
	if a := args.Get(0); a != nil {
		res = a.(*explorer.BalanceDetail)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetTXs(
	ctx context.Context, addresses []string, from, to int,
) (*explorer.TxPage, error) {
	args := m.Called(ctx, addresses, from, to)

	var res *explorer.TxPage
	if a := args.Get(0); a != nil {
		res = a.(*explorer.TxPage)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetTXsAll(
	ctx context.Context, addresses []string,
) ([]explorer.Tx, error) {
	args := m.Called(ctx, addresses)

	var res []explorer.Tx
	if a := args.Get(0); a != nil {
		res = a.([]explorer.Tx)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetTokenBalance(
	ctx context.Context, addresses []string,
) ([]explorer.TokenBalance, error) {
	args := m.Called(ctx, addresses)

	var res []explorer.TokenBalance
	if a := args.Get(0); a != nil {
		res = a.([]explorer.TokenBalance)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetTokenTXs(
	ctx context.Context, contract string, addresses []string, from, to int,
) (*explorer.TokenTxPage, error) {
	args := m.Called(ctx, contract, addresses, from, to)

	var res *explorer.TokenTxPage
	if a := args.Get(0); a != nil {
		res = a.(*explorer.TokenTxPage)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetTokenTXsAll(
	ctx context.Context, contract string, addresses []string,
) ([]explorer.TokenTx, error) {
	args := m.Called(ctx, contract, addresses)

	var res []explorer.TokenTx
	if a := args.Get(0); a != nil {
		res = a.([]explorer.TokenTx)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) CallContract(
	ctx context.Context, contract, data string,
) (*explorer.ContractCallResult, error) {
	args := m.Called(ctx, contract, data)

	var res *explorer.ContractCallResult
	if a := args.Get(0); a != nil {
		res = a.(*explorer.ContractCallResult)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) SendRawTransaction(
	ctx context.Context, txHex string,
) (string, error) {
	args := m.Called(ctx, txHex)
	return args.String(0), args.Error(1)
}

func (m *mockExplorer) GetTransactionReceipt(
	ctx context.Context, txid string,
) ([]explorer.TransactionReceipt, error) {
	args := m.Called(ctx, txid)

	var res []explorer.TransactionReceipt
	if a := args.Get(0); a != nil {
		res = a.([]explorer.TransactionReceipt)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) EstimateFee(
	ctx context.Context, nBlocks int,
) (decimal.Decimal, error) {
	args := m.Called(ctx, nBlocks)

	var res decimal.Decimal
	if a := args.Get(0); a != nil {
		res = a.(decimal.Decimal)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) EstimateFeePerByte(
	ctx context.Context, nBlocks int,
) (decimal.Decimal, error) {
	args := m.Called(ctx, nBlocks)

	var res decimal.Decimal
	if a := args.Get(0); a != nil {
		res = a.(decimal.Decimal)
	}
	return res, args.Error(1)
}
