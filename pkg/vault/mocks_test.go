package vault_test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
)

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

// **** Chain ****

// fakeChain serves history and unspents from memory, filtering them by the
// requested addresses like a real provider does.
type fakeChain struct {
	explorer.Service

	name   string
	lock   sync.Mutex
	txs    []explorer.Tx
	utxos  []explorer.Utxo
	err    error
	probes int
}

func (f *fakeChain) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeChain) GetTXsAll(
	_ context.Context, addresses []string,
) ([]explorer.Tx, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.probes++
	if f.err != nil {
		return nil, f.err
	}

	wanted := toSet(addresses)
	txs := make([]explorer.Tx, 0)
	for _, tx := range f.txs {
		for _, addr := range tx.Addresses() {
			if _, ok := wanted[addr]; ok {
				txs = append(txs, tx)
				break
			}
		}
	}
	return txs, nil
}

func (f *fakeChain) GetUTXOs(
	_ context.Context, addresses []string, minConfirmations int64,
) ([]explorer.Utxo, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	wanted := toSet(addresses)
	utxos := make([]explorer.Utxo, 0)
	for _, u := range f.utxos {
		if _, ok := wanted[u.Address]; ok && u.Confirmations >= minConfirmations {
			utxos = append(utxos, u)
		}
	}
	return utxos, nil
}

func (f *fakeChain) EstimateFeePerByte(
	_ context.Context, _ int,
) (decimal.Decimal, error) {
	return decimal.RequireFromString("0.00000004"), nil
}

func (f *fakeChain) addTx(txid string, from []string, to []string) {
	f.lock.Lock()
	defer f.lock.Unlock()

	tx := explorer.Tx{TxID: txid}
	for _, addr := range from {
		tx.Vin = append(tx.Vin, explorer.TxInput{Address: addr})
	}
	for _, addr := range to {
		tx.Vout = append(tx.Vout, explorer.TxOutput{
			ScriptPubKey: explorer.ScriptPubKey{Addresses: []string{addr}},
		})
	}
	f.txs = append(f.txs, tx)
}

func (f *fakeChain) probeCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.probes
}

func toSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, s := range list {
		set[s] = struct{}{}
	}
	return set
}
