package vault

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
)

// GetBalanceDetail returns the balance of the account split by
// spendability.
func (a *Account) GetBalanceDetail(
	ctx context.Context, opts explorer.BalanceOpts,
) (*explorer.BalanceDetail, error) {
	return a.provider.GetBalanceDetail(ctx, a.AllAddresses(), opts)
}

// GetUTXOs returns the unspents of the account with at least
// minConfirmations confirmations.
func (a *Account) GetUTXOs(
	ctx context.Context, minConfirmations int64,
) ([]explorer.Utxo, error) {
	return a.provider.GetUTXOs(ctx, a.AllAddresses(), minConfirmations)
}

// GetTXs returns the page [from, to) of the account history.
func (a *Account) GetTXs(ctx context.Context, from, to int) (*explorer.TxPage, error) {
	return a.provider.GetTXs(ctx, a.AllAddresses(), from, to)
}

// GetTXsAll returns the whole account history.
func (a *Account) GetTXsAll(ctx context.Context) ([]explorer.Tx, error) {
	return a.provider.GetTXsAll(ctx, a.AllAddresses())
}

func (a *Account) CallContract(
	ctx context.Context, contractAddress, data string,
) (*explorer.ContractCallResult, error) {
	contractHex, err := a.contractHex(contractAddress)
	if err != nil {
		return nil, err
	}
	return a.provider.CallContract(ctx, contractHex, data)
}

// SendRawTransaction broadcasts the given signed tx and returns its hash.
func (a *Account) SendRawTransaction(ctx context.Context, txHex string) (string, error) {
	return a.provider.SendRawTransaction(ctx, txHex)
}

func (a *Account) GetTransactionReceipt(
	ctx context.Context, txid string,
) ([]explorer.TransactionReceipt, error) {
	return a.provider.GetTransactionReceipt(ctx, txid)
}

// EstimateFee returns the fee rate in coin per KB for a confirmation within
// nBlocks blocks.
func (a *Account) EstimateFee(ctx context.Context, nBlocks int) (decimal.Decimal, error) {
	return a.provider.EstimateFee(ctx, nBlocks)
}

// EstimateFeePerByte ...
func (a *Account) EstimateFeePerByte(ctx context.Context, nBlocks int) (decimal.Decimal, error) {
	return a.provider.EstimateFeePerByte(ctx, nBlocks)
}
