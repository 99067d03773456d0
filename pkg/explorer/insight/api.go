package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
)

func (i *insight) GetUTXOs(
	ctx context.Context, addresses []string, minConfirmations int64,
) ([]explorer.Utxo, error) {
	if len(addresses) <= 0 {
		return nil, nil
	}

	var utxos []explorer.Utxo
	path := fmt.Sprintf("/addrs/%s/utxo", joinAddresses(addresses))
	if err := i.get(ctx, path, nil, &utxos); err != nil {
		return nil, err
	}

	filtered := make([]explorer.Utxo, 0, len(utxos))
	for _, u := range utxos {
		if u.Confirmations >= minConfirmations {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

func (i *insight) GetBalanceDetail(
	ctx context.Context, addresses []string, opts explorer.BalanceOpts,
) (*explorer.BalanceDetail, error) {
	utxos, err := i.GetUTXOs(ctx, addresses, 0)
	if err != nil {
		return nil, err
	}
	return explorer.NewBalanceDetail(utxos, opts), nil
}

func (i *insight) GetTXs(
	ctx context.Context, addresses []string, from, to int,
) (*explorer.TxPage, error) {
	if len(addresses) <= 0 {
		return &explorer.TxPage{}, nil
	}

	page := &explorer.TxPage{}
	path := fmt.Sprintf("/addrs/%s/txs", joinAddresses(addresses))
	if err := i.get(ctx, path, pageQuery(from, to), page); err != nil {
		return nil, err
	}
	return page, nil
}

func (i *insight) GetTXsAll(
	ctx context.Context, addresses []string,
) ([]explorer.Tx, error) {
	txs := make([]explorer.Tx, 0)
	from, to := 0, txsPageSize
	for {
		page, err := i.GetTXs(ctx, addresses, from, to)
		if err != nil {
			return nil, err
		}
		txs = append(txs, page.Items...)
		if len(txs) >= page.TotalItems || len(page.Items) <= 0 {
			return txs, nil
		}
		from, to = len(txs), len(txs)+nextPageSize(page.TotalItems, len(txs))
	}
}

func (i *insight) GetTokenBalance(
	ctx context.Context, addresses []string,
) ([]explorer.TokenBalance, error) {
	if len(addresses) <= 0 {
		return nil, nil
	}

	var balances []explorer.TokenBalance
	query := url.Values{"balanceAddress": []string{joinAddresses(addresses)}}
	if err := i.get(ctx, "/erc20/balances", query, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

func (i *insight) GetTokenTXs(
	ctx context.Context, contract string, addresses []string, from, to int,
) (*explorer.TokenTxPage, error) {
	page := &explorer.TokenTxPage{}
	query := pageQuery(from, to)
	query.Set("addresses", joinAddresses(addresses))
	path := fmt.Sprintf("/erc20/%s/transfers", contract)
	if err := i.get(ctx, path, query, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (i *insight) GetTokenTXsAll(
	ctx context.Context, contract string, addresses []string,
) ([]explorer.TokenTx, error) {
	txs := make([]explorer.TokenTx, 0)
	from, to := 0, txsPageSize
	for {
		page, err := i.GetTokenTXs(ctx, contract, addresses, from, to)
		if err != nil {
			return nil, err
		}
		txs = append(txs, page.Items...)
		if len(txs) >= page.TotalItems || len(page.Items) <= 0 {
			return txs, nil
		}
		from, to = len(txs), len(txs)+nextPageSize(page.TotalItems, len(txs))
	}
}

func (i *insight) CallContract(
	ctx context.Context, contract, data string,
) (*explorer.ContractCallResult, error) {
	result := &explorer.ContractCallResult{}
	path := fmt.Sprintf("/contracts/%s/hash/%s/call", contract, data)
	if err := i.get(ctx, path, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (i *insight) SendRawTransaction(
	ctx context.Context, txHex string,
) (string, error) {
	var result struct {
		TxID string `json:"txid"`
	}
	payload := map[string]string{"rawtx": txHex}
	if err := i.post(ctx, "/tx/send", payload, &result); err != nil {
		return "", err
	}
	return result.TxID, nil
}

func (i *insight) GetTransactionReceipt(
	ctx context.Context, txid string,
) ([]explorer.TransactionReceipt, error) {
	var receipts []explorer.TransactionReceipt
	path := fmt.Sprintf("/txs/%s/receipt", txid)
	if err := i.get(ctx, path, nil, &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

func (i *insight) EstimateFee(
	ctx context.Context, nBlocks int,
) (decimal.Decimal, error) {
	var raw json.RawMessage
	query := url.Values{"nBlocks": []string{strconv.Itoa(nBlocks)}}
	if err := i.get(ctx, "/utils/estimateFee", query, &raw); err != nil {
		return decimal.Zero, err
	}

	// the node answers -1 when it has not enough data for an estimation
	fee, err := decimal.NewFromString(strings.Trim(string(raw), `" `))
	if err != nil {
		fee = decimal.NewFromInt(-1)
	}
	return explorer.NormalizeFeePerKB(fee), nil
}

func (i *insight) EstimateFeePerByte(
	ctx context.Context, nBlocks int,
) (decimal.Decimal, error) {
	feePerKB, err := i.EstimateFee(ctx, nBlocks)
	if err != nil {
		return decimal.Zero, err
	}
	return explorer.FeePerByte(feePerKB), nil
}

func joinAddresses(addresses []string) string {
	return strings.Join(addresses, ",")
}

func pageQuery(from, to int) url.Values {
	return url.Values{
		"from": []string{strconv.Itoa(from)},
		"to":   []string{strconv.Itoa(to)},
	}
}

func nextPageSize(total, fetched int) int {
	if total-fetched > txsPageSize {
		return txsPageSize
	}
	return total - fetched
}
