package vault

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vipstarcoin/vipswallet/pkg/address"
	"github.com/vipstarcoin/vipswallet/pkg/contract"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/mathutil"
)

// ContractTxOpts is the struct given to BuildSendToContractTransactionData
// method. Zero gas values are replaced by the chain defaults.
type ContractTxOpts struct {
	// GasLimit in gas units.
	GasLimit uint64
	// GasPrice in satoshi per gas unit.
	GasPrice uint64
	// FeeRate in coin per byte. The provider estimation is used if empty.
	FeeRate            string
	Utxos              []explorer.Utxo
	AllowConfirmations int64
}

func (o ContractTxOpts) gas() (uint64, uint64) {
	gasLimit, gasPrice := contract.DefaultGas()
	if o.GasLimit > 0 {
		gasLimit = o.GasLimit
	}
	if o.GasPrice > 0 {
		gasPrice = o.GasPrice
	}
	return gasLimit, gasPrice
}

// BuildSendToContractTransactionData returns the draft of a tx calling the
// given contract with data on behalf of senderAddress, transferring amount
// coins to it. The first input is always owned by senderAddress and the
// change goes back to it.
func (a *Account) BuildSendToContractTransactionData(
	ctx context.Context, contractAddress, senderAddress, data, amount string,
	opts ContractTxOpts,
) (*TransactionDraft, error) {
	if !a.scheme.supportsContracts() {
		return nil, ErrNotSupported
	}

	a.lock.Lock()
	defer a.lock.Unlock()

	contractHex, err := a.contractHex(contractAddress)
	if err != nil {
		return nil, err
	}
	if _, _, ok := a.findAddress(senderAddress); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSenderAddress, senderAddress)
	}
	value, err := callValue(amount)
	if err != nil {
		return nil, err
	}

	gasLimit, gasPrice := opts.gas()
	callScript, err := contract.CompileContractScript(
		contractHex, data, gasLimit, gasPrice,
	)
	if err != nil {
		return nil, err
	}
	gasFee, err := contract.GasFee(gasLimit, gasPrice)
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

	// the gas budget is spent by the call, it is accounted as a plain output
	// during selection but never added to the tx.
	outputs := []explorer.Output{
		{Address: senderAddress, Value: gasFee},
		{Script: callScript, Value: value},
	}

	selection, err := selectSenderFirst(utxos, outputs, feeRate, senderAddress)
	if err != nil {
		return nil, err
	}
	sortInputsBySender(selection.Inputs, senderAddress)
	if selection.Inputs[0].Address != senderAddress {
		return nil, fmt.Errorf(
			"%w: %s has no spendable output", ErrUnknownSenderAddress, senderAddress,
		)
	}

	paths, err := a.addressPaths(selection.Inputs)
	if err != nil {
		return nil, err
	}

	tx, err := newUnsignedTx(selection.Inputs)
	if err != nil {
		return nil, err
	}
	callOut, err := a.txOutput(outputs[1])
	if err != nil {
		return nil, err
	}
	tx.AddTxOut(callOut)

	for _, out := range selection.Outputs {
		if !out.IsChange() || out.Value == 0 {
			continue
		}
		changeOut, err := a.txOutput(explorer.Output{
			Address: senderAddress, Value: out.Value,
		})
		if err != nil {
			return nil, err
		}
		tx.AddTxOut(changeOut)
	}

	return &TransactionDraft{
		Tx:            tx,
		Inputs:        selection.Inputs,
		AddressPaths:  paths,
		Fee:           gasFee + selection.Fee,
		GasFee:        gasFee,
		EstimatedSize: a.estimateSize(tx),
	}, nil
}

// selectSenderFirst runs the coin selection over the outputs of sender and,
// while the funds are not enough, adds back the other utxos one at a time.
func selectSenderFirst(
	utxos []explorer.Utxo, outputs []explorer.Output, feeRate uint64,
	sender string,
) (*explorer.Selection, error) {
	candidates := make([]explorer.Utxo, 0, len(utxos))
	others := make([]explorer.Utxo, 0, len(utxos))
	for _, u := range utxos {
		if u.Address == sender {
			candidates = append(candidates, u)
		} else {
			others = append(others, u)
		}
	}

	for {
		selection, err := explorer.SelectCoins(candidates, outputs, feeRate)
		if err == nil {
			return selection, nil
		}
		if err != explorer.ErrInsufficientFunds || len(others) <= 0 {
			return nil, err
		}
		candidates = append(candidates, others[0])
		others = others[1:]
	}
}

// callValue converts the coins transferred to a contract into satoshi, an
// empty or zero amount is allowed.
func callValue(amount string) (uint64, error) {
	if amount == "" {
		return 0, nil
	}
	if d, err := decimal.NewFromString(amount); err == nil && d.IsZero() {
		return 0, nil
	}
	return mathutil.CoinToSatoshi(amount)
}

// contractHex accepts both the hex and the base58 form of a contract
// address.
func (a *Account) contractHex(contractAddress string) (string, error) {
	if address.IsValidContractAddress(contractAddress) {
		return strings.TrimPrefix(strings.ToLower(contractAddress), "0x"), nil
	}
	hexAddr, err := address.ToContractAddress(contractAddress, a.net)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidContractAddress, contractAddress)
	}
	return hexAddr, nil
}

// GetTokenInfo reads name, symbol, decimals and total supply of the given
// ERC20 contract.
func (a *Account) GetTokenInfo(
	ctx context.Context, contractAddress string,
) (*explorer.TokenInfo, error) {
	if !a.scheme.supportsContracts() {
		return nil, ErrNotSupported
	}
	contractHex, err := a.contractHex(contractAddress)
	if err != nil {
		return nil, err
	}
	erc20 := contract.NewERC20(a.net)

	calls := []struct {
		data string
		typ  string
	}{
		{erc20.Name(), "string"},
		{erc20.Symbol(), "string"},
		{erc20.Decimals(), "uint8"},
		{erc20.TotalSupply(), "uint256"},
	}
	values := make([]interface{}, 0, len(calls))
	for _, c := range calls {
		v, err := a.callContractFor(ctx, contractHex, c.data, c.typ)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	info := &explorer.TokenInfo{Address: contractHex}
	info.Name, _ = values[0].(string)
	info.Symbol, _ = values[1].(string)
	info.Decimals, _ = values[2].(uint8)
	if supply, ok := values[3].(*big.Int); ok {
		info.TotalSupply = supply.String()
	}
	return info, nil
}

// GetTokenBalanceOf returns the balance, in token base units, of addr for
// the given ERC20 contract.
func (a *Account) GetTokenBalanceOf(
	ctx context.Context, contractAddress, addr string,
) (*big.Int, error) {
	if !a.scheme.supportsContracts() {
		return nil, ErrNotSupported
	}
	contractHex, err := a.contractHex(contractAddress)
	if err != nil {
		return nil, err
	}
	data, err := contract.NewERC20(a.net).BalanceOf(addr)
	if err != nil {
		return nil, err
	}
	v, err := a.callContractFor(ctx, contractHex, data, "uint256")
	if err != nil {
		return nil, err
	}
	balance, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected balance type %T", ErrContractCallFailed, v)
	}
	return balance, nil
}

func (a *Account) callContractFor(
	ctx context.Context, contractHex, data, typ string,
) (interface{}, error) {
	res, err := a.provider.CallContract(ctx, contractHex, data)
	if err != nil {
		return nil, err
	}
	if ex := res.ExecutionResult.Excepted; ex != "" && ex != "None" {
		return nil, fmt.Errorf("%w: %s", ErrContractCallFailed, ex)
	}
	values, err := contract.DecodeResult([]string{typ}, res.ExecutionResult.Output)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrContractCallFailed, err)
	}
	return values[0], nil
}

// BuildTokenTransfer returns the draft of an ERC20 transfer of amount tokens
// from the owned address from to the address to.
func (a *Account) BuildTokenTransfer(
	ctx context.Context, contractAddress, from, to, amount string,
	decimals uint8, opts ContractTxOpts,
) (*TransactionDraft, error) {
	if !a.scheme.supportsContracts() {
		return nil, ErrNotSupported
	}
	units, err := contract.TokenAmount(amount, decimals)
	if err != nil {
		return nil, err
	}
	data, err := contract.NewERC20(a.net).Transfer(to, units)
	if err != nil {
		return nil, err
	}
	return a.BuildSendToContractTransactionData(
		ctx, contractAddress, from, data, "", opts,
	)
}

// BuildTokenApprove returns the draft of an ERC20 approval allowing spender
// to transfer up to amount tokens of the owned address owner.
func (a *Account) BuildTokenApprove(
	ctx context.Context, contractAddress, owner, spender, amount string,
	decimals uint8, opts ContractTxOpts,
) (*TransactionDraft, error) {
	if !a.scheme.supportsContracts() {
		return nil, ErrNotSupported
	}
	units, err := contract.TokenAmount(amount, decimals)
	if err != nil {
		return nil, err
	}
	data, err := contract.NewERC20(a.net).Approve(spender, units)
	if err != nil {
		return nil, err
	}
	return a.BuildSendToContractTransactionData(
		ctx, contractAddress, owner, data, "", opts,
	)
}

// GetTokenBalance returns the token balances of all the account addresses.
func (a *Account) GetTokenBalance(ctx context.Context) ([]explorer.TokenBalance, error) {
	if !a.scheme.supportsContracts() {
		return nil, ErrNotSupported
	}
	return a.provider.GetTokenBalance(ctx, a.AllAddresses())
}

// GetTokenTXs returns the page [from, to) of the transfers of the given
// token involving the account addresses.
func (a *Account) GetTokenTXs(
	ctx context.Context, contractAddress string, from, to int,
) (*explorer.TokenTxPage, error) {
	if !a.scheme.supportsContracts() {
		return nil, ErrNotSupported
	}
	contractHex, err := a.contractHex(contractAddress)
	if err != nil {
		return nil, err
	}
	return a.provider.GetTokenTXs(ctx, contractHex, a.AllAddresses(), from, to)
}

// GetTokenTXsAll ...
func (a *Account) GetTokenTXsAll(
	ctx context.Context, contractAddress string,
) ([]explorer.TokenTx, error) {
	if !a.scheme.supportsContracts() {
		return nil, ErrNotSupported
	}
	contractHex, err := a.contractHex(contractAddress)
	if err != nil {
		return nil, err
	}
	return a.provider.GetTokenTXsAll(ctx, contractHex, a.AllAddresses())
}
