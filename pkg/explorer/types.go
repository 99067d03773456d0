package explorer

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vipstarcoin/vipswallet/pkg/mathutil"
	"github.com/vipstarcoin/vipswallet/pkg/network"
)

// Utxo is an unspent output as returned by the provider.
type Utxo struct {
	Address       string `json:"address"`
	TxID          string `json:"txid"`
	Vout          uint32 `json:"vout"`
	ScriptPubKey  string `json:"scriptPubKey"`
	Satoshis      uint64 `json:"satoshis"`
	IsCoinBase    bool   `json:"isCoinBase"`
	IsStake       bool   `json:"isStake"`
	Height        int64  `json:"height"`
	Confirmations int64  `json:"confirmations"`
}

// Key returns the outpoint of the utxo in the form txid:vout.
func (u Utxo) Key() string {
	return fmt.Sprintf("%s:%d", u.TxID, u.Vout)
}

// IsStakingLocked returns whether the utxo is a stake output not yet mature.
func (u Utxo) IsStakingLocked() bool {
	return u.IsStake && u.Confirmations < network.CoinbaseMaturity
}

// IsImmature returns whether the utxo is a block reward not yet mature.
func (u Utxo) IsImmature() bool {
	return u.IsCoinBase && !u.IsStake && u.Confirmations < network.CoinbaseMaturity
}

// IsSpendable returns whether the utxo has at least minConfirmations and is
// neither staking-locked nor immature.
func (u Utxo) IsSpendable(minConfirmations int64) bool {
	return u.Confirmations >= minConfirmations && !u.IsStakingLocked() && !u.IsImmature()
}

// BalanceOpts ...
type BalanceOpts struct {
	MinConfirmations int64
	IncludeUtxo      bool
}

// BalanceDetail is the balance of a set of addresses in coin units.
type BalanceDetail struct {
	Balance            decimal.Decimal `json:"balance"`
	UnconfirmedBalance decimal.Decimal `json:"unconfirmedBalance"`
	ImmatureBalance    decimal.Decimal `json:"immatureBalance"`
	StakingBalance     decimal.Decimal `json:"stakingBalance"`
	Utxo               []Utxo          `json:"utxo,omitempty"`
}

// NewBalanceDetail splits the value of the given utxos by spendability.
// MinConfirmations lower than 1 is defaulted to 1.
func NewBalanceDetail(utxos []Utxo, opts BalanceOpts) *BalanceDetail {
	minConfirmations := opts.MinConfirmations
	if minConfirmations < 1 {
		minConfirmations = 1
	}

	var balance, unconfirmed, immature, staking uint64
	for _, u := range utxos {
		switch {
		case u.Confirmations < minConfirmations:
			unconfirmed += u.Satoshis
		case u.IsStakingLocked():
			staking += u.Satoshis
		case u.IsImmature():
			immature += u.Satoshis
		default:
			balance += u.Satoshis
		}
	}

	detail := &BalanceDetail{
		Balance:            mathutil.SatoshiToCoin(balance),
		UnconfirmedBalance: mathutil.SatoshiToCoin(unconfirmed),
		ImmatureBalance:    mathutil.SatoshiToCoin(immature),
		StakingBalance:     mathutil.SatoshiToCoin(staking),
	}
	if opts.IncludeUtxo {
		detail.Utxo = utxos
	}
	return detail
}

// TxInput ...
type TxInput struct {
	TxID     string          `json:"txid"`
	Vout     uint32          `json:"vout"`
	Address  string          `json:"addr"`
	ValueSat int64           `json:"valueSat"`
	Value    decimal.Decimal `json:"value"`
}

// ScriptPubKey ...
type ScriptPubKey struct {
	Hex       string   `json:"hex"`
	Asm       string   `json:"asm"`
	Addresses []string `json:"addresses"`
	Type      string   `json:"type"`
}

// TxOutput ...
type TxOutput struct {
	Value        decimal.Decimal `json:"value"`
	N            uint32          `json:"n"`
	ScriptPubKey ScriptPubKey    `json:"scriptPubKey"`
}

// Tx is a transaction of the history of a set of addresses.
type Tx struct {
	TxID          string          `json:"txid"`
	Version       int32           `json:"version"`
	LockTime      uint32          `json:"locktime"`
	BlockHash     string          `json:"blockhash"`
	BlockHeight   int64           `json:"blockheight"`
	Confirmations int64           `json:"confirmations"`
	Time          int64           `json:"time"`
	Vin           []TxInput       `json:"vin"`
	Vout          []TxOutput      `json:"vout"`
	Fees          decimal.Decimal `json:"fees"`
}

// Addresses returns the list of addresses funding or funded by the tx.
func (t Tx) Addresses() []string {
	addresses := make([]string, 0, len(t.Vin)+len(t.Vout))
	for _, in := range t.Vin {
		if in.Address != "" {
			addresses = append(addresses, in.Address)
		}
	}
	for _, out := range t.Vout {
		addresses = append(addresses, out.ScriptPubKey.Addresses...)
	}
	return addresses
}

// TxPage ...
type TxPage struct {
	TotalItems int  `json:"totalItems"`
	From       int  `json:"from"`
	To         int  `json:"to"`
	Items      []Tx `json:"items"`
}

// TokenInfo ...
type TokenInfo struct {
	Address     string `json:"address"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	TotalSupply string `json:"totalSupply"`
}

// TokenBalance is the balance of an address for a token, expressed in
// token units.
type TokenBalance struct {
	Address  string    `json:"address"`
	Amount   string    `json:"amount"`
	Contract TokenInfo `json:"contract"`
}

// TokenTx is a token transfer.
type TokenTx struct {
	TxID     string `json:"txid"`
	Contract string `json:"contract"`
	From     string `json:"from"`
	To       string `json:"to"`
	Value    string `json:"value"`
	Time     int64  `json:"time"`
}

// TokenTxPage ...
type TokenTxPage struct {
	TotalItems int       `json:"totalItems"`
	From       int       `json:"from"`
	To         int       `json:"to"`
	Items      []TokenTx `json:"items"`
}

// ExecutionResult ...
type ExecutionResult struct {
	GasUsed       int64  `json:"gasUsed"`
	Excepted      string `json:"excepted"`
	NewAddress    string `json:"newAddress"`
	Output        string `json:"output"`
	CodeDeposit   int64  `json:"codeDeposit"`
	GasRefunded   int64  `json:"gasRefunded"`
	DepositSize   int64  `json:"depositSize"`
	GasForDeposit int64  `json:"gasForDeposit"`
}

// Log is an event emitted by a contract.
type Log struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// ContractCallResult ...
type ContractCallResult struct {
	Address            string          `json:"address"`
	ExecutionResult    ExecutionResult `json:"executionResult"`
	TransactionReceipt struct {
		StateRoot string `json:"stateRoot"`
		GasUsed   int64  `json:"gasUsed"`
		Bloom     string `json:"bloom"`
		Log       []Log  `json:"log"`
	} `json:"transactionReceipt"`
}

// TransactionReceipt ...
type TransactionReceipt struct {
	BlockHash         string `json:"blockHash"`
	BlockNumber       int64  `json:"blockNumber"`
	TransactionHash   string `json:"transactionHash"`
	TransactionIndex  int64  `json:"transactionIndex"`
	From              string `json:"from"`
	To                string `json:"to"`
	CumulativeGasUsed int64  `json:"cumulativeGasUsed"`
	GasUsed           int64  `json:"gasUsed"`
	ContractAddress   string `json:"contractAddress"`
	Excepted          string `json:"excepted"`
	Log               []Log  `json:"log"`
}
