package application

import (
	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

// AccountInfo is the public view of an account of the wallet.
type AccountInfo struct {
	Label          string            `json:"label"`
	Type           vault.AccountType `json:"type"`
	Number         uint32            `json:"number"`
	ExtendedPubKey string            `json:"xpub"`
	Provider       string            `json:"api"`
	DefaultAddress string            `json:"default_address"`
	NextIndex      uint32            `json:"address_index"`
	IsDefault      bool              `json:"is_default"`
}

func newAccountInfo(account *vault.Account, defaultLabel string) AccountInfo {
	return AccountInfo{
		Label:          account.Label(),
		Type:           account.Type(),
		Number:         account.AccountNumber(),
		ExtendedPubKey: account.PublicKey(),
		Provider:       account.Provider().Name(),
		DefaultAddress: account.DefaultAddress(),
		NextIndex:      account.NextAddressIndex(),
		IsDefault:      account.Label() == defaultLabel,
	}
}

// CreateAccountRequest ...
type CreateAccountRequest struct {
	Label         string
	Type          vault.AccountType
	AccountNumber uint32
	Password      string
}

// SendRequest holds the params of a payment. An empty Account means the
// default one, an empty FeeRate means the provider estimation.
type SendRequest struct {
	Account  string
	Password string
	To       string
	Amount   string
	FeeRate  string
	Memo     string
}

func (r SendRequest) validate() error {
	if len(r.Password) <= 0 {
		return ErrMissingPassword
	}
	if len(r.To) <= 0 {
		return ErrMissingRecipient
	}
	return nil
}

// SendTokenRequest holds the params of an ERC20 transfer from the default
// address of the account.
type SendTokenRequest struct {
	Account  string
	Password string
	Contract string
	To       string
	Amount   string
	GasLimit uint64
	GasPrice uint64
	FeeRate  string
}

func (r SendTokenRequest) validate() error {
	if len(r.Password) <= 0 {
		return ErrMissingPassword
	}
	if len(r.To) <= 0 {
		return ErrMissingRecipient
	}
	return nil
}

// SendResult ...
type SendResult struct {
	TxID   string `json:"txid"`
	Fee    uint64 `json:"fee"`
	GasFee uint64 `json:"gas_fee,omitempty"`
}
