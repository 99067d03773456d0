package vault

import (
	"errors"

	"github.com/vipstarcoin/vipswallet/pkg/address"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/mathutil"
	"github.com/vipstarcoin/vipswallet/pkg/messageutil"
	"github.com/vipstarcoin/vipswallet/pkg/wallet"
)

var (
	// ErrInvalidAccountType ...
	ErrInvalidAccountType = errors.New("invalid account type")
	// ErrInvalidApiProvider ...
	ErrInvalidApiProvider = explorer.ErrInvalidApiProvider
	// ErrDecryptionFailed is returned when a secret can't be opened with the
	// given password.
	ErrDecryptionFailed = wallet.ErrDecryptionFailed
	// ErrUnknownUTXO ...
	ErrUnknownUTXO = errors.New("utxo is not a spendable output of the account")
	// ErrUnknownSenderAddress ...
	ErrUnknownSenderAddress = errors.New("could not find sender address")
	// ErrInsufficientFunds ...
	ErrInsufficientFunds = explorer.ErrInsufficientFunds
	// ErrNotSupported ...
	ErrNotSupported = errors.New("operation not supported by the account type")
	// ErrProviderUnavailable ...
	ErrProviderUnavailable = explorer.ErrProviderUnavailable
	// ErrDiscoveryDivergence ...
	ErrDiscoveryDivergence = errors.New(
		"address discovery exceeded the max number of windows",
	)
	// ErrInvalidMessage ...
	ErrInvalidMessage = messageutil.ErrInvalidMessage

	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = wallet.ErrInvalidMnemonic
	// ErrInvalidAmount ...
	ErrInvalidAmount = mathutil.ErrInvalidAmount
	// ErrInvalidAddress ...
	ErrInvalidAddress = address.ErrInvalidAddress
	// ErrInvalidContractAddress ...
	ErrInvalidContractAddress = address.ErrInvalidContractAddress
	// ErrUnknownAddress ...
	ErrUnknownAddress = errors.New("address is not owned by the account")
	// ErrAccountExists ...
	ErrAccountExists = errors.New("account already exists")
	// ErrInvalidSnapshot ...
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network must not be null")
	// ErrNullDraft ...
	ErrNullDraft = errors.New("transaction draft must not be null")
	// ErrContractCallFailed ...
	ErrContractCallFailed = errors.New("contract call failed")
)

var (
	// ErrAccountNotFound ...
	ErrAccountNotFound = errors.New("account not found")
	// ErrNullResolver ...
	ErrNullResolver = errors.New("provider resolver must not be null")
)
