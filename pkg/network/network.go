package network

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
)

const (
	// CoinType is the registered SLIP-44 coin type of the chain.
	CoinType = 1919
	// CoinbaseMaturity is the number of confirmations after which coinbase and
	// stake outputs become spendable.
	CoinbaseMaturity = 500
	// GapLimit is the number of consecutive unused addresses probed during
	// address discovery.
	GapLimit = 20
	// OpReturnBytes is the max size of a null data message.
	OpReturnBytes = 80
	// DefaultGasLimit is the gas limit used for contract calls when not set.
	DefaultGasLimit = 250000
	// DefaultGasPrice is the gas price (in satoshi) used for contract calls when
	// not set.
	DefaultGasPrice = 40
	// MinFeePerKB is the fee rate, in coin per KB, used when the estimator
	// returns an implausible value.
	MinFeePerKB = "0.004"
	// MinFeePerByte is the fee rate, in coin per byte, used when the estimated
	// rate per KB is not above MinFeePerKB.
	MinFeePerByte = "0.000004"

	// MessagePrefix is prepended to any message before signing it.
	MessagePrefix = "\x18VIPSTARCOIN Signed Message:\n"

	// MainnetName ...
	MainnetName = "mainnet"
	// TestnetName ...
	TestnetName = "testnet"
	// RegtestName ...
	RegtestName = "regtest"
)

var (
	// ErrUnknownNetwork ...
	ErrUnknownNetwork = errors.New("unknown network")
)

// Params extends the btcd chain parameters with the fields required by the
// wallet that are not part of chaincfg.Params.
type Params struct {
	chaincfg.Params

	MessagePrefix string
	APIBaseURLs   []string
}

// ChainParams returns the embedded chaincfg params, ready to be passed to the
// btcutil and hdkeychain packages.
func (p *Params) ChainParams() *chaincfg.Params {
	return &p.Params
}

var (
	// Mainnet ...
	Mainnet = newParams(
		chaincfg.MainNetParams, MainnetName, "bc",
		0x46, 0x32, 0x80,
		[4]byte{0x04, 0x88, 0xb2, 0x1e}, [4]byte{0x04, 0x88, 0xad, 0xe4},
		[]string{
			"https://mainnet.vipstarco.in/api",
			"https://api.vipstarco.in/api",
		},
	)
	// Testnet ...
	Testnet = newParams(
		chaincfg.TestNet3Params, TestnetName, "tb",
		0x64, 0x6e, 0xe4,
		[4]byte{0x04, 0x35, 0x87, 0xcf}, [4]byte{0x04, 0x35, 0x83, 0x94},
		[]string{"https://testnet.vipstarco.in/api"},
	)
	// Regtest ...
	Regtest = newParams(
		chaincfg.RegressionNetParams, RegtestName, "tb",
		0x78, 0x6e, 0xef,
		[4]byte{0x04, 0x35, 0x87, 0xcf}, [4]byte{0x04, 0x35, 0x83, 0x94},
		[]string{"https://regtest.vipstarco.in/api"},
	)
)

// FromName returns the network params for the given name.
func FromName(name string) (*Params, error) {
	switch name {
	case MainnetName:
		return Mainnet, nil
	case TestnetName:
		return Testnet, nil
	case RegtestName:
		return Regtest, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
}

func newParams(
	base chaincfg.Params, name, hrp string,
	pubKeyHashID, scriptHashID, privKeyID byte,
	hdPubID, hdPrivID [4]byte,
	apiURLs []string,
) *Params {
	p := base
	p.Name = name
	p.Bech32HRPSegwit = hrp
	p.PubKeyHashAddrID = pubKeyHashID
	p.ScriptHashAddrID = scriptHashID
	p.PrivateKeyID = privKeyID
	p.HDPublicKeyID = hdPubID
	p.HDPrivateKeyID = hdPrivID

	return &Params{
		Params:        p,
		MessagePrefix: MessagePrefix,
		APIBaseURLs:   apiURLs,
	}
}
