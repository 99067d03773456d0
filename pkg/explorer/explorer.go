package explorer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/vipstarcoin/vipswallet/pkg/network"
)

var (
	// ErrProviderUnavailable ...
	ErrProviderUnavailable = errors.New("all provider endpoints are unavailable")
	// ErrInvalidApiProvider ...
	ErrInvalidApiProvider = errors.New("unknown api provider")
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network must not be null")
	// ErrNullEndpoints ...
	ErrNullEndpoints = errors.New("at least one endpoint is required")

	minFeePerKB   = decimal.RequireFromString(network.MinFeePerKB)
	minFeePerByte = decimal.RequireFromString(network.MinFeePerByte)
	oneThousand   = decimal.NewFromInt(1000)
)

// Service is the representation of a remote chain data provider that allows
// to fetch balances, utxos and history of a set of addresses, to call
// contracts and to broadcast transactions.
type Service interface {
	// Name returns the name the provider is registered with.
	Name() string
	// GetUTXOs returns the unspents of the given addresses with at least
	// minConfirmations confirmations.
	GetUTXOs(ctx context.Context, addresses []string, minConfirmations int64) ([]Utxo, error)
	// GetBalanceDetail returns the balance of the given addresses split by
	// spendability.
	GetBalanceDetail(ctx context.Context, addresses []string, opts BalanceOpts) (*BalanceDetail, error)
	// GetTXs returns the page [from, to) of the history of the given addresses.
	GetTXs(ctx context.Context, addresses []string, from, to int) (*TxPage, error)
	// GetTXsAll returns the whole history of the given addresses.
	GetTXsAll(ctx context.Context, addresses []string) ([]Tx, error)
	// GetTokenBalance returns the token balances of the given addresses.
	GetTokenBalance(ctx context.Context, addresses []string) ([]TokenBalance, error)
	// GetTokenTXs returns the page [from, to) of the token transfers of the
	// given addresses.
	GetTokenTXs(ctx context.Context, contract string, addresses []string, from, to int) (*TokenTxPage, error)
	// GetTokenTXsAll returns all the token transfers of the given addresses.
	GetTokenTXsAll(ctx context.Context, contract string, addresses []string) ([]TokenTx, error)
	// CallContract executes a read only call of the given contract.
	CallContract(ctx context.Context, contract, data string) (*ContractCallResult, error)
	// SendRawTransaction broadcasts the given tx in hex format and returns
	// its hash.
	SendRawTransaction(ctx context.Context, txHex string) (string, error)
	// GetTransactionReceipt returns the receipts of the contract calls
	// executed by the given tx.
	GetTransactionReceipt(ctx context.Context, txid string) ([]TransactionReceipt, error)
	// EstimateFee returns the fee rate in coin per KB.
	EstimateFee(ctx context.Context, nBlocks int) (decimal.Decimal, error)
	// EstimateFeePerByte returns the fee rate in coin per byte.
	EstimateFeePerByte(ctx context.Context, nBlocks int) (decimal.Decimal, error)
}

// NormalizeFeePerKB replaces an implausible fee estimation with MinFeePerKB.
func NormalizeFeePerKB(feePerKB decimal.Decimal) decimal.Decimal {
	if feePerKB.IsNegative() {
		return minFeePerKB
	}
	return feePerKB
}

// FeePerByte converts a fee rate in coin per KB into coin per byte, floored
// at MinFeePerByte.
func FeePerByte(feePerKB decimal.Decimal) decimal.Decimal {
	if feePerKB.LessThanOrEqual(minFeePerKB) {
		return minFeePerByte
	}
	return feePerKB.Div(oneThousand)
}

// Factory builds a provider for the given network.
type Factory func(net *network.Params) (Service, error)

// Resolver returns the provider registered with the given name.
type Resolver interface {
	Resolve(name string) (Service, error)
}

// Registry maps provider names to the factories building them. Resolved
// providers are cached so that accounts sharing a provider name share the
// same instance.
type Registry struct {
	lock      sync.Mutex
	net       *network.Params
	factories map[string]Factory
	services  map[string]Service
}

// NewRegistry returns an empty registry for the given network.
func NewRegistry(net *network.Params) *Registry {
	return &Registry{
		net:       net,
		factories: make(map[string]Factory),
		services:  make(map[string]Service),
	}
}

// Register adds or replaces the factory for the given name.
func (r *Registry) Register(name string, factory Factory) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.factories[name] = factory
	delete(r.services, name)
}

// Resolve implements Resolver.
func (r *Registry) Resolve(name string) (Service, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if svc, ok := r.services[name]; ok {
		return svc, nil
	}
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidApiProvider, name)
	}
	svc, err := factory(r.net)
	if err != nil {
		return nil, err
	}
	r.services[name] = svc
	return svc, nil
}

// Names returns the sorted list of registered provider names.
func (r *Registry) Names() []string {
	r.lock.Lock()
	defer r.lock.Unlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
