package vault

import (
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/network"
	"github.com/vipstarcoin/vipswallet/pkg/wallet"
)

const (
	externalChain uint32 = 0
	internalChain uint32 = 1
)

// AddressEntry is the pair of external (receive) and change addresses
// derived at the same BIP-44 address_index.
type AddressEntry struct {
	Index    uint32 `json:"index"`
	Used     bool   `json:"used"`
	External string `json:"external"`
	Change   string `json:"change"`
}

// AddressPath locates the key that owns an address, relative to the account
// extended key.
type AddressPath struct {
	Change uint32 `json:"change"`
	Index  uint32 `json:"index"`
}

// AccountOpts is the struct given to NewAccount.
type AccountOpts struct {
	AccountNumber       uint32
	Label               string
	Type                AccountType
	EncryptedPrivateKey string
	PublicKey           string
	DefaultAddressIndex uint32
	Addresses           []AddressEntry
	Provider            explorer.Service
	Network             *network.Params
	Discovery           DiscoveryOpts
}

func (o AccountOpts) validate() error {
	if _, err := schemeFor(o.Type); err != nil {
		return err
	}
	if o.Provider == nil {
		return fmt.Errorf("%w: provider must not be null", ErrInvalidApiProvider)
	}
	if o.Network == nil {
		return ErrNullNetwork
	}
	if len(o.EncryptedPrivateKey) <= 0 {
		return wallet.ErrNullCypherText
	}
	xpub, err := hdkeychain.NewKeyFromString(o.PublicKey)
	if err != nil {
		return fmt.Errorf("invalid account public key: %w", err)
	}
	if xpub.IsPrivate() {
		return fmt.Errorf("invalid account public key: %w", hdkeychain.ErrNotPrivExtKey)
	}
	for i, entry := range o.Addresses {
		if entry.Index != uint32(i) {
			return fmt.Errorf(
				"%w: address entry %d has index %d", ErrInvalidSnapshot, i, entry.Index,
			)
		}
	}
	if len(o.Addresses) > 0 && int(o.DefaultAddressIndex) >= len(o.Addresses) {
		return fmt.Errorf(
			"%w: default address index %d out of range", ErrInvalidSnapshot,
			o.DefaultAddressIndex,
		)
	}
	return nil
}

// Account is a sub-wallet derived at m/type'/coinType'/accountNumber'. It
// owns its address book and is the only one allowed to mutate it: discovery,
// address allocation and transaction building are serialized by an internal
// lock.
type Account struct {
	lock sync.Mutex

	accountNumber       uint32
	label               string
	encryptedPrivKey    string
	pubKey              string
	defaultAddressIndex uint32
	addresses           []AddressEntry

	scheme    scheme
	provider  explorer.Service
	net       *network.Params
	discovery DiscoveryOpts
}

// NewAccount returns an account with the given keys and address book. No
// network call is made, use Discover to sync the address book.
func NewAccount(opts AccountOpts) (*Account, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	s, _ := schemeFor(opts.Type)

	addresses := make([]AddressEntry, len(opts.Addresses))
	copy(addresses, opts.Addresses)

	return &Account{
		accountNumber:       opts.AccountNumber,
		label:               opts.Label,
		encryptedPrivKey:    opts.EncryptedPrivateKey,
		pubKey:              opts.PublicKey,
		defaultAddressIndex: opts.DefaultAddressIndex,
		addresses:           addresses,
		scheme:              s,
		provider:            opts.Provider,
		net:                 opts.Network,
		discovery:           opts.Discovery.withDefaults(),
	}, nil
}

func (a *Account) AccountNumber() uint32 {
	return a.accountNumber
}

func (a *Account) Label() string {
	return a.label
}

func (a *Account) Type() AccountType {
	return a.scheme.accountType()
}

// PublicKey returns the account extended public key in base58 format.
func (a *Account) PublicKey() string {
	return a.pubKey
}

func (a *Account) Network() *network.Params {
	return a.net
}

// Provider returns the remote provider the account is bound to.
func (a *Account) Provider() explorer.Service {
	return a.provider
}

// SupportsContracts returns whether the account is able to build contract
// call transactions.
func (a *Account) SupportsContracts() bool {
	return a.scheme.supportsContracts()
}

// NextAddressIndex returns the address_index that the next allocated address
// pair will have.
func (a *Account) NextAddressIndex() uint32 {
	a.lock.Lock()
	defer a.lock.Unlock()

	return uint32(len(a.addresses))
}

// Addresses returns a copy of the address book.
func (a *Account) Addresses() []AddressEntry {
	a.lock.Lock()
	defer a.lock.Unlock()

	addresses := make([]AddressEntry, len(a.addresses))
	copy(addresses, a.addresses)
	return addresses
}

// AllAddresses returns the list of external and change addresses of the
// account, pair by pair.
func (a *Account) AllAddresses() []string {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.allAddresses()
}

// DefaultAddress returns the default receiving address, empty if no address
// has been allocated yet.
func (a *Account) DefaultAddress() string {
	a.lock.Lock()
	defer a.lock.Unlock()

	if int(a.defaultAddressIndex) >= len(a.addresses) {
		return ""
	}
	return a.addresses[a.defaultAddressIndex].External
}

// DefaultChangeAddress returns the change address paired with the default
// one, empty if no address has been allocated yet.
func (a *Account) DefaultChangeAddress() string {
	a.lock.Lock()
	defer a.lock.Unlock()

	if int(a.defaultAddressIndex) >= len(a.addresses) {
		return ""
	}
	return a.addresses[a.defaultAddressIndex].Change
}

// SetDefaultAddressIndex ...
func (a *Account) SetDefaultAddressIndex(index uint32) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if int(index) >= len(a.addresses) {
		return fmt.Errorf("%w: index %d not allocated", ErrUnknownAddress, index)
	}
	a.defaultAddressIndex = index
	return nil
}

// FirstUnusedAddress returns the first external address never seen on chain,
// if any.
func (a *Account) FirstUnusedAddress() (string, bool) {
	a.lock.Lock()
	defer a.lock.Unlock()

	for _, entry := range a.addresses {
		if !entry.Used {
			return entry.External, true
		}
	}
	return "", false
}

// FindAddress returns the entry containing the given address together with
// the path of the key owning it.
func (a *Account) FindAddress(addr string) (*AddressEntry, *AddressPath, bool) {
	a.lock.Lock()
	defer a.lock.Unlock()

	entry, path, ok := a.findAddress(addr)
	if !ok {
		return nil, nil, false
	}
	e := *entry
	return &e, path, true
}

func (a *Account) findAddress(addr string) (*AddressEntry, *AddressPath, bool) {
	for i := range a.addresses {
		entry := &a.addresses[i]
		switch addr {
		case entry.External:
			return entry, &AddressPath{externalChain, entry.Index}, true
		case entry.Change:
			return entry, &AddressPath{internalChain, entry.Index}, true
		}
	}
	return nil, nil, false
}

func (a *Account) allAddresses() []string {
	addresses := make([]string, 0, len(a.addresses)*2)
	for _, entry := range a.addresses {
		addresses = append(addresses, entry.External, entry.Change)
	}
	return addresses
}

func (a *Account) generateAddress(change, index uint32) (string, error) {
	pubkey, err := wallet.DeriveChildPublicKey(a.pubKey, change, index)
	if err != nil {
		return "", err
	}
	return a.scheme.address(pubkey, a.net)
}

// allocateAddress appends the pair at the next address_index to the address
// book, not yet marked as used.
func (a *Account) allocateAddress() (*AddressEntry, error) {
	index := uint32(len(a.addresses))
	external, err := a.generateAddress(externalChain, index)
	if err != nil {
		return nil, err
	}
	change, err := a.generateAddress(internalChain, index)
	if err != nil {
		return nil, err
	}

	a.addresses = append(a.addresses, AddressEntry{
		Index:    index,
		External: external,
		Change:   change,
	})
	return &a.addresses[index], nil
}

func (a *Account) decryptPrivateKey(password string) (string, error) {
	a.lock.Lock()
	cypher := a.encryptedPrivKey
	a.lock.Unlock()

	xprv, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: cypher,
		Passphrase: password,
	})
	if err != nil {
		return "", err
	}
	// a wrong password may still produce a well padded plaintext
	if _, err := hdkeychain.NewKeyFromString(xprv); err != nil {
		return "", ErrDecryptionFailed
	}
	return xprv, nil
}

func (a *Account) setEncryptedPrivateKey(cypher string) {
	a.lock.Lock()
	defer a.lock.Unlock()

	a.encryptedPrivKey = cypher
}
