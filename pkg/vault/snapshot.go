package vault

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the serializable form of a wallet group. Secrets are stored
// encrypted only.
type Snapshot struct {
	Entropy        string            `json:"entropy"`
	Seed           string            `json:"seed"`
	DefaultAccount string            `json:"default_account"`
	Accounts       []AccountSnapshot `json:"accounts"`
}

// AccountSnapshot is the serializable form of an account.
type AccountSnapshot struct {
	Account        uint32         `json:"account"`
	Label          string         `json:"label"`
	Type           AccountType    `json:"type"`
	PrivKey        string         `json:"privkey"`
	PubKey         string         `json:"pubkey"`
	API            string         `json:"api"`
	DefaultAddress uint32         `json:"defaultAddress,omitempty"`
	AddressIndex   uint32         `json:"address_index"`
	Addresses      []AddressEntry `json:"addresses"`
}

// ParseSnapshot decodes a snapshot in JSON format.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSnapshot, err)
	}
	if snap.Accounts == nil {
		snap.Accounts = make([]AccountSnapshot, 0)
	}
	for i := range snap.Accounts {
		if snap.Accounts[i].Addresses == nil {
			snap.Accounts[i].Addresses = make([]AddressEntry, 0)
		}
	}
	return snap, nil
}

// Marshal returns the snapshot in JSON format.
func (s Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// ToSnapshot returns the snapshot of the account.
func (a *Account) ToSnapshot() AccountSnapshot {
	a.lock.Lock()
	defer a.lock.Unlock()

	addresses := make([]AddressEntry, len(a.addresses))
	copy(addresses, a.addresses)

	return AccountSnapshot{
		Account:        a.accountNumber,
		Label:          a.label,
		Type:           a.scheme.accountType(),
		PrivKey:        a.encryptedPrivKey,
		PubKey:         a.pubKey,
		API:            a.provider.Name(),
		DefaultAddress: a.defaultAddressIndex,
		AddressIndex:   uint32(len(a.addresses)),
		Addresses:      addresses,
	}
}

// ToSnapshot returns the snapshot of the wallet group.
func (w *WalletGroup) ToSnapshot() Snapshot {
	w.lock.RLock()
	defer w.lock.RUnlock()

	accounts := make([]AccountSnapshot, 0, len(w.accounts))
	for _, a := range w.accounts {
		accounts = append(accounts, a.ToSnapshot())
	}
	return Snapshot{
		Entropy:        w.encryptedEntropy,
		Seed:           w.encryptedSeed,
		DefaultAccount: w.defaultAccount,
		Accounts:       accounts,
	}
}

// FromSnapshot restores a wallet group. Accounts providers are resolved by
// name through opts.Resolver. No network call is made, use Discover to sync
// the restored accounts.
func FromSnapshot(snap Snapshot, opts Options) (*WalletGroup, error) {
	w, err := Generate(snap.Entropy, snap.Seed, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSnapshot, err)
	}
	w.defaultAccount = snap.DefaultAccount

	for _, s := range snap.Accounts {
		if int(s.AddressIndex) != len(s.Addresses) {
			return nil, fmt.Errorf(
				"%w: account %d/%d has address_index %d and %d addresses",
				ErrInvalidSnapshot, s.Type, s.Account, s.AddressIndex, len(s.Addresses),
			)
		}
		if err := w.findConflict(s.Type, s.Account); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSnapshot, err)
		}

		provider, err := opts.Resolver.Resolve(s.API)
		if err != nil {
			return nil, err
		}
		account, err := NewAccount(AccountOpts{
			AccountNumber:       s.Account,
			Label:               s.Label,
			Type:                s.Type,
			EncryptedPrivateKey: s.PrivKey,
			PublicKey:           s.PubKey,
			DefaultAddressIndex: s.DefaultAddress,
			Addresses:           s.Addresses,
			Provider:            provider,
			Network:             opts.Network,
			Discovery:           w.opts.Discovery,
		})
		if err != nil {
			return nil, err
		}
		w.accounts = append(w.accounts, account)
	}
	return w, nil
}
