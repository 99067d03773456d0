package vault

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/explorer/insight"
	"github.com/vipstarcoin/vipswallet/pkg/network"
	"github.com/vipstarcoin/vipswallet/pkg/wallet"
	"golang.org/x/sync/errgroup"
)

// DefaultProvider is the provider of the accounts created without naming
// one.
const DefaultProvider = insight.Name

// Options are the settings shared by a wallet group and its accounts.
type Options struct {
	Network *network.Params
	// Resolver returns the provider of an account given its name.
	Resolver explorer.Resolver
	// Scheme is used to encrypt any new secret. Existing secrets are
	// decrypted whatever their scheme is.
	Scheme    wallet.Scheme
	Discovery DiscoveryOpts
}

func (o Options) validate() error {
	if o.Network == nil {
		return ErrNullNetwork
	}
	if o.Resolver == nil {
		return ErrNullResolver
	}
	if o.Scheme != wallet.SchemeLegacy && o.Scheme != wallet.SchemeAuthenticated {
		return wallet.ErrInvalidScheme
	}
	return nil
}

// WalletGroup is the set of accounts derived from the same master seed.
// Entropy and seed are kept encrypted and opened only for the time required
// by the operation needing them.
type WalletGroup struct {
	lock sync.RWMutex

	encryptedEntropy string
	encryptedSeed    string
	defaultAccount   string
	accounts         []*Account

	opts Options
}

// Generate returns a wallet group with no accounts wrapping the given
// already encrypted entropy and seed.
func Generate(encryptedEntropy, encryptedSeed string, opts Options) (*WalletGroup, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(encryptedEntropy) <= 0 || len(encryptedSeed) <= 0 {
		return nil, wallet.ErrNullCypherText
	}
	opts.Discovery = opts.Discovery.withDefaults()

	return &WalletGroup{
		encryptedEntropy: encryptedEntropy,
		encryptedSeed:    encryptedSeed,
		accounts:         make([]*Account, 0),
		opts:             opts,
	}, nil
}

// FromMnemonic returns a wallet group with no accounts whose entropy and
// seed are those of the given mnemonic, encrypted with password.
func FromMnemonic(mnemonic, password string, opts Options) (*WalletGroup, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	entropy, err := wallet.MnemonicToEntropy(mnemonic)
	if err != nil {
		return nil, err
	}
	seed, err := wallet.MnemonicToSeed(mnemonic, "")
	if err != nil {
		return nil, err
	}

	encryptedEntropy, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  entropy,
		Passphrase: password,
		Scheme:     opts.Scheme,
	})
	if err != nil {
		return nil, err
	}
	encryptedSeed, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  seed,
		Passphrase: password,
		Scheme:     opts.Scheme,
	})
	if err != nil {
		return nil, err
	}

	return Generate(encryptedEntropy, encryptedSeed, opts)
}

// NewMnemonicWalletGroup generates a new random mnemonic and returns it
// together with the wallet group derived from it.
func NewMnemonicWalletGroup(password string, opts Options) (*WalletGroup, string, error) {
	mnemonic, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{})
	if err != nil {
		return nil, "", err
	}
	group, err := FromMnemonic(mnemonic, password, opts)
	if err != nil {
		return nil, "", err
	}
	return group, mnemonic, nil
}

// ToMnemonic returns the mnemonic of the group.
func (w *WalletGroup) ToMnemonic(password string) (string, error) {
	w.lock.RLock()
	cypher := w.encryptedEntropy
	w.lock.RUnlock()

	entropy, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: cypher,
		Passphrase: password,
	})
	if err != nil {
		return "", err
	}
	mnemonic, err := wallet.EntropyToMnemonic(entropy)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return mnemonic, nil
}

func (w *WalletGroup) Network() *network.Params {
	return w.opts.Network
}

// CreateAccountOpts is the struct given to CreateAccount method.
type CreateAccountOpts struct {
	Label         string
	Type          AccountType
	AccountNumber uint32
	Password      string
	// Provider is the name of the remote provider, defaults to InsightAPI.
	Provider string
}

// CreateAccount derives the account at m/type'/coinType'/number', syncs its
// address book and adds it to the group. The group is left unchanged if any
// step fails.
func (w *WalletGroup) CreateAccount(
	ctx context.Context, opts CreateAccountOpts,
) (*Account, error) {
	if _, err := schemeFor(opts.Type); err != nil {
		return nil, err
	}
	if opts.AccountNumber > wallet.MaxHardenedValue {
		return nil, wallet.ErrOutOfRangeDerivationPathAccount
	}
	if len(opts.Provider) <= 0 {
		opts.Provider = DefaultProvider
	}

	if err := w.checkNewAccount(opts.Type, opts.AccountNumber); err != nil {
		return nil, err
	}

	keys, err := w.deriveAccountKeys(opts.Type, opts.AccountNumber, opts.Password)
	if err != nil {
		return nil, err
	}
	encryptedPrivKey, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  keys.ExtendedPrivateKey,
		Passphrase: opts.Password,
		Scheme:     w.opts.Scheme,
	})
	if err != nil {
		return nil, err
	}

	provider, err := w.opts.Resolver.Resolve(opts.Provider)
	if err != nil {
		return nil, err
	}

	account, err := NewAccount(AccountOpts{
		AccountNumber:       opts.AccountNumber,
		Label:               opts.Label,
		Type:                opts.Type,
		EncryptedPrivateKey: encryptedPrivKey,
		PublicKey:           keys.ExtendedPublicKey,
		Provider:            provider,
		Network:             w.opts.Network,
		Discovery:           w.opts.Discovery,
	})
	if err != nil {
		return nil, err
	}
	if err := account.Discover(ctx); err != nil {
		return nil, err
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	// the lock was released during discovery
	if err := w.findConflict(opts.Type, opts.AccountNumber); err != nil {
		return nil, err
	}
	w.accounts = append(w.accounts, account)
	if len(w.defaultAccount) <= 0 {
		w.defaultAccount = account.Label()
	}

	log.Debugf(
		"created account %d/%d %q with %d addresses",
		opts.Type, opts.AccountNumber, opts.Label, len(account.Addresses()),
	)
	return account, nil
}

func (w *WalletGroup) checkNewAccount(t AccountType, number uint32) error {
	w.lock.RLock()
	defer w.lock.RUnlock()

	return w.findConflict(t, number)
}

// findConflict checks that no account is derived along the same path.
// Labels may repeat, lookups by label return the first match.
func (w *WalletGroup) findConflict(t AccountType, number uint32) error {
	for _, a := range w.accounts {
		if a.Type() == t && a.AccountNumber() == number {
			return fmt.Errorf("%w: %d/%d", ErrAccountExists, t, number)
		}
	}
	return nil
}

func (w *WalletGroup) deriveAccountKeys(
	t AccountType, number uint32, password string,
) (*wallet.AccountKeys, error) {
	w.lock.RLock()
	cypher := w.encryptedSeed
	w.lock.RUnlock()

	seed, err := openHexSecret(cypher, password)
	if err != nil {
		return nil, err
	}

	path, err := wallet.AccountPath(uint32(t), network.CoinType, number)
	if err != nil {
		return nil, err
	}
	return wallet.DeriveAccountKey(wallet.DeriveAccountKeyOpts{
		SeedHex: seed,
		Path:    path,
		Network: w.opts.Network,
	})
}

// GetAccount returns the account with the given type and number.
func (w *WalletGroup) GetAccount(t AccountType, number uint32) (*Account, bool) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	for _, a := range w.accounts {
		if a.Type() == t && a.AccountNumber() == number {
			return a, true
		}
	}
	return nil, false
}

// GetAccountByLabel returns the first account with the given label, or the
// default one if label is empty.
func (w *WalletGroup) GetAccountByLabel(label string) (*Account, bool) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	if len(label) <= 0 {
		label = w.defaultAccount
	}
	for _, a := range w.accounts {
		if a.Label() == label {
			return a, true
		}
	}
	return nil, false
}

// DefaultAccount returns the label of the default account.
func (w *WalletGroup) DefaultAccount() string {
	w.lock.RLock()
	defer w.lock.RUnlock()

	return w.defaultAccount
}

// SetDefaultAccount ...
func (w *WalletGroup) SetDefaultAccount(label string) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	for _, a := range w.accounts {
		if a.Label() == label {
			w.defaultAccount = label
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrAccountNotFound, label)
}

// Accounts returns the accounts of the group in creation order.
func (w *WalletGroup) Accounts() []*Account {
	w.lock.RLock()
	defer w.lock.RUnlock()

	accounts := make([]*Account, len(w.accounts))
	copy(accounts, w.accounts)
	return accounts
}

// ChangePassword encrypts entropy, seed and the private key of every
// account with the new password. Nothing is changed if any of them can't
// be opened with the current one.
func (w *WalletGroup) ChangePassword(currentPassword, newPassword string) error {
	if len(newPassword) <= 0 {
		return wallet.ErrNullPassphrase
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	secrets := make([]string, 0, 2+len(w.accounts))
	for _, cypher := range []string{w.encryptedEntropy, w.encryptedSeed} {
		secret, err := openHexSecret(cypher, currentPassword)
		if err != nil {
			return err
		}
		secrets = append(secrets, secret)
	}
	for _, a := range w.accounts {
		xprv, err := a.decryptPrivateKey(currentPassword)
		if err != nil {
			return err
		}
		secrets = append(secrets, xprv)
	}

	cyphers := make([]string, 0, len(secrets))
	for _, secret := range secrets {
		cypher, err := wallet.Encrypt(wallet.EncryptOpts{
			PlainText:  secret,
			Passphrase: newPassword,
			Scheme:     w.opts.Scheme,
		})
		if err != nil {
			return err
		}
		cyphers = append(cyphers, cypher)
	}

	w.encryptedEntropy, w.encryptedSeed = cyphers[0], cyphers[1]
	for i, a := range w.accounts {
		a.setEncryptedPrivateKey(cyphers[2+i])
	}
	return nil
}

func openHexSecret(cypher, password string) (string, error) {
	secret, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: cypher,
		Passphrase: password,
	})
	if err != nil {
		return "", err
	}
	if _, err := hex.DecodeString(secret); err != nil {
		return "", ErrDecryptionFailed
	}
	return secret, nil
}

// Discover syncs the address book of every account concurrently.
func (w *WalletGroup) Discover(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, a := range w.Accounts() {
		a := a
		eg.Go(func() error {
			if err := a.Discover(ctx); err != nil {
				return fmt.Errorf(
					"account %d/%d: %w", a.Type(), a.AccountNumber(), err,
				)
			}
			return nil
		})
	}
	return eg.Wait()
}
