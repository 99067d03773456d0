package wallet

import (
	"encoding/hex"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// NewMnemonicOpts is the struct given to NewMnemonic method
type NewMnemonicOpts struct {
	EntropySize int
}

func (o NewMnemonicOpts) validate() error {
	if o.EntropySize > 0 {
		if o.EntropySize < 128 || o.EntropySize > 256 || o.EntropySize%32 != 0 {
			return ErrInvalidEntropySize
		}
	}
	if o.EntropySize < 0 {
		return ErrInvalidEntropySize
	}
	return nil
}

// NewMnemonic returns a new random BIP39 mnemonic, 12 words by default
func NewMnemonic(opts NewMnemonicOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	if opts.EntropySize == 0 {
		opts.EntropySize = 128
	}

	entropy, err := bip39.NewEntropy(opts.EntropySize)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// IsMnemonicValid returns whether the given mnemonic passes the BIP39
// wordlist and checksum validation
func IsMnemonicValid(mnemonic string) bool {
	return bip39.IsMnemonicValid(normalizeMnemonic(mnemonic))
}

// MnemonicToEntropy returns the entropy encoded by the mnemonic in hex format
func MnemonicToEntropy(mnemonic string) (string, error) {
	if len(mnemonic) <= 0 {
		return "", ErrNullMnemonic
	}
	mnemonic = normalizeMnemonic(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", ErrInvalidMnemonic
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return "", ErrInvalidMnemonic
	}
	return hex.EncodeToString(entropy), nil
}

// EntropyToMnemonic converts an entropy in hex format to its mnemonic
func EntropyToMnemonic(entropyHex string) (string, error) {
	entropy, err := hex.DecodeString(entropyHex)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// MnemonicToSeed returns the BIP39 seed of the given mnemonic in hex format
func MnemonicToSeed(mnemonic, passphrase string) (string, error) {
	if len(mnemonic) <= 0 {
		return "", ErrNullMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(
		normalizeMnemonic(mnemonic), passphrase,
	)
	if err != nil {
		return "", ErrInvalidMnemonic
	}
	return hex.EncodeToString(seed), nil
}

func normalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}
