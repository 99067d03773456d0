package wallet

import (
	"errors"
	"fmt"
)

var (
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network params are null")
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed must not be null")
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic must not be null")
	// ErrNullPrivateKey ...
	ErrNullPrivateKey = errors.New("private key must not be null")
	// ErrNullMessage ...
	ErrNullMessage = errors.New("message must not be null")
	// ErrNullTransaction ...
	ErrNullTransaction = errors.New("transaction must not be null")

	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be in base64 format")
	// ErrInvalidScheme ...
	ErrInvalidScheme = errors.New("unknown encryption scheme")
	// ErrDecryptionFailed is returned when a cypher cannot be opened with the
	// given passphrase.
	ErrDecryptionFailed = errors.New("decryption failed: wrong passphrase or corrupted cypher")
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrInvalidDerivationPathLength ...
	ErrInvalidDerivationPathLength = errors.New(
		"derivation path must be an account path in the form \"m/purpose'/coin'/account'\"",
	)
	// ErrInvalidDerivationPathAccount ...
	ErrInvalidDerivationPathAccount = errors.New(
		"all derivation path elems of an account path must be hardened (suffix \"'\")",
	)
	// ErrInvalidInputIndex ...
	ErrInvalidInputIndex = errors.New("input index out of range")
	// ErrInvalidSignature ...
	ErrInvalidSignature = errors.New("signature must be a base64 compact signature")
	// ErrOutOfRangeDerivationPathAccount ...
	ErrOutOfRangeDerivationPathAccount = fmt.Errorf(
		"account index must be in range [0, %d]", MaxHardenedValue,
	)
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
	// ErrSignatureVerificationFailed ...
	ErrSignatureVerificationFailed = errors.New("signature verification failed")
)
