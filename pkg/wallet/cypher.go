package wallet

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/scrypt"
)

// Scheme identifies the format of an encrypted secret.
type Scheme int

const (
	// SchemeLegacy is AES-256-CBC with sha256(passphrase) as key and a fixed IV.
	// It is the format of every snapshot written so far and carries no
	// integrity tag.
	SchemeLegacy Scheme = iota
	// SchemeAuthenticated is AES-256-GCM with a scrypt derived key.
	SchemeAuthenticated
)

const authenticatedPrefix = "$gcm$"

var (
	legacyIV = []byte{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	}

	// ScryptN is the CPU/memory cost of the key derivation used by
	// SchemeAuthenticated.
	ScryptN = 1 << 15
)

// ParseScheme returns the Scheme matching the given name.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "", "legacy":
		return SchemeLegacy, nil
	case "authenticated":
		return SchemeAuthenticated, nil
	default:
		return 0, ErrInvalidScheme
	}
}

func (s Scheme) String() string {
	switch s {
	case SchemeLegacy:
		return "legacy"
	case SchemeAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// EncryptOpts is the struct given to Encrypt method
type EncryptOpts struct {
	PlainText  string
	Passphrase string
	Scheme     Scheme
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	if o.Scheme != SchemeLegacy && o.Scheme != SchemeAuthenticated {
		return ErrInvalidScheme
	}
	return nil
}

// Encrypt encrypts a plaintext with the provided passphrase and returns the
// cypher in base64 format.
func Encrypt(opts EncryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	if opts.Scheme == SchemeAuthenticated {
		return encryptGCM([]byte(opts.PlainText), []byte(opts.Passphrase))
	}
	return encryptCBC([]byte(opts.PlainText), []byte(opts.Passphrase))
}

// DecryptOpts is the struct given to Decrypt method
type DecryptOpts struct {
	CypherText string
	Passphrase string
}

func (o DecryptOpts) validate() error {
	if len(o.CypherText) <= 0 {
		return ErrNullCypherText
	}
	if _, err := base64.StdEncoding.DecodeString(
		strings.TrimPrefix(o.CypherText, authenticatedPrefix),
	); err != nil {
		return ErrInvalidCypherText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return nil
}

// Decrypt decrypts a cypher with the provided passphrase. The scheme is
// detected from the cypher itself.
func Decrypt(opts DecryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	var (
		plaintext []byte
		err       error
	)
	if strings.HasPrefix(opts.CypherText, authenticatedPrefix) {
		data, _ := base64.StdEncoding.DecodeString(
			strings.TrimPrefix(opts.CypherText, authenticatedPrefix),
		)
		plaintext, err = decryptGCM(data, []byte(opts.Passphrase))
	} else {
		data, _ := base64.StdEncoding.DecodeString(opts.CypherText)
		plaintext, err = decryptCBC(data, []byte(opts.Passphrase))
	}
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// SchemeOf returns the scheme used to produce the given cypher.
func SchemeOf(cypherText string) Scheme {
	if strings.HasPrefix(cypherText, authenticatedPrefix) {
		return SchemeAuthenticated
	}
	return SchemeLegacy
}

// Reencrypt opens the cypher with the current passphrase and seals the
// plaintext again with the new one, using the given scheme.
func Reencrypt(
	cypherText, currentPassphrase, newPassphrase string, scheme Scheme,
) (string, error) {
	plaintext, err := Decrypt(DecryptOpts{
		CypherText: cypherText,
		Passphrase: currentPassphrase,
	})
	if err != nil {
		return "", err
	}
	return Encrypt(EncryptOpts{
		PlainText:  plaintext,
		Passphrase: newPassphrase,
		Scheme:     scheme,
	})
}

// DeriveKey derives a 32 byte array key from a custom passhprase
func DeriveKey(passphrase, salt []byte) ([]byte, []byte, error) {
	if salt == nil {
		salt = make([]byte, 32)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, err
		}
	}
	key, err := scrypt.Key(passphrase, salt, ScryptN, 8, 1, 32)
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}

func encryptCBC(plaintext, passphrase []byte) (string, error) {
	key := sha256.Sum256(passphrase)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad(plaintext, block.BlockSize())
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, legacyIV).CryptBlocks(ciphertext, padded)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func decryptCBC(data, passphrase []byte) ([]byte, error) {
	key := sha256.Sum256(passphrase)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || len(data)%block.BlockSize() != 0 {
		return nil, ErrDecryptionFailed
	}

	plaintext := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, legacyIV).CryptBlocks(plaintext, data)

	plaintext, err = pkcs7Unpad(plaintext, block.BlockSize())
	if err != nil {
		return nil, err
	}
	// a wrong key yields a valid padding once every ~256 attempts, the
	// resulting garbage is almost never valid utf8.
	if !utf8.Valid(plaintext) {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func encryptGCM(plaintext, passphrase []byte) (string, error) {
	key, salt, err := DeriveKey(passphrase, nil)
	if err != nil {
		return "", err
	}

	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(blockCipher)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	ciphertext = append(ciphertext, salt...)

	return authenticatedPrefix + base64.StdEncoding.EncodeToString(ciphertext), nil
}

func decryptGCM(data, passphrase []byte) ([]byte, error) {
	if len(data) <= 32 {
		return nil, ErrDecryptionFailed
	}
	salt, data := data[len(data)-32:], data[:len(data)-32]

	key, _, err := DeriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(blockCipher)
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, ErrDecryptionFailed
	}
	nonce, text := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, text, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, ErrDecryptionFailed
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrDecryptionFailed
		}
	}
	return data[:len(data)-padding], nil
}
