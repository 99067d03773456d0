package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testEntropy  = "00000000000000000000000000000000"
	testSeed     = "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"
)

func TestNewMnemonic(t *testing.T) {
	tests := []struct {
		entropySize int
		numOfWords  int
		err         error
	}{
		{0, 12, nil},
		{128, 12, nil},
		{192, 18, nil},
		{256, 24, nil},
		{100, 0, ErrInvalidEntropySize},
		{-1, 0, ErrInvalidEntropySize},
		{512, 0, ErrInvalidEntropySize},
	}
	for _, tt := range tests {
		mnemonic, err := NewMnemonic(NewMnemonicOpts{EntropySize: tt.entropySize})
		assert.Equal(t, tt.err, err)
		if err == nil {
			assert.Len(t, strings.Fields(mnemonic), tt.numOfWords)
			assert.True(t, IsMnemonicValid(mnemonic))
		}
	}
}

func TestMnemonicConversions(t *testing.T) {
	entropy, err := MnemonicToEntropy(testMnemonic)
	require.NoError(t, err)
	require.Equal(t, testEntropy, entropy)

	mnemonic, err := EntropyToMnemonic(entropy)
	require.NoError(t, err)
	require.Equal(t, testMnemonic, mnemonic)

	seed, err := MnemonicToSeed(testMnemonic, "")
	require.NoError(t, err)
	require.Equal(t, testSeed, seed)

	// extra whitespace is not significant
	seed, err = MnemonicToSeed("  "+strings.ReplaceAll(testMnemonic, " ", "   ")+"\n", "")
	require.NoError(t, err)
	require.Equal(t, testSeed, seed)
}

func TestFailingMnemonicConversions(t *testing.T) {
	invalid := strings.Replace(testMnemonic, "about", "abandon", 1)

	tests := []struct {
		mnemonic string
		err      error
	}{
		{"", ErrNullMnemonic},
		{invalid, ErrInvalidMnemonic},
		{"not a bip39 phrase", ErrInvalidMnemonic},
	}
	for _, tt := range tests {
		_, err := MnemonicToEntropy(tt.mnemonic)
		assert.Equal(t, tt.err, err)
		_, err = MnemonicToSeed(tt.mnemonic, "")
		assert.Equal(t, tt.err, err)
		assert.False(t, IsMnemonicValid(tt.mnemonic))
	}
}
