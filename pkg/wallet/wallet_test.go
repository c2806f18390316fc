package wallet

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestNewSeedFromEntropy(t *testing.T) {
	seed, mnemonic, err := NewSeed(NewSeedOpts{Entropy: make([]byte, 16)})
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, mnemonic)
	assert.Equal(t, testSeedHex, hex.EncodeToString(seed))
}

func TestNewSeedFromPassphrase(t *testing.T) {
	tests := []string{
		testMnemonic,
		"  ABANDON abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about\n",
	}
	for _, tt := range tests {
		seed, mnemonic, err := NewSeed(NewSeedOpts{Passphrase: tt})
		require.NoError(t, err)
		assert.Equal(t, testMnemonic, mnemonic)
		assert.Equal(t, testSeedHex, hex.EncodeToString(seed))
	}
}

func TestFailingNewSeed(t *testing.T) {
	tests := []struct {
		opts NewSeedOpts
		err  error
	}{
		{
			opts: NewSeedOpts{},
			err:  ErrNullEntropy,
		},
		{
			opts: NewSeedOpts{Passphrase: "   "},
			err:  ErrNullEntropy,
		},
		{
			opts: NewSeedOpts{Entropy: make([]byte, 15)},
			err:  ErrInvalidEntropySize,
		},
		{
			opts: NewSeedOpts{Entropy: make([]byte, 33)},
			err:  ErrInvalidEntropySize,
		},
		{
			opts: NewSeedOpts{Passphrase: "legal winner thank year wave sausage worth useful legal winner thank yellow yellow"},
			err:  ErrInvalidMnemonic,
		},
		{
			opts: NewSeedOpts{Passphrase: "not a mnemonic at all"},
			err:  ErrInvalidMnemonic,
		},
	}
	for _, tt := range tests {
		_, _, err := NewSeed(tt.opts)
		assert.Equal(t, tt.err, err)
	}
}

func TestWalletID(t *testing.T) {
	seed, err := hex.DecodeString(testSeedHex)
	require.NoError(t, err)

	id := WalletID(seed)
	require.Len(t, id, 64)
	require.Equal(t, id, WalletID(seed))

	otherSeed, _, err := NewSeed(NewSeedOpts{Entropy: []byte{
		1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	}})
	require.NoError(t, err)
	require.NotEqual(t, id, WalletID(otherSeed))
}
