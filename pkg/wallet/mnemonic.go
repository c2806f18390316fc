package wallet

import (
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// NewSeedOpts is the struct given to the NewSeed method. Exactly one between
// Entropy and Passphrase must be defined, the latter being a mnemonic.
type NewSeedOpts struct {
	Entropy    []byte
	Passphrase string
}

func (o NewSeedOpts) validate() error {
	if len(o.Entropy) <= 0 && len(strings.TrimSpace(o.Passphrase)) <= 0 {
		return ErrNullEntropy
	}
	if len(o.Passphrase) > 0 {
		if !IsMnemonicValid(o.Passphrase) {
			return ErrInvalidMnemonic
		}
		return nil
	}
	size := len(o.Entropy) * 8
	if size < 128 || size > 256 || size%32 != 0 {
		return ErrInvalidEntropySize
	}
	return nil
}

// NewSeed returns the bip39 seed and the relative mnemonic either for the
// given entropy or for the given mnemonic passphrase.
func NewSeed(opts NewSeedOpts) ([]byte, string, error) {
	if err := opts.validate(); err != nil {
		return nil, "", err
	}

	mnemonic := normalizeMnemonic(opts.Passphrase)
	if len(mnemonic) <= 0 {
		m, err := bip39.NewMnemonic(opts.Entropy)
		if err != nil {
			return nil, "", err
		}
		mnemonic = m
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, "", ErrInvalidMnemonic
	}
	return seed, mnemonic, nil
}

// IsMnemonicValid returns whether the given mnemonic is a valid bip39 one.
func IsMnemonicValid(mnemonic string) bool {
	return bip39.IsMnemonicValid(normalizeMnemonic(mnemonic))
}

func normalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}
