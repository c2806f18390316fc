package domain

import (
	"encoding/hex"
	"errors"

	"github.com/hivewallet/hive-core/pkg/wallet"
)

// Credentials is the only record persisted locally: the id of the wallet and
// its seed encrypted with the session token issued by the auth service.
type Credentials struct {
	WalletID      string
	EncryptedSeed string
}

// NewCredentials encrypts the given seed with the session token and returns
// the credential record for the wallet owning it.
func NewCredentials(seed []byte, token string) (*Credentials, error) {
	if len(seed) <= 0 {
		return nil, ErrMissingSeed
	}
	if len(token) <= 0 {
		return nil, ErrMissingToken
	}

	encryptedSeed, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  hex.EncodeToString(seed),
		Passphrase: token,
	})
	if err != nil {
		return nil, &CryptoError{err}
	}

	return &Credentials{
		WalletID:      wallet.WalletID(seed),
		EncryptedSeed: encryptedSeed,
	}, nil
}

// DecryptSeed returns the plain seed by decrypting it with the given session
// token. A wrong token never yields a seed.
func (c *Credentials) DecryptSeed(token string) ([]byte, error) {
	if len(token) <= 0 {
		return nil, ErrMissingToken
	}

	seedHex, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: c.EncryptedSeed,
		Passphrase: token,
	})
	if err != nil {
		return nil, &CryptoError{err}
	}

	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, &CryptoError{err}
	}
	if wallet.WalletID(seed) != c.WalletID {
		return nil, &CryptoError{errors.New("decrypted seed does not match wallet id")}
	}
	return seed, nil
}

// IsZero returns whether the record is empty.
func (c *Credentials) IsZero() bool {
	return c == nil || (len(c.WalletID) <= 0 && len(c.EncryptedSeed) <= 0)
}

// Validate ...
func (c *Credentials) Validate() error {
	if len(c.WalletID) <= 0 {
		return ErrNullWalletID
	}
	if len(c.EncryptedSeed) <= 0 {
		return ErrNullEncryptedSeed
	}
	return nil
}
