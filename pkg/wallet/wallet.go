package wallet

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network params are null")
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed must not be null")
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic must not be null")
	// ErrNullEntropy ...
	ErrNullEntropy = errors.New("entropy must not be null")
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrNullOutputScript ...
	ErrNullOutputScript = errors.New("output script must not be null")
	// ErrNullAccountKey ...
	ErrNullAccountKey = errors.New("account key must not be null")

	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrInvalidSeedSize ...
	ErrInvalidSeedSize = errors.New(
		"seed size must be in the range [16,64] bytes",
	)
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be in base64 format")
	// ErrMalformedCypher is returned when a base64 cypher does not match the
	// expected layout version|salt|check|nonce|ciphertext.
	ErrMalformedCypher = errors.New("cypher is malformed")
	// ErrInvalidToken is returned when decrypting with a token different from
	// the one used for encryption.
	ErrInvalidToken = errors.New("token does not match the one used for encryption")
	// ErrCorruptedPayload is returned when the token matches but the
	// authenticated decryption of the payload fails.
	ErrCorruptedPayload = errors.New("encrypted payload is corrupted")
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrUnknownNetwork ...
	ErrUnknownNetwork = errors.New("unknown network")
	// ErrUnknownDenomination ...
	ErrUnknownDenomination = errors.New("unknown denomination")

	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
)

// WalletID returns the identifier of the wallet owning the given seed.
// The digest is computed over the hex encoding of the seed so that ids are
// compatible with those already registered at the auth service.
func WalletID(seed []byte) string {
	hash := sha256.Sum256([]byte(hex.EncodeToString(seed)))
	return hex.EncodeToString(hash[:])
}
