package wallet

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/scrypt"
)

const (
	cypherVersion = byte(1)
	saltLen       = 32
	keyCheckLen   = 8
	nonceLen      = 12
	keyLen        = 32

	// scrypt cost params for server issued tokens.
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var keyCheckTag = []byte("hive-key-check")

// EncryptOpts is the struct given to Encrypt method
type EncryptOpts struct {
	PlainText  string
	Passphrase string
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return nil
}

// Encrypt encrypts (with AES-256-GCM) a plaintext with a key derived from the
// provided passphrase. The result is the base64 encoding of
// version|salt|keyCheck|nonce|ciphertext.
func Encrypt(opts EncryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	key, salt, err := DeriveKey([]byte(opts.Passphrase), nil)
	if err != nil {
		return "", err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return "", err
	}

	buf := make([]byte, 0, 1+saltLen+keyCheckLen+nonceLen+len(opts.PlainText)+gcm.Overhead())
	buf = append(buf, cypherVersion)
	buf = append(buf, salt...)
	buf = append(buf, keyCheck(key)...)
	buf = append(buf, nonce...)
	buf = gcm.Seal(buf, nonce, []byte(opts.PlainText), nil)

	return base64.StdEncoding.EncodeToString(buf), nil
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
	if _, err := base64.StdEncoding.DecodeString(o.CypherText); err != nil {
		return ErrInvalidCypherText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return nil
}

// Decrypt decrypts a cyphertext produced by Encrypt with the provided
// passphrase. A wrong passphrase results in ErrInvalidToken, while a tampered
// payload results in ErrCorruptedPayload.
func Decrypt(opts DecryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	data, _ := base64.StdEncoding.DecodeString(opts.CypherText)
	minLen := 1 + saltLen + keyCheckLen + nonceLen
	if len(data) <= minLen || data[0] != cypherVersion {
		return "", ErrMalformedCypher
	}

	data = data[1:]
	salt, data := data[:saltLen], data[saltLen:]
	check, data := data[:keyCheckLen], data[keyCheckLen:]
	nonce, text := data[:nonceLen], data[nonceLen:]

	key, _, err := DeriveKey([]byte(opts.Passphrase), salt)
	if err != nil {
		return "", err
	}
	if !bytes.Equal(check, keyCheck(key)) {
		return "", ErrInvalidToken
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	plaintext, err := gcm.Open(nil, nonce, text, nil)
	if err != nil {
		return "", ErrCorruptedPayload
	}
	return string(plaintext), nil
}

// DeriveKey derives a 32 byte array key from a custom passhprase. A random
// salt is generated if not provided.
func DeriveKey(passphrase, salt []byte) ([]byte, []byte, error) {
	if salt == nil {
		salt = make([]byte, saltLen)
		if _, err := rand.Read(salt); err != nil {
			return nil, nil, err
		}
	}
	key, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, nil, err
	}
	return key, salt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(blockCipher)
}

func keyCheck(key []byte) []byte {
	h := sha256.New()
	h.Write(keyCheckTag)
	h.Write(key)
	return h.Sum(nil)[:keyCheckLen]
}
