package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredentials is returned when no credential record is stored locally.
	ErrNoCredentials = errors.New("no credentials")
	// ErrNullWalletID ...
	ErrNullWalletID = errors.New("wallet id must not be null")
	// ErrNullEncryptedSeed ...
	ErrNullEncryptedSeed = errors.New("encrypted seed must not be null")
	// ErrMissingSeed is returned when an operation requires a seed assigned to
	// the session, ie. setting the pin before creating a wallet.
	ErrMissingSeed = errors.New("session has no seed, create or open a wallet first")
	// ErrMissingToken ...
	ErrMissingToken = errors.New("session is not authenticated")
	// ErrWalletNotOpen is returned when syncing a session without wallet.
	ErrWalletNotOpen = errors.New("wallet is not open")
	// ErrMissingMetadata is returned when reconstructing a tx the network
	// wallet has no metadata for.
	ErrMissingMetadata = errors.New("missing metadata for transaction")
)

// Codes of the errors reported by the auth service.
const (
	AuthCodeInvalidPin       = "auth_failed"
	AuthCodeAttemptsExceeded = "attempts_exceeded"
	AuthCodeUserDeleted      = "user_deleted"
	AuthCodePinAlreadySet    = "user_exists"
	AuthCodeUnauthorized     = "unauthorized"
)

// Sentinels to match AuthErrors with errors.Is.
var (
	ErrInvalidPin       = &AuthError{Code: AuthCodeInvalidPin}
	ErrAttemptsExceeded = &AuthError{Code: AuthCodeAttemptsExceeded}
	ErrUserDeleted      = &AuthError{Code: AuthCodeUserDeleted}
	ErrPinAlreadySet    = &AuthError{Code: AuthCodePinAlreadySet}
)

// AuthError is an error reported by the auth service. Unknown codes are kept
// verbatim.
type AuthError struct {
	Code string
}

func (e *AuthError) Error() string {
	switch e.Code {
	case AuthCodeInvalidPin:
		return "invalid pin"
	case AuthCodeAttemptsExceeded:
		return "too many failed attempts"
	case AuthCodeUserDeleted:
		return "wallet account was deleted, please restore it from the mnemonic"
	case AuthCodePinAlreadySet:
		return "a pin is already set for this wallet"
	case AuthCodeUnauthorized:
		return "session is not authorized for this wallet"
	default:
		return e.Code
	}
}

func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ValidationError is a local, non fatal error about bad caller input.
// Err is the optional sentinel the error is about.
type ValidationError struct {
	Msg string
	Err error
}

// NewValidationError ...
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StorageError wraps failures of the local credentials storage.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// CryptoError wraps failures while encrypting or decrypting the seed.
type CryptoError struct {
	Err error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("seed vault: %v", e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// GraphLookupError is returned when an input of a tx references an output
// missing from the transaction graph.
type GraphLookupError struct {
	TxID     string
	PrevTxID string
	Index    uint32
}

func (e *GraphLookupError) Error() string {
	return fmt.Sprintf(
		"tx %s: previous output %s:%d not found in graph",
		e.TxID, e.PrevTxID, e.Index,
	)
}

// NetworkError wraps transport failures of remote calls. The underlying error
// is preserved as is.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
