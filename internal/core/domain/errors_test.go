package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hivewallet/hive-core/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestAuthError(t *testing.T) {
	err := fmt.Errorf("login: %w", &domain.AuthError{Code: domain.AuthCodeUserDeleted})
	require.ErrorIs(t, err, domain.ErrUserDeleted)
	require.False(t, errors.Is(err, domain.ErrInvalidPin))

	unknown := &domain.AuthError{Code: "rate_limited"}
	require.Equal(t, "rate_limited", unknown.Error())
}

func TestWrappingErrors(t *testing.T) {
	cause := errors.New("disk full")

	storageErr := &domain.StorageError{Op: "persist", Err: cause}
	require.ErrorIs(t, storageErr, cause)
	require.Contains(t, storageErr.Error(), "persist")

	netErr := &domain.NetworkError{Op: "login", Err: cause}
	require.ErrorIs(t, netErr, cause)

	cryptoErr := &domain.CryptoError{Err: cause}
	require.ErrorIs(t, cryptoErr, cause)

	validationErr := domain.NewValidationError("pin must be %d digits", 4)
	require.Equal(t, "pin must be 4 digits", validationErr.Error())

	lookupErr := &domain.GraphLookupError{TxID: "aa", PrevTxID: "bb", Index: 1}
	require.Contains(t, lookupErr.Error(), "bb:1")
}
