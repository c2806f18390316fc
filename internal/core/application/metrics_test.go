package application

import (
	"errors"
	"testing"

	"github.com/hivewallet/hive-core/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestAuthOutcome(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, outcomeSuccess},
		{errors.New("boom"), outcomeFailure},
		{domain.ErrInvalidPin, domain.AuthCodeInvalidPin},
		{&domain.AuthError{Code: "unexpected"}, "unexpected"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, authOutcome(tt.err))
	}
}

func TestObserve(t *testing.T) {
	before := testutil.ToFloat64(
		authRequests.WithLabelValues("login", domain.AuthCodeUserDeleted),
	)
	observeAuth("login", domain.ErrUserDeleted)
	after := testutil.ToFloat64(
		authRequests.WithLabelValues("login", domain.AuthCodeUserDeleted),
	)
	require.Equal(t, before+1, after)

	before = testutil.ToFloat64(walletSyncs.WithLabelValues(outcomeFailure))
	observeSync(errors.New("boom"))
	after = testutil.ToFloat64(walletSyncs.WithLabelValues(outcomeFailure))
	require.Equal(t, before+1, after)
}
