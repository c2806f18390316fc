package application

import (
	"errors"

	"github.com/hivewallet/hive-core/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var (
	authRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hive",
			Name:      "auth_requests_total",
			Help:      "Requests to the auth service by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)
	walletSyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hive",
			Name:      "wallet_syncs_total",
			Help:      "Wallet syncs by outcome.",
		},
		[]string{"outcome"},
	)
	reconstructionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hive",
			Name:      "tx_reconstruction_failures_total",
			Help:      "Wallet transactions that could not be reconstructed.",
		},
	)
)

func init() {
	prometheus.MustRegister(authRequests, walletSyncs, reconstructionFailures)
}

// authOutcome labels an auth response with the code of the AuthError, if
// any, so that invalid pins and deleted users can be told apart.
func authOutcome(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	authErr := &domain.AuthError{}
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return outcomeFailure
}

func observeAuth(op string, err error) {
	authRequests.WithLabelValues(op, authOutcome(err)).Inc()
}

func observeSync(err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}
	walletSyncs.WithLabelValues(outcome).Inc()
}
