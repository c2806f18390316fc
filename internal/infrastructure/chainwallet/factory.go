package chainwallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/hivewallet/hive-core/internal/core/ports"
	"github.com/hivewallet/hive-core/pkg/explorer"
	"github.com/hivewallet/hive-core/pkg/wallet"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultGapLimit is the number of consecutive unused addresses after
	// which the discovery of a chain stops.
	DefaultGapLimit       = 20
	maxConcurrentRequests = 4
)

var (
	// ErrNullExplorer ...
	ErrNullExplorer = errors.New("explorer service must not be null")
	// ErrUnknownWallet is returned when syncing a network wallet not created
	// by this factory.
	ErrUnknownWallet = errors.New("network wallet not created by this factory")
)

type factory struct {
	explorer explorer.Service
	gapLimit uint32
}

// NewFactory returns a network wallet factory syncing wallets through the
// given explorer. A non positive gap limit is replaced with
// DefaultGapLimit.
func NewFactory(
	explorerSvc explorer.Service, gapLimit int,
) (ports.NetworkWalletFactory, error) {
	if explorerSvc == nil {
		return nil, ErrNullExplorer
	}
	if gapLimit <= 0 {
		gapLimit = DefaultGapLimit
	}
	return &factory{explorerSvc, uint32(gapLimit)}, nil
}

func (f *factory) NewWallet(
	ctx context.Context, accounts *wallet.Accounts, net *wallet.Network,
) (ports.NetworkWallet, *ports.WalletSync) {
	w := newWallet(accounts, net)
	return w, f.Sync(ctx, w)
}

// Sync starts refreshing the given wallet in background. History, unspents
// and balance are completed in this order; if a step fails, the error is
// reported to its completion and to all the following ones.
func (f *factory) Sync(
	ctx context.Context, nw ports.NetworkWallet,
) *ports.WalletSync {
	chHistory := make(chan error, 1)
	chUnspents := make(chan error, 1)
	chBalance := make(chan error, 1)
	walletSync := &ports.WalletSync{
		HistoryDone:  chHistory,
		UnspentsDone: chUnspents,
		BalanceDone:  chBalance,
	}

	w, ok := nw.(*Wallet)
	if !ok {
		failAll(ErrUnknownWallet, chHistory, chUnspents, chBalance)
		return walletSync
	}

	go f.sync(ctx, w, chHistory, chUnspents, chBalance)
	return walletSync
}

func (f *factory) sync(
	ctx context.Context, w *Wallet,
	chHistory, chUnspents, chBalance chan error,
) {
	history, err := f.fetchHistory(ctx, w)
	if err != nil {
		log.WithError(err).Warn("chainwallet: failed to sync history")
		failAll(
			fmt.Errorf("sync history: %w", err), chHistory, chUnspents, chBalance,
		)
		return
	}
	w.applyHistory(history)
	complete(chHistory, nil)
	log.Debugf("chainwallet: synced %d txs", len(history.txs))

	utxos, err := f.fetchUnspents(ctx, w)
	if err != nil {
		log.WithError(err).Warn("chainwallet: failed to sync unspents")
		failAll(fmt.Errorf("sync unspents: %w", err), chUnspents, chBalance)
		return
	}
	w.applyUnspents(utxos)
	complete(chUnspents, nil)

	w.applyBalance()
	complete(chBalance, nil)
}

func complete(ch chan error, err error) {
	ch <- err
	close(ch)
}

func failAll(err error, chs ...chan error) {
	for _, ch := range chs {
		complete(ch, err)
	}
}
