package application

import (
	"context"

	"github.com/hivewallet/hive-core/internal/core/domain"
	"github.com/hivewallet/hive-core/internal/core/ports"
)

// HistoryReply is the completion of the history of a sync. Transactions are
// the reconstructed wallet txs, newest first; Failures maps the ids of the
// txs that could not be reconstructed to the reason.
type HistoryReply struct {
	Transactions []domain.TransactionRecord
	Failures     map[string]error
	Err          error
}

// UnspentsReply is the completion of the unspents of a sync.
type UnspentsReply struct {
	Unspents []ports.Utxo
	Err      error
}

// BalanceReply is the completion of the balance of a sync.
type BalanceReply struct {
	Balance int64
	Err     error
}

// SyncReplies groups the three independent completions of the operations
// that open or refresh the wallet. Each channel receives exactly one reply
// and is then closed. They can be abandoned without leaking.
type SyncReplies struct {
	History  <-chan HistoryReply
	Unspents <-chan UnspentsReply
	Balance  <-chan BalanceReply
}

// Wait blocks until all completions are received or the context is done.
// The returned error is the first error among the replies.
func (r *SyncReplies) Wait(
	ctx context.Context,
) (*HistoryReply, *UnspentsReply, *BalanceReply, error) {
	var (
		history  HistoryReply
		unspents UnspentsReply
		balance  BalanceReply
	)

	select {
	case history = <-r.History:
	case <-ctx.Done():
		return nil, nil, nil, ctx.Err()
	}
	select {
	case unspents = <-r.Unspents:
	case <-ctx.Done():
		return nil, nil, nil, ctx.Err()
	}
	select {
	case balance = <-r.Balance:
	case <-ctx.Done():
		return nil, nil, nil, ctx.Err()
	}

	err := history.Err
	if err == nil {
		err = unspents.Err
	}
	if err == nil {
		err = balance.Err
	}
	return &history, &unspents, &balance, err
}

type syncSinks struct {
	history  chan HistoryReply
	unspents chan UnspentsReply
	balance  chan BalanceReply
}

func newSyncReplies() (*SyncReplies, *syncSinks) {
	sinks := &syncSinks{
		history:  make(chan HistoryReply, 1),
		unspents: make(chan UnspentsReply, 1),
		balance:  make(chan BalanceReply, 1),
	}
	return &SyncReplies{sinks.history, sinks.unspents, sinks.balance}, sinks
}

// failAll sends the same error to all the completions.
func (s *syncSinks) failAll(err error) {
	s.replyHistory(HistoryReply{Err: err})
	s.replyUnspents(UnspentsReply{Err: err})
	s.replyBalance(BalanceReply{Err: err})
}

func (s *syncSinks) replyHistory(reply HistoryReply) {
	s.history <- reply
	close(s.history)
}

func (s *syncSinks) replyUnspents(reply UnspentsReply) {
	s.unspents <- reply
	close(s.unspents)
}

func (s *syncSinks) replyBalance(reply BalanceReply) {
	s.balance <- reply
	close(s.balance)
}
