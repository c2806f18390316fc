package ports

import (
	"context"

	"github.com/btcsuite/btcd/wire"
	"github.com/hivewallet/hive-core/pkg/txgraph"
	"github.com/hivewallet/hive-core/pkg/wallet"
)

// NetworkWallet is the in-memory wallet built from the derived accounts. It
// exposes the transaction graph and per-tx metadata discovered by a sync,
// along with unspents and balance.
type NetworkWallet interface {
	Network() *wallet.Network
	Accounts() *wallet.Accounts
	Denomination() wallet.Denomination
	SetDenomination(label string) error
	TxGraph() *txgraph.Graph
	// TxMetadata returns the metadata of the tx with the given id, false if
	// the tx was not discovered by the last sync.
	TxMetadata(txid string) (TxMetadata, bool)
	// TransactionHistory returns the wallet txs, newest first.
	TransactionHistory() []*wire.MsgTx
	Unspents() []Utxo
	Balance() int64
	Addresses() []string
	NextAddress() string
	NextChangeAddress() string
}

// NetworkWalletFactory creates a network wallet and starts its first sync.
type NetworkWalletFactory interface {
	NewWallet(
		ctx context.Context, accounts *wallet.Accounts, net *wallet.Network,
	) (NetworkWallet, *WalletSync)
	// Sync refreshes an existing wallet.
	Sync(ctx context.Context, w NetworkWallet) *WalletSync
}

// WalletSync groups the three independent completions of a sync. Each
// channel receives exactly one value, nil on success, and is then closed.
type WalletSync struct {
	HistoryDone  <-chan error
	UnspentsDone <-chan error
	BalanceDone  <-chan error
}

// TxMetadata holds the info about a wallet tx computed during a sync. Value
// is the net amount for the wallet. A nil Timestamp means the tx is not
// confirmed yet.
type TxMetadata struct {
	Value         int64
	Timestamp     *int64
	Confirmations int
	Fee           int64
}

// Utxo is an unspent output owned by the wallet.
type Utxo interface {
	GetTxid() string
	GetIndex() uint32
	GetValue() int64
	GetAddress() string
	IsConfirmed() bool
}
