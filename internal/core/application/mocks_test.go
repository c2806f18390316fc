package application_test

import (
	"context"
	"sync"

	"github.com/btcsuite/btcd/wire"
	"github.com/hivewallet/hive-core/internal/core/ports"
	"github.com/hivewallet/hive-core/pkg/txgraph"
	"github.com/hivewallet/hive-core/pkg/wallet"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(
	ctx context.Context, walletID, pin string,
) (string, error) {
	args := m.Called(ctx, walletID, pin)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) Login(
	ctx context.Context, walletID, pin string,
) (string, error) {
	args := m.Called(ctx, walletID, pin)
	return args.String(0), args.Error(1)
}

func (m *mockAuthService) ResetPin(ctx context.Context, walletID string) error {
	args := m.Called(ctx, walletID)
	return args.Error(0)
}

func (m *mockAuthService) DisablePin(
	ctx context.Context, walletID, pin string,
) error {
	args := m.Called(ctx, walletID, pin)
	return args.Error(0)
}

func (m *mockAuthService) Exist(
	ctx context.Context, walletID string,
) (bool, error) {
	args := m.Called(ctx, walletID)
	return args.Bool(0), args.Error(1)
}

type mockWalletFactory struct {
	mock.Mock
}

func (m *mockWalletFactory) NewWallet(
	ctx context.Context, accounts *wallet.Accounts, net *wallet.Network,
) (ports.NetworkWallet, *ports.WalletSync) {
	args := m.Called(ctx, accounts, net)
	return args.Get(0).(ports.NetworkWallet), args.Get(1).(*ports.WalletSync)
}

func (m *mockWalletFactory) Sync(
	ctx context.Context, w ports.NetworkWallet,
) *ports.WalletSync {
	args := m.Called(ctx, w)
	return args.Get(0).(*ports.WalletSync)
}

// newWalletSync returns a completed sync with the given errors.
func newWalletSync(historyErr, unspentsErr, balanceErr error) *ports.WalletSync {
	done := func(err error) <-chan error {
		ch := make(chan error, 1)
		ch <- err
		close(ch)
		return ch
	}
	return &ports.WalletSync{
		HistoryDone:  done(historyErr),
		UnspentsDone: done(unspentsErr),
		BalanceDone:  done(balanceErr),
	}
}

// fakeWallet is a network wallet with a fixed state.
type fakeWallet struct {
	lock     sync.Mutex
	network  *wallet.Network
	graph    *txgraph.Graph
	metadata map[string]ports.TxMetadata
	history  []*wire.MsgTx
	utxos    []ports.Utxo
	balance  int64
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		network:  wallet.Regtest,
		graph:    txgraph.New(),
		metadata: make(map[string]ports.TxMetadata),
	}
}

func (w *fakeWallet) Network() *wallet.Network           { return w.network }
func (w *fakeWallet) Accounts() *wallet.Accounts         { return nil }
func (w *fakeWallet) SetDenomination(label string) error { return nil }
func (w *fakeWallet) TxGraph() *txgraph.Graph            { return w.graph }
func (w *fakeWallet) TransactionHistory() []*wire.MsgTx  { return w.history }
func (w *fakeWallet) Unspents() []ports.Utxo             { return w.utxos }
func (w *fakeWallet) Addresses() []string                { return nil }
func (w *fakeWallet) NextAddress() string                { return "" }
func (w *fakeWallet) NextChangeAddress() string          { return "" }
func (w *fakeWallet) Denomination() wallet.Denomination  { return w.network.DefaultDenomination() }
func (w *fakeWallet) Balance() int64                     { return w.balance }

func (w *fakeWallet) TxMetadata(txid string) (ports.TxMetadata, bool) {
	w.lock.Lock()
	defer w.lock.Unlock()
	m, ok := w.metadata[txid]
	return m, ok
}

// addTx adds the given tx to the graph and, if metadata is not nil, to the
// wallet history.
func (w *fakeWallet) addTx(tx *wire.MsgTx, metadata *ports.TxMetadata) {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.graph.AddTx(tx)
	if metadata != nil {
		w.metadata[tx.TxHash().String()] = *metadata
		w.history = append(w.history, tx)
	}
}

type fakeUtxo struct {
	txid  string
	value int64
}

func (u fakeUtxo) GetTxid() string    { return u.txid }
func (u fakeUtxo) GetIndex() uint32   { return 0 }
func (u fakeUtxo) GetValue() int64    { return u.value }
func (u fakeUtxo) GetAddress() string { return "" }
func (u fakeUtxo) IsConfirmed() bool  { return true }
