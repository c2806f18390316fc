package chainwallet

import (
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/wire"
	"github.com/hivewallet/hive-core/internal/core/ports"
	"github.com/hivewallet/hive-core/pkg/txgraph"
	"github.com/hivewallet/hive-core/pkg/wallet"
)

// Wallet is the in-memory view of the account built by the syncs of a
// factory. Every method is safe for concurrent use.
type Wallet struct {
	lock *sync.RWMutex

	network      *wallet.Network
	accounts     *wallet.Accounts
	denomination wallet.Denomination

	// derived addresses per chain, in index order.
	addresses    map[uint32][]string
	addressIndex map[string]struct{}
	// index of the first never used address per chain.
	nextIndex map[uint32]uint32

	graph    *txgraph.Graph
	metadata map[string]ports.TxMetadata
	history  []*wire.MsgTx
	utxos    []ports.Utxo
	balance  int64
}

func newWallet(accounts *wallet.Accounts, net *wallet.Network) *Wallet {
	return &Wallet{
		lock:         &sync.RWMutex{},
		network:      net,
		accounts:     accounts,
		denomination: net.DefaultDenomination(),
		addresses:    make(map[uint32][]string),
		addressIndex: make(map[string]struct{}),
		nextIndex:    make(map[uint32]uint32),
		graph:        txgraph.New(),
		metadata:     make(map[string]ports.TxMetadata),
	}
}

func (w *Wallet) Network() *wallet.Network {
	return w.network
}

func (w *Wallet) Accounts() *wallet.Accounts {
	return w.accounts
}

func (w *Wallet) Denomination() wallet.Denomination {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return w.denomination
}

func (w *Wallet) SetDenomination(label string) error {
	denomination, err := w.network.Denomination(label)
	if err != nil {
		return err
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	w.denomination = denomination
	return nil
}

func (w *Wallet) TxGraph() *txgraph.Graph {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return w.graph
}

func (w *Wallet) TxMetadata(txid string) (ports.TxMetadata, bool) {
	w.lock.RLock()
	defer w.lock.RUnlock()
	m, ok := w.metadata[txid]
	return m, ok
}

func (w *Wallet) TransactionHistory() []*wire.MsgTx {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return append([]*wire.MsgTx{}, w.history...)
}

func (w *Wallet) Unspents() []ports.Utxo {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return append([]ports.Utxo{}, w.utxos...)
}

func (w *Wallet) Balance() int64 {
	w.lock.RLock()
	defer w.lock.RUnlock()
	return w.balance
}

// Addresses returns the addresses of both chains up to the last used one.
func (w *Wallet) Addresses() []string {
	w.lock.RLock()
	defer w.lock.RUnlock()

	addresses := make([]string, 0)
	for _, chain := range []uint32{wallet.ExternalChain, wallet.InternalChain} {
		used := w.addresses[chain][:w.nextIndex[chain]]
		addresses = append(addresses, used...)
	}
	return addresses
}

// NextAddress returns the first never used receiving address.
func (w *Wallet) NextAddress() string {
	return w.nextAddress(wallet.ExternalChain)
}

// NextChangeAddress returns the first never used change address.
func (w *Wallet) NextChangeAddress() string {
	return w.nextAddress(wallet.InternalChain)
}

func (w *Wallet) nextAddress(chain uint32) string {
	w.lock.Lock()
	defer w.lock.Unlock()

	index := w.nextIndex[chain]
	if err := w.deriveUpTo(chain, index); err != nil {
		return ""
	}
	return w.addresses[chain][index]
}

// deriveUpTo makes sure the addresses of the chain are derived up to the
// given index included. The caller must hold the write lock.
func (w *Wallet) deriveUpTo(chain, index uint32) error {
	for i := uint32(len(w.addresses[chain])); i <= index; i++ {
		addr, err := w.accounts.AddressAtPath(
			fmt.Sprintf("%d/%d", chain, i), w.network.Params,
		)
		if err != nil {
			return err
		}
		w.addresses[chain] = append(w.addresses[chain], addr)
		w.addressIndex[addr] = struct{}{}
	}
	return nil
}
