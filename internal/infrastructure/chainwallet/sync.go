package chainwallet

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/hivewallet/hive-core/internal/core/ports"
	"github.com/hivewallet/hive-core/pkg/explorer"
	"github.com/hivewallet/hive-core/pkg/explorer/esplora"
	"github.com/hivewallet/hive-core/pkg/txgraph"
	"github.com/hivewallet/hive-core/pkg/wallet"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// historySnapshot is the result of a history sync, applied to the wallet
// all at once.
type historySnapshot struct {
	graph     *txgraph.Graph
	metadata  map[string]ports.TxMetadata
	txs       []*wire.MsgTx
	nextIndex map[uint32]uint32
}

func (f *factory) fetchHistory(
	ctx context.Context, w *Wallet,
) (*historySnapshot, error) {
	nextIndex := make(map[uint32]uint32)
	txsByID := make(map[string]explorer.Transaction)
	for _, chain := range []uint32{wallet.ExternalChain, wallet.InternalChain} {
		txs, next, err := f.discoverChain(ctx, w, chain)
		if err != nil {
			return nil, err
		}
		nextIndex[chain] = next
		for _, tx := range txs {
			txsByID[tx.Hash()] = tx
		}
	}

	tip, err := f.explorer.GetBlockHeight(ctx)
	if err != nil {
		return nil, err
	}

	txs := sortTransactions(txsByID)
	graph := txgraph.New()
	for _, tx := range txs {
		if _, err := graph.AddTx(tx.MsgTx()); err != nil {
			return nil, err
		}
	}
	if err := f.fetchPrevTxs(ctx, graph); err != nil {
		return nil, err
	}

	mine := w.addressSet()
	metadata := make(map[string]ports.TxMetadata, len(txs))
	history := make([]*wire.MsgTx, 0, len(txs))
	for _, tx := range txs {
		metadata[tx.Hash()] = computeMetadata(
			tx, graph, mine, tip, w.network.Params,
		)
		history = append(history, tx.MsgTx())
	}

	return &historySnapshot{graph, metadata, history, nextIndex}, nil
}

// discoverChain scans the addresses of the chain in batches of gap limit
// size until gap limit consecutive addresses have no history. It returns
// the txs found and the index of the first unused address.
func (f *factory) discoverChain(
	ctx context.Context, w *Wallet, chain uint32,
) ([]explorer.Transaction, uint32, error) {
	var next uint32
	txs := make([]explorer.Transaction, 0)

	for start := uint32(0); ; start += f.gapLimit {
		end := start + f.gapLimit
		addresses, err := w.deriveRange(chain, start, end)
		if err != nil {
			return nil, 0, err
		}

		results := make([][]explorer.Transaction, len(addresses))
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(maxConcurrentRequests)
		for i := range addresses {
			i := i
			eg.Go(func() error {
				res, err := f.explorer.GetTransactionsForAddress(
					egCtx, addresses[i],
				)
				if err != nil {
					return fmt.Errorf("address %s: %w", addresses[i], err)
				}
				results[i] = res
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, 0, err
		}

		for i, res := range results {
			if len(res) > 0 {
				next = start + uint32(i) + 1
				txs = append(txs, res...)
			}
		}
		if end-next >= f.gapLimit {
			return txs, next, nil
		}
	}
}

// fetchPrevTxs adds to the graph the txs referenced by the inputs of the
// wallet txs. Txs unknown to the explorer are left as placeholders.
func (f *factory) fetchPrevTxs(ctx context.Context, graph *txgraph.Graph) error {
	ids := graph.Placeholders()
	prevTxs := make([]*wire.MsgTx, len(ids))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentRequests)
	for i := range ids {
		i := i
		eg.Go(func() error {
			txHex, err := f.explorer.GetTransactionHex(egCtx, ids[i])
			if err != nil {
				if errors.Is(err, explorer.ErrNotFound) {
					log.Warnf("chainwallet: previous tx %s not found", ids[i])
					return nil
				}
				return fmt.Errorf("previous tx %s: %w", ids[i], err)
			}
			tx, err := esplora.DeserializeTx(txHex)
			if err != nil {
				return fmt.Errorf("previous tx %s: %w", ids[i], err)
			}
			prevTxs[i] = tx
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, tx := range prevTxs {
		if tx == nil {
			continue
		}
		if _, err := graph.AddTx(tx); err != nil {
			return err
		}
	}
	return nil
}

// fetchUnspents returns the utxos of the used addresses of the wallet,
// sorted by outpoint.
func (f *factory) fetchUnspents(
	ctx context.Context, w *Wallet,
) ([]ports.Utxo, error) {
	res, err := f.explorer.GetUnspentsForAddresses(ctx, w.Addresses())
	if err != nil {
		return nil, err
	}

	utxos := make([]ports.Utxo, 0, len(res))
	for _, u := range res {
		utxos = append(utxos, utxo{
			txid:      u.Hash(),
			index:     u.Index(),
			value:     u.Value(),
			address:   u.Address(),
			confirmed: u.IsConfirmed(),
		})
	}
	sort.SliceStable(utxos, func(i, j int) bool {
		if utxos[i].GetTxid() == utxos[j].GetTxid() {
			return utxos[i].GetIndex() < utxos[j].GetIndex()
		}
		return utxos[i].GetTxid() < utxos[j].GetTxid()
	})
	return utxos, nil
}

// computeMetadata returns the net value of the tx for the wallet, ie. the
// amount received by wallet addresses minus the amount spent from them.
// Inputs whose previous tx is unknown are not accounted.
func computeMetadata(
	tx explorer.Transaction, graph *txgraph.Graph, mine map[string]struct{},
	tip int, params *chaincfg.Params,
) ports.TxMetadata {
	msgTx := tx.MsgTx()

	var value int64
	for _, out := range msgTx.TxOut {
		if isMine(out, mine, params) {
			value += out.Value
		}
	}
	for _, in := range msgTx.TxIn {
		prev, err := graph.FindNodeByID(txgraph.PrevTxID(in))
		if err != nil || prev.IsPlaceholder() {
			continue
		}
		index := in.PreviousOutPoint.Index
		if int(index) >= len(prev.Tx.TxOut) {
			continue
		}
		if out := prev.Tx.TxOut[index]; isMine(out, mine, params) {
			value -= out.Value
		}
	}

	metadata := ports.TxMetadata{
		Value: value,
		Fee:   tx.Fee(),
	}
	if tx.Confirmed() {
		blockTime := tx.BlockTime()
		metadata.Timestamp = &blockTime
		metadata.Confirmations = tip - tx.BlockHeight() + 1
	}
	return metadata
}

func isMine(
	out *wire.TxOut, mine map[string]struct{}, params *chaincfg.Params,
) bool {
	addr, err := wallet.AddressFromScript(out.PkScript, params)
	if err != nil || len(addr) <= 0 {
		return false
	}
	_, ok := mine[addr]
	return ok
}

// sortTransactions returns the given txs newest first: unconfirmed ones
// before confirmed ones, these by descending block height.
func sortTransactions(
	txsByID map[string]explorer.Transaction,
) []explorer.Transaction {
	txs := make([]explorer.Transaction, 0, len(txsByID))
	for _, tx := range txsByID {
		txs = append(txs, tx)
	}
	sort.SliceStable(txs, func(i, j int) bool {
		ci, cj := txs[i].Confirmed(), txs[j].Confirmed()
		if ci != cj {
			return !ci
		}
		if ci && txs[i].BlockHeight() != txs[j].BlockHeight() {
			return txs[i].BlockHeight() > txs[j].BlockHeight()
		}
		return txs[i].Hash() < txs[j].Hash()
	})
	return txs
}

func (w *Wallet) deriveRange(chain, start, end uint32) ([]string, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if err := w.deriveUpTo(chain, end-1); err != nil {
		return nil, err
	}
	return append([]string{}, w.addresses[chain][start:end]...), nil
}

func (w *Wallet) addressSet() map[string]struct{} {
	w.lock.RLock()
	defer w.lock.RUnlock()

	set := make(map[string]struct{}, len(w.addressIndex))
	for addr := range w.addressIndex {
		set[addr] = struct{}{}
	}
	return set
}

func (w *Wallet) applyHistory(snapshot *historySnapshot) {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.graph = snapshot.graph
	w.metadata = snapshot.metadata
	w.history = snapshot.txs
	for chain, next := range snapshot.nextIndex {
		w.nextIndex[chain] = next
	}
}

func (w *Wallet) applyUnspents(utxos []ports.Utxo) {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.utxos = utxos
}

func (w *Wallet) applyBalance() {
	w.lock.Lock()
	defer w.lock.Unlock()

	var balance int64
	for _, u := range w.utxos {
		balance += u.GetValue()
	}
	w.balance = balance
}
