package application

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/hivewallet/hive-core/internal/core/domain"
	"github.com/hivewallet/hive-core/internal/core/ports"
	"github.com/hivewallet/hive-core/pkg/txgraph"
	"github.com/hivewallet/hive-core/pkg/wallet"
)

// ReconstructTransaction returns the record of the given wallet tx, with the
// inputs resolved against the previous outputs found in the wallet's tx
// graph. Null inputs, like the one of a coinbase tx, are left out. The
// timestamp of unconfirmed txs is now.
func ReconstructTransaction(
	w ports.NetworkWallet, tx *wire.MsgTx, now time.Time,
) (*domain.TransactionRecord, error) {
	if tx == nil {
		return nil, txgraph.ErrNullTx
	}

	txid := tx.TxHash().String()
	metadata, ok := w.TxMetadata(txid)
	if !ok {
		return nil, fmt.Errorf("%w %s", domain.ErrMissingMetadata, txid)
	}

	timestamp := now.UnixMilli()
	if metadata.Timestamp != nil {
		timestamp = *metadata.Timestamp * 1000
	}

	node, err := w.TxGraph().FindNodeByID(txid)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, txid)
	}
	prevOutputs := make(map[string][]*wire.TxOut)
	for _, prev := range node.PrevNodes {
		if prev.IsPlaceholder() {
			continue
		}
		prevOutputs[prev.ID] = prev.Tx.TxOut
	}

	params := w.Network().Params
	inputs := make([]domain.TxIO, 0, len(tx.TxIn))
	for _, in := range tx.TxIn {
		if txgraph.IsNullInput(in) {
			continue
		}
		prevID := txgraph.PrevTxID(in)
		index := in.PreviousOutPoint.Index
		outs, ok := prevOutputs[prevID]
		if !ok || int(index) >= len(outs) {
			return nil, &domain.GraphLookupError{
				TxID: txid, PrevTxID: prevID, Index: index,
			}
		}
		inputs = append(inputs, parseOutput(outs[index], params))
	}

	outputs := make([]domain.TxIO, 0, len(tx.TxOut))
	for _, out := range tx.TxOut {
		outputs = append(outputs, parseOutput(out, params))
	}

	return &domain.TransactionRecord{
		ID:            txid,
		Amount:        metadata.Value,
		Timestamp:     timestamp,
		Confirmations: metadata.Confirmations,
		Fee:           metadata.Fee,
		Inputs:        inputs,
		Outputs:       outputs,
	}, nil
}

// reconstructHistory reconstructs every tx of the wallet history. A failure
// is recorded for the tx id and does not stop the others.
func reconstructHistory(
	w ports.NetworkWallet, now time.Time,
) ([]domain.TransactionRecord, map[string]error) {
	history := w.TransactionHistory()
	records := make([]domain.TransactionRecord, 0, len(history))
	failures := make(map[string]error)

	for _, tx := range history {
		record, err := ReconstructTransaction(w, tx, now)
		if err != nil {
			failures[tx.TxHash().String()] = err
			reconstructionFailures.Inc()
			continue
		}
		records = append(records, *record)
	}
	return records, failures
}

func parseOutput(out *wire.TxOut, params *chaincfg.Params) domain.TxIO {
	// Scripts without a standard address are reported with an empty one.
	addr, _ := wallet.AddressFromScript(out.PkScript, params)
	return domain.TxIO{Address: addr, Amount: out.Value}
}
