package esplora

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/wire"
	"github.com/hivewallet/hive-core/pkg/explorer"
)

/**** TRANSACTION ****/

// txStatus is the confirmation status of a tx as returned by esplora.
type txStatus struct {
	Confirmed   bool  `json:"confirmed"`
	BlockHeight int   `json:"block_height"`
	BlockTime   int64 `json:"block_time"`
}

// txInfo is the subset of the esplora tx JSON this client makes use of.
type txInfo struct {
	TxID   string   `json:"txid"`
	Fee    int64    `json:"fee"`
	Status txStatus `json:"status"`
}

// tx is the implementation of the explorer's Transaction interface
type tx struct {
	msgTx  *wire.MsgTx
	fee    int64
	status txStatus
}

// NewTxFromHex is the factory for a Transaction given its hex encoding and
// its confirmation details.
func NewTxFromHex(
	txhex string, fee int64, confirmed bool, blockHeight int, blockTime int64,
) (explorer.Transaction, error) {
	msgTx, err := DeserializeTx(txhex)
	if err != nil {
		return nil, err
	}
	return &tx{
		msgTx: msgTx,
		fee:   fee,
		status: txStatus{
			Confirmed:   confirmed,
			BlockHeight: blockHeight,
			BlockTime:   blockTime,
		},
	}, nil
}

// DeserializeTx parses a tx in hex format.
func DeserializeTx(txhex string) (*wire.MsgTx, error) {
	msgTx := wire.NewMsgTx(wire.TxVersion)
	decoder := hex.NewDecoder(strings.NewReader(strings.TrimSpace(txhex)))
	if err := msgTx.Deserialize(decoder); err != nil {
		return nil, fmt.Errorf("invalid tx hex: %w", err)
	}
	return msgTx, nil
}

func (t *tx) Hash() string {
	return t.msgTx.TxHash().String()
}

func (t *tx) MsgTx() *wire.MsgTx {
	return t.msgTx
}

func (t *tx) Fee() int64 {
	return t.fee
}

func (t *tx) Confirmed() bool {
	return t.status.Confirmed
}

func (t *tx) BlockHeight() int {
	if !t.status.Confirmed {
		return -1
	}
	return t.status.BlockHeight
}

func (t *tx) BlockTime() int64 {
	if !t.status.Confirmed {
		return 0
	}
	return t.status.BlockTime
}

/**** UTXO ****/

// utxo is the implementation of the explorer's Utxo interface
type utxo struct {
	TxID   string   `json:"txid"`
	Vout   uint32   `json:"vout"`
	Amount int64    `json:"value"`
	Status txStatus `json:"status"`

	address string
}

func (u utxo) Hash() string {
	return u.TxID
}

func (u utxo) Address() string {
	return u.address
}

func (u utxo) Index() uint32 {
	return u.Vout
}

func (u utxo) Value() int64 {
	return u.Amount
}

func (u utxo) IsConfirmed() bool {
	return u.Status.Confirmed
}

func (u utxo) BlockHeight() int {
	if !u.Status.Confirmed {
		return -1
	}
	return u.Status.BlockHeight
}
