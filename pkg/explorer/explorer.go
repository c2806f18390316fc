package explorer

import (
	"context"
	"errors"

	"github.com/btcsuite/btcd/wire"
)

var (
	// ErrNotFound is returned when the explorer does not know the requested
	// resource, ie. a tx never broadcasted.
	ErrNotFound = errors.New("resource not found")
)

// Transaction represents a transaction in the bitcoin chain along with its
// confirmation status.
type Transaction interface {
	Hash() string
	MsgTx() *wire.MsgTx
	Fee() int64
	Confirmed() bool
	BlockHeight() int
	// BlockTime is the unix time in seconds of the including block, 0 if the
	// tx is unconfirmed.
	BlockTime() int64
}

// Utxo represents an unspent transaction output along with the address
// it is locked to.
type Utxo interface {
	Hash() string
	Address() string
	Index() uint32
	Value() int64
	IsConfirmed() bool
	BlockHeight() int
}

// Service is representation of an explorer that allows to fetch data from the
// blockchain.
type Service interface {
	// GetTransactionHex fetches the transaction in hex format given its hash.
	GetTransactionHex(ctx context.Context, txid string) (string, error)
	// GetTransactionsForAddress returns the list of all txs relative to the
	// given address, mempool ones first and then confirmed ones newest first.
	GetTransactionsForAddress(
		ctx context.Context, address string,
	) ([]Transaction, error)
	// GetUnspents fetches the utxos locked by the given address.
	GetUnspents(ctx context.Context, address string) ([]Utxo, error)
	// GetUnspentsForAddresses fetches the utxos of the given list of addresses.
	GetUnspentsForAddresses(
		ctx context.Context, addresses []string,
	) ([]Utxo, error)
	// GetBlockHeight returns the the number of block of the blockchain.
	GetBlockHeight(ctx context.Context) (int, error)
}
