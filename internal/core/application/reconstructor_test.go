package application_test

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/hivewallet/hive-core/internal/core/application"
	"github.com/hivewallet/hive-core/internal/core/domain"
	"github.com/hivewallet/hive-core/internal/core/ports"
	"github.com/hivewallet/hive-core/pkg/txgraph"
	"github.com/hivewallet/hive-core/pkg/wallet"
	"github.com/stretchr/testify/require"
)

const testSeedHex = "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"

var testNow = time.Unix(1700000000, 0)

type txFixture struct {
	wallet   *fakeWallet
	receive  string
	change   string
	prevTx   *wire.MsgTx
	tx       *wire.MsgTx
	metadata ports.TxMetadata
}

func newTxFixture(t *testing.T) *txFixture {
	seed, _ := hex.DecodeString(testSeedHex)
	accounts, err := wallet.DeriveAccounts(wallet.DeriveAccountsOpts{
		Seed:    seed,
		Network: wallet.Regtest,
	})
	require.NoError(t, err)
	receive, err := wallet.DeriveAddress(accounts.External, 0, wallet.Regtest.Params)
	require.NoError(t, err)
	change, err := wallet.DeriveAddress(accounts.Internal, 0, wallet.Regtest.Params)
	require.NoError(t, err)

	nullData, err := txscript.NullDataScript([]byte("hive"))
	require.NoError(t, err)

	prevTx := wire.NewMsgTx(wire.TxVersion)
	prevTx.AddTxIn(wire.NewTxIn(
		wire.NewOutPoint(&chainhash.Hash{0x01}, 0), nil, nil,
	))
	prevTx.AddTxOut(wire.NewTxOut(100000, mustScript(t, receive)))
	prevTx.AddTxOut(wire.NewTxOut(0, nullData))

	prevHash := prevTx.TxHash()
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prevHash, 0), nil, nil))
	tx.AddTxOut(wire.NewTxOut(30000, nullData))
	tx.AddTxOut(wire.NewTxOut(69000, mustScript(t, change)))

	timestamp := int64(1600000000)
	metadata := ports.TxMetadata{
		Value:         -31000,
		Timestamp:     &timestamp,
		Confirmations: 3,
		Fee:           1000,
	}

	w := newFakeWallet()
	w.addTx(prevTx, nil)
	w.addTx(tx, &metadata)

	return &txFixture{w, receive, change, prevTx, tx, metadata}
}

func mustScript(t *testing.T, addr string) []byte {
	script, err := wallet.ScriptFromAddress(addr, wallet.Regtest.Params)
	require.NoError(t, err)
	return script
}

func TestReconstructTransaction(t *testing.T) {
	fixture := newTxFixture(t)

	record, err := application.ReconstructTransaction(
		fixture.wallet, fixture.tx, testNow,
	)
	require.NoError(t, err)
	require.NotNil(t, record)

	require.Equal(t, fixture.tx.TxHash().String(), record.ID)
	require.Equal(t, int64(-31000), record.Amount)
	require.Equal(t, int64(1600000000000), record.Timestamp)
	require.Equal(t, 3, record.Confirmations)
	require.Equal(t, int64(1000), record.Fee)
	require.False(t, record.IsPending())
	require.False(t, record.IsIncoming())

	require.Equal(t, []domain.TxIO{
		{Address: fixture.receive, Amount: 100000},
	}, record.Inputs)
	require.Equal(t, []domain.TxIO{
		{Address: "", Amount: 30000},
		{Address: fixture.change, Amount: 69000},
	}, record.Outputs)
}

func TestReconstructUnconfirmedTransaction(t *testing.T) {
	fixture := newTxFixture(t)

	prevHash := fixture.prevTx.TxHash()
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prevHash, 1), nil, nil))
	tx.AddTxOut(wire.NewTxOut(5000, mustScript(t, fixture.receive)))
	fixture.wallet.addTx(tx, &ports.TxMetadata{Value: 5000})

	record, err := application.ReconstructTransaction(fixture.wallet, tx, testNow)
	require.NoError(t, err)
	require.Equal(t, testNow.UnixMilli(), record.Timestamp)
	require.True(t, record.IsPending())
	require.True(t, record.IsIncoming())
	// The spent output is a null data one.
	require.Equal(t, []domain.TxIO{{Address: "", Amount: 0}}, record.Inputs)
}

func TestReconstructCoinbaseTransaction(t *testing.T) {
	fixture := newTxFixture(t)

	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(
		wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex),
		[]byte{0x51}, nil,
	))
	tx.AddTxOut(wire.NewTxOut(625000000, mustScript(t, fixture.receive)))
	fixture.wallet.addTx(tx, &ports.TxMetadata{Value: 625000000})

	record, err := application.ReconstructTransaction(fixture.wallet, tx, testNow)
	require.NoError(t, err)
	require.Empty(t, record.Inputs)
	require.Equal(t, []domain.TxIO{
		{Address: fixture.receive, Amount: 625000000},
	}, record.Outputs)
	require.True(t, record.IsIncoming())
}

func TestFailingReconstructTransaction(t *testing.T) {
	t.Run("null tx", func(t *testing.T) {
		fixture := newTxFixture(t)

		_, err := application.ReconstructTransaction(fixture.wallet, nil, testNow)
		require.ErrorIs(t, err, txgraph.ErrNullTx)
	})

	t.Run("missing metadata", func(t *testing.T) {
		fixture := newTxFixture(t)

		_, err := application.ReconstructTransaction(
			fixture.wallet, fixture.prevTx, testNow,
		)
		require.ErrorIs(t, err, domain.ErrMissingMetadata)
	})

	t.Run("unknown previous tx", func(t *testing.T) {
		fixture := newTxFixture(t)

		unknown := chainhash.Hash{0x02}
		tx := wire.NewMsgTx(wire.TxVersion)
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&unknown, 3), nil, nil))
		tx.AddTxOut(wire.NewTxOut(1000, mustScript(t, fixture.receive)))
		fixture.wallet.addTx(tx, &ports.TxMetadata{Value: 1000})

		_, err := application.ReconstructTransaction(fixture.wallet, tx, testNow)
		require.Error(t, err)
		lookupErr := &domain.GraphLookupError{}
		require.ErrorAs(t, err, &lookupErr)
		require.Equal(t, tx.TxHash().String(), lookupErr.TxID)
		require.Equal(t, unknown.String(), lookupErr.PrevTxID)
		require.Equal(t, uint32(3), lookupErr.Index)
	})

	t.Run("previous output out of range", func(t *testing.T) {
		fixture := newTxFixture(t)

		prevHash := fixture.prevTx.TxHash()
		tx := wire.NewMsgTx(wire.TxVersion)
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prevHash, 2), nil, nil))
		tx.AddTxOut(wire.NewTxOut(1000, mustScript(t, fixture.receive)))
		fixture.wallet.addTx(tx, &ports.TxMetadata{Value: 1000})

		_, err := application.ReconstructTransaction(fixture.wallet, tx, testNow)
		lookupErr := &domain.GraphLookupError{}
		require.ErrorAs(t, err, &lookupErr)
	})
}
