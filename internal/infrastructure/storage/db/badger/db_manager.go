package dbbadger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

const gcInterval = 30 * time.Minute

// DbManager holds the badgerhold store of the credentials.
type DbManager struct {
	Store *badgerhold.Store

	quit chan struct{}
}

// NewDbManager opens (or creates if not exists) the badger store on disk. It
// expects a base data dir and an optional logger. If the data dir is empty,
// the store is kept in memory.
func NewDbManager(baseDbDir string, logger badger.Logger) (*DbManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "credentials")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening credentials db: %w", err)
	}

	db := &DbManager{Store: store, quit: make(chan struct{})}
	if len(dbDir) > 0 {
		go db.runValueLogGC()
	}
	return db, nil
}

// NewTransaction returns a new read-write badger transaction.
func (d *DbManager) NewTransaction() *badger.Txn {
	return d.Store.Badger().NewTransaction(true)
}

// Close stops the garbage collector and closes the store.
func (d *DbManager) Close() {
	close(d.quit)
	if err := d.Store.Close(); err != nil {
		log.WithError(err).Warn("error while closing credentials db")
	}
}

// NewLogger returns a logrus-backed logger for badger.
func NewLogger() badger.Logger {
	return log.WithField("module", "badger")
}

func (d *DbManager) runValueLogGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.quit:
			return
		case <-ticker.C:
			if err := d.Store.Badger().RunValueLogGC(0.5); err != nil &&
				err != badger.ErrNoRewrite {
				log.Error(err)
			}
		}
	}
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
