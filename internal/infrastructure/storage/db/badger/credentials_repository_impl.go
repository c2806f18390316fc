package dbbadger

import (
	"context"

	"github.com/hivewallet/hive-core/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type credentialsRepositoryImpl struct {
	db *DbManager
}

// NewCredentialsRepositoryImpl returns a credentials repository persisting
// the record in the given badger store. The record is keyed by wallet id.
func NewCredentialsRepositoryImpl(db *DbManager) domain.CredentialsRepository {
	return &credentialsRepositoryImpl{db}
}

func (r *credentialsRepositoryImpl) Persist(
	_ context.Context, credentials domain.Credentials,
) error {
	if err := credentials.Validate(); err != nil {
		return err
	}

	tx := r.db.NewTransaction()
	defer tx.Discard()

	query := badgerhold.Where("WalletID").Ne(credentials.WalletID)
	if err := r.db.Store.TxDeleteMatching(
		tx, &domain.Credentials{}, query,
	); err != nil {
		return &domain.StorageError{Op: "persist", Err: err}
	}
	if err := r.db.Store.TxUpsert(
		tx, credentials.WalletID, &credentials,
	); err != nil {
		return &domain.StorageError{Op: "persist", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: "persist", Err: err}
	}
	return nil
}

func (r *credentialsRepositoryImpl) Load(
	_ context.Context,
) (*domain.Credentials, error) {
	var records []domain.Credentials
	if err := r.db.Store.Find(&records, nil); err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}
	if len(records) <= 0 {
		return nil, domain.ErrNoCredentials
	}
	return &records[0], nil
}

func (r *credentialsRepositoryImpl) Delete(
	_ context.Context, credentials domain.Credentials,
) error {
	if len(credentials.WalletID) <= 0 {
		return domain.ErrNullWalletID
	}

	tx := r.db.NewTransaction()
	defer tx.Discard()

	if err := r.db.Store.TxDelete(
		tx, credentials.WalletID, domain.Credentials{},
	); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil
		}
		return &domain.StorageError{Op: "delete", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: "delete", Err: err}
	}
	return nil
}

func (r *credentialsRepositoryImpl) Close() {
	r.db.Close()
}
