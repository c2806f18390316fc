package inmemory

import (
	"context"
	"sync"

	"github.com/hivewallet/hive-core/internal/core/domain"
)

// CredentialsRepositoryImpl keeps the credential record in memory.
type CredentialsRepositoryImpl struct {
	locker      *sync.RWMutex
	credentials *domain.Credentials
}

// NewCredentialsRepositoryImpl returns a new empty CredentialsRepositoryImpl
func NewCredentialsRepositoryImpl() domain.CredentialsRepository {
	return &CredentialsRepositoryImpl{
		locker: &sync.RWMutex{},
	}
}

func (r *CredentialsRepositoryImpl) Persist(
	_ context.Context, credentials domain.Credentials,
) error {
	if err := credentials.Validate(); err != nil {
		return err
	}

	r.locker.Lock()
	defer r.locker.Unlock()

	r.credentials = &credentials
	return nil
}

func (r *CredentialsRepositoryImpl) Load(
	_ context.Context,
) (*domain.Credentials, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	if r.credentials == nil {
		return nil, domain.ErrNoCredentials
	}
	credentials := *r.credentials
	return &credentials, nil
}

func (r *CredentialsRepositoryImpl) Delete(
	_ context.Context, credentials domain.Credentials,
) error {
	if len(credentials.WalletID) <= 0 {
		return domain.ErrNullWalletID
	}

	r.locker.Lock()
	defer r.locker.Unlock()

	if r.credentials != nil && r.credentials.WalletID == credentials.WalletID {
		r.credentials = nil
	}
	return nil
}

func (r *CredentialsRepositoryImpl) Close() {}
