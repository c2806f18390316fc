package inmemory

import (
	"context"
	"sync"
	"testing"

	"github.com/hivewallet/hive-core/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialsRepositoryImpl()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, domain.ErrNoCredentials)

	credentials := domain.Credentials{WalletID: "wallet-a", EncryptedSeed: "blob-a"}
	require.NoError(t, repo.Persist(ctx, credentials))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, credentials, *loaded)

	// The returned record is a copy.
	loaded.EncryptedSeed = "changed"
	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "blob-a", loaded.EncryptedSeed)

	other := domain.Credentials{WalletID: "wallet-b", EncryptedSeed: "blob-b"}
	require.NoError(t, repo.Delete(ctx, other))
	_, err = repo.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Persist(ctx, other))
	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, other, *loaded)

	require.NoError(t, repo.Delete(ctx, other))
	require.NoError(t, repo.Delete(ctx, other))
	_, err = repo.Load(ctx)
	require.ErrorIs(t, err, domain.ErrNoCredentials)

	err = repo.Persist(ctx, domain.Credentials{WalletID: "wallet"})
	require.ErrorIs(t, err, domain.ErrNullEncryptedSeed)
}

func TestCredentialsRepositoryConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewCredentialsRepositoryImpl()

	records := []domain.Credentials{
		{WalletID: "wallet-a", EncryptedSeed: "blob-a"},
		{WalletID: "wallet-b", EncryptedSeed: "blob-b"},
		{WalletID: "wallet-c", EncryptedSeed: "blob-c"},
	}

	wg := &sync.WaitGroup{}
	for _, r := range records {
		wg.Add(1)
		go func(r domain.Credentials) {
			defer wg.Done()
			assert.NoError(t, repo.Persist(ctx, r))
		}(r)
	}
	wg.Wait()

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, records, *loaded)
}
