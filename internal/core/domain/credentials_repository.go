package domain

import "context"

// CredentialsRepository is the local storage of the credential record. It
// holds at most one record: Persist atomically replaces any previous one and
// Delete is idempotent.
type CredentialsRepository interface {
	Persist(ctx context.Context, credentials Credentials) error
	// Load returns ErrNoCredentials if no record is stored.
	Load(ctx context.Context) (*Credentials, error)
	Delete(ctx context.Context, credentials Credentials) error
	Close()
}
