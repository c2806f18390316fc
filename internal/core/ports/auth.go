package ports

import "context"

// AuthService is the client of the remote pin authentication service. Every
// method is a single round trip without retries.
type AuthService interface {
	// Register sets the pin for the given wallet id and returns a session
	// token. It fails if a pin is already set.
	Register(ctx context.Context, walletID, pin string) (string, error)
	// Login verifies the pin and returns a session token.
	Login(ctx context.Context, walletID, pin string) (string, error)
	// ResetPin invalidates the remote pin of the given wallet id.
	ResetPin(ctx context.Context, walletID string) error
	// DisablePin removes the pin protection, the current pin is required.
	DisablePin(ctx context.Context, walletID, pin string) error
	// Exist returns whether the wallet id has an account.
	Exist(ctx context.Context, walletID string) (bool, error)
}
