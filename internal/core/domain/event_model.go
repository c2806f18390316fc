package domain

// Topics of the lifecycle notifications published by the session manager.
const (
	WalletOpeningTopic = "wallet-opening"
	WalletInitTopic    = "wallet-init"
	WalletAuthTopic    = "wallet-auth"
)

// Messages of the wallet-opening notification.
const (
	OpeningDecodingMessage   = "Decoding seed phrase"
	OpeningGeneratingMessage = "Generating"
	OpeningSyncingMessage    = "Synchronizing Wallet"
)

// WalletOpeningEvent ...
type WalletOpeningEvent struct {
	Message string
}

// WalletInitEvent carries the seed in hex format and the wallet id.
type WalletInitEvent struct {
	Seed string
	ID   string
}

// WalletAuthEvent ...
type WalletAuthEvent struct {
	Token string
	Pin   string
}
