package ports

// UncaughtErrorPrefix prefixes the message of every error reported by a seed
// generator. It must be stripped before showing the message to the user.
const UncaughtErrorPrefix = "Uncaught Error: "

// SeedRequest is the single message sent to a seed generator. Passphrase, if
// defined, is a mnemonic to decode, otherwise the seed is generated from
// Entropy.
type SeedRequest struct {
	Passphrase string
	Entropy    []byte
}

// SeedReply is the single message received from a seed generator.
type SeedReply struct {
	Seed     []byte
	Mnemonic string
	Err      error
}

// SeedGenerator runs seed generation in isolation. Generate returns a channel
// that receives exactly one reply and is then closed.
type SeedGenerator interface {
	Generate(req SeedRequest) <-chan SeedReply
}
