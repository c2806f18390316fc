package domain

import "fmt"

// SessionState is the state of the wallet session.
type SessionState int

const (
	// StateEmpty is the state of a session without seed nor credentials.
	StateEmpty SessionState = iota
	// StateCreated is the state after creating or restoring a wallet, the seed
	// is in memory but no pin is set yet.
	StateCreated
	// StateLocked is the state of a session with credentials stored locally
	// and no active authentication.
	StateLocked
	// StateAuthenticated is the state of a session with seed, token and an
	// open wallet.
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateCreated:
		return "created"
	case StateLocked:
		return "locked"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Session holds the secrets of the wallet in memory. It is owned by the
// session manager and must never be shared.
type Session struct {
	State    SessionState
	Seed     []byte
	WalletID string
	Token    string
}

// NewSession returns a new session, locked if credentials are stored locally.
func NewSession(hasCredentials bool) *Session {
	s := &Session{}
	s.Reset(hasCredentials)
	return s
}

// AssignSeed replaces the seed of the session and the wallet id derived from
// it. Any previous token is wiped.
func (s *Session) AssignSeed(seed []byte, walletID string) {
	s.wipe()
	s.Seed = append([]byte{}, seed...)
	s.WalletID = walletID
	s.State = StateCreated
}

// Authenticate marks the session as authenticated with the given token.
func (s *Session) Authenticate(token string) error {
	if len(s.Seed) <= 0 {
		return ErrMissingSeed
	}
	s.Token = token
	s.State = StateAuthenticated
	return nil
}

// HasSeed ...
func (s *Session) HasSeed() bool {
	return len(s.Seed) > 0
}

// Reset wipes seed and token and moves to locked or empty state.
func (s *Session) Reset(hasCredentials bool) {
	s.wipe()
	s.WalletID = ""
	s.State = StateEmpty
	if hasCredentials {
		s.State = StateLocked
	}
}

func (s *Session) wipe() {
	for i := range s.Seed {
		s.Seed[i] = 0
	}
	s.Seed = nil
	s.Token = ""
}
