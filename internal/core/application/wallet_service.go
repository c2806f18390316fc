package application

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/hivewallet/hive-core/internal/core/domain"
	"github.com/hivewallet/hive-core/internal/core/ports"
	"github.com/hivewallet/hive-core/pkg/wallet"
	log "github.com/sirupsen/logrus"
)

const entropySize = 16

// CreateWalletReply is the result of CreateWallet. Mnemonic is not kept by
// the service, the caller must show it to the user and then drop it.
type CreateWalletReply struct {
	UserExists bool
	Mnemonic   string
}

// WalletServiceOpts holds the collaborators of the wallet service.
// EntropySource defaults to crypto/rand and Now to time.Now.
type WalletServiceOpts struct {
	Auth          ports.AuthService
	Repository    domain.CredentialsRepository
	SeedGenerator ports.SeedGenerator
	WalletFactory ports.NetworkWalletFactory
	PubSub        ports.PubSub
	Network       *wallet.Network
	EntropySource io.Reader
	Now           func() time.Time
}

func (o WalletServiceOpts) validate() error {
	if o.Auth == nil {
		return fmt.Errorf("missing auth service")
	}
	if o.Repository == nil {
		return fmt.Errorf("missing credentials repository")
	}
	if o.SeedGenerator == nil {
		return fmt.Errorf("missing seed generator")
	}
	if o.WalletFactory == nil {
		return fmt.Errorf("missing network wallet factory")
	}
	if o.PubSub == nil {
		return fmt.Errorf("missing pubsub service")
	}
	if o.Network == nil {
		return wallet.ErrNullNetwork
	}
	return nil
}

// WalletService is the session manager of the wallet. It owns the seed, the
// wallet id, the session token and the network wallet, and sequences seed
// generation, authentication, seed encryption and wallet syncs.
type WalletService struct {
	// opLock serializes the mutating operations. Those running a sync hold
	// it until all the completions are delivered.
	opLock *sync.Mutex
	// lock protects session and wallet.
	lock *sync.RWMutex

	auth          ports.AuthService
	repo          domain.CredentialsRepository
	seedGenerator ports.SeedGenerator
	walletFactory ports.NetworkWalletFactory
	pubsub        ports.PubSub
	network       *wallet.Network
	entropy       io.Reader
	now           func() time.Time

	session *domain.Session
	wallet  ports.NetworkWallet
}

// NewWalletService returns a session manager, locked if credentials are
// stored locally, empty otherwise.
func NewWalletService(
	ctx context.Context, opts WalletServiceOpts,
) (*WalletService, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.EntropySource == nil {
		opts.EntropySource = rand.Reader
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	svc := &WalletService{
		opLock:        &sync.Mutex{},
		lock:          &sync.RWMutex{},
		auth:          opts.Auth,
		repo:          opts.Repository,
		seedGenerator: opts.SeedGenerator,
		walletFactory: opts.WalletFactory,
		pubsub:        opts.PubSub,
		network:       opts.Network,
		entropy:       opts.EntropySource,
		now:           opts.Now,
	}

	hasCredentials, err := svc.hasCredentials(ctx)
	if err != nil {
		return nil, err
	}
	svc.session = domain.NewSession(hasCredentials)
	return svc, nil
}

// CreateWallet generates a new seed, or restores it from the given
// mnemonic, and assigns it to the session. The reply tells whether the
// wallet has already an account at the auth service.
func (s *WalletService) CreateWallet(
	ctx context.Context, passphrase string,
) (*CreateWalletReply, error) {
	s.opLock.Lock()
	defer s.opLock.Unlock()

	req := ports.SeedRequest{Passphrase: passphrase}
	message := domain.OpeningDecodingMessage
	if len(passphrase) <= 0 {
		message = domain.OpeningGeneratingMessage
		req.Entropy = make([]byte, entropySize)
		if _, err := io.ReadFull(s.entropy, req.Entropy); err != nil {
			return nil, fmt.Errorf("failed to read entropy: %w", err)
		}
	}
	s.publish(domain.WalletOpeningTopic, domain.WalletOpeningEvent{Message: message})

	reply, ok := <-s.seedGenerator.Generate(req)
	if !ok {
		return nil, ErrSeedWorkerClosed
	}
	if reply.Err != nil {
		log.WithError(reply.Err).Debug("seed generation failed")
		return nil, seedError(reply.Err)
	}

	walletID := s.assignSeed(reply.Seed)
	wipe(reply.Seed)

	exists, err := s.auth.Exist(ctx, walletID)
	if err != nil {
		return nil, err
	}

	log.Debug("wallet created")
	return &CreateWalletReply{UserExists: exists, Mnemonic: reply.Mnemonic}, nil
}

// SetPin registers the pin for the wallet of the session, stores the seed
// encrypted with the obtained token and opens the wallet.
func (s *WalletService) SetPin(ctx context.Context, pin string) *SyncReplies {
	return s.runSyncOperation(func(sinks *syncSinks) {
		ctx := context.WithoutCancel(ctx)

		s.lock.RLock()
		if !s.session.HasSeed() {
			s.lock.RUnlock()
			sinks.failAll(domain.ErrMissingSeed)
			return
		}
		seed := append([]byte{}, s.session.Seed...)
		walletID := s.session.WalletID
		s.lock.RUnlock()
		defer wipe(seed)

		token, err := s.auth.Register(ctx, walletID, pin)
		observeAuth("register", err)
		if err != nil {
			s.fail(sinks, "set pin", err)
			return
		}
		s.publish(domain.WalletAuthTopic, domain.WalletAuthEvent{
			Token: token, Pin: pin,
		})

		credentials, err := domain.NewCredentials(seed, token)
		if err != nil {
			s.fail(sinks, "set pin", err)
			return
		}
		if err := s.repo.Persist(ctx, *credentials); err != nil {
			s.fail(sinks, "set pin", err)
			return
		}

		s.lock.Lock()
		err = s.session.Authenticate(token)
		s.lock.Unlock()
		if err != nil {
			s.fail(sinks, "set pin", err)
			return
		}

		s.openWallet(ctx, seed, sinks)
	})
}

// OpenWalletWithPin authenticates the locally stored wallet with the given
// pin, decrypts its seed and opens the wallet. If the auth service reports
// the user as deleted, the local credentials are removed.
func (s *WalletService) OpenWalletWithPin(
	ctx context.Context, pin string,
) *SyncReplies {
	return s.runSyncOperation(func(sinks *syncSinks) {
		ctx := context.WithoutCancel(ctx)

		credentials, err := s.repo.Load(ctx)
		if err != nil {
			s.fail(sinks, "open wallet", err)
			return
		}

		token, err := s.auth.Login(ctx, credentials.WalletID, pin)
		observeAuth("login", err)
		if err != nil {
			if errors.Is(err, domain.ErrUserDeleted) {
				if err := s.deleteCredentials(ctx, *credentials); err != nil {
					log.WithError(err).Warn("failed to delete credentials")
				}
			}
			s.fail(sinks, "open wallet", err)
			return
		}

		seed, err := credentials.DecryptSeed(token)
		if err != nil {
			s.fail(sinks, "open wallet", err)
			return
		}
		defer wipe(seed)

		s.assignSeed(seed)
		s.publish(domain.WalletAuthTopic, domain.WalletAuthEvent{
			Token: token, Pin: pin,
		})

		s.lock.Lock()
		err = s.session.Authenticate(token)
		s.lock.Unlock()
		if err != nil {
			s.fail(sinks, "open wallet", err)
			return
		}

		s.openWallet(ctx, seed, sinks)
	})
}

// Sync refreshes the open wallet.
func (s *WalletService) Sync(ctx context.Context) *SyncReplies {
	return s.runSyncOperation(func(sinks *syncSinks) {
		ctx := context.WithoutCancel(ctx)

		s.lock.RLock()
		w := s.wallet
		s.lock.RUnlock()
		if w == nil {
			s.fail(sinks, "sync", domain.ErrWalletNotOpen)
			return
		}

		s.publish(domain.WalletOpeningTopic, domain.WalletOpeningEvent{
			Message: domain.OpeningSyncingMessage,
		})
		s.forwardSync(w, s.walletFactory.Sync(ctx, w), sinks)
	})
}

// ResetPin invalidates the remote pin, deletes the local credentials and
// clears the session. It returns the resulting state, always StateEmpty.
func (s *WalletService) ResetPin(ctx context.Context) (domain.SessionState, error) {
	s.opLock.Lock()
	defer s.opLock.Unlock()

	credentials, err := s.repo.Load(ctx)
	if err != nil {
		return s.Status(), err
	}

	err = s.auth.ResetPin(ctx, credentials.WalletID)
	observeAuth("reset", err)
	if err != nil {
		return s.Status(), err
	}

	if err := s.deleteCredentials(ctx, *credentials); err != nil {
		return s.Status(), err
	}
	log.Debug("pin reset")
	return domain.StateEmpty, nil
}

// DisablePin removes the pin protection of the wallet of the session at the
// auth service. The local state is untouched.
func (s *WalletService) DisablePin(ctx context.Context, pin string) error {
	s.lock.RLock()
	walletID := s.session.WalletID
	s.lock.RUnlock()

	if len(walletID) <= 0 {
		return domain.ErrWalletNotOpen
	}

	err := s.auth.DisablePin(ctx, walletID, pin)
	observeAuth("disable", err)
	return err
}

// GetWallet returns the open wallet, nil if none.
func (s *WalletService) GetWallet() ports.NetworkWallet {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.wallet
}

// WalletExists returns whether credentials are stored locally.
func (s *WalletService) WalletExists(ctx context.Context) (bool, error) {
	return s.hasCredentials(ctx)
}

// Reset deletes the local credentials and clears the session. Without
// stored credentials it is a no-op, a created wallet keeps its seed.
func (s *WalletService) Reset(ctx context.Context) error {
	s.opLock.Lock()
	defer s.opLock.Unlock()

	credentials, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoCredentials) {
			return nil
		}
		return err
	}
	return s.deleteCredentials(ctx, *credentials)
}

// Lock logs out: seed and token are wiped and the wallet is dropped.
func (s *WalletService) Lock(ctx context.Context) error {
	s.opLock.Lock()
	defer s.opLock.Unlock()

	hasCredentials, err := s.hasCredentials(ctx)
	if err != nil {
		return err
	}
	s.resetSession(hasCredentials)
	log.Debug("session locked")
	return nil
}

// Status returns the current state of the session.
func (s *WalletService) Status() domain.SessionState {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.session.State
}

// WalletID returns the id of the wallet of the session, empty if none.
func (s *WalletService) WalletID() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.session.WalletID
}

// ValidateSend checks that the given amount in satoshi can be sent to the
// given address with the open wallet.
func (s *WalletService) ValidateSend(address string, amount int64) error {
	w := s.GetWallet()
	if w == nil {
		return domain.ErrWalletNotOpen
	}

	if !wallet.IsValidAddress(address, w.Network().Params) {
		return &domain.ValidationError{
			Msg: ErrInvalidAddress.Error(), Err: ErrInvalidAddress,
		}
	}
	if amount <= 0 {
		return &domain.ValidationError{
			Msg: ErrInvalidAmount.Error(), Err: ErrInvalidAmount,
		}
	}
	if balance := w.Balance(); amount > balance {
		return &domain.ValidationError{
			Msg: fmt.Sprintf(
				"%s: %s available", ErrInsufficientFunds,
				w.Denomination().Format(balance),
			),
			Err: ErrInsufficientFunds,
		}
	}
	return nil
}

// runSyncOperation queues the given operation and runs it in background.
// The operation lock is held until all the completions are delivered.
func (s *WalletService) runSyncOperation(fn func(*syncSinks)) *SyncReplies {
	replies, sinks := newSyncReplies()

	s.opLock.Lock()
	go func() {
		defer s.opLock.Unlock()
		fn(sinks)
	}()
	return replies
}

// openWallet derives the accounts from the seed, creates the network wallet
// and forwards the completions of its first sync.
func (s *WalletService) openWallet(
	ctx context.Context, seed []byte, sinks *syncSinks,
) {
	s.publish(domain.WalletOpeningTopic, domain.WalletOpeningEvent{
		Message: domain.OpeningSyncingMessage,
	})

	accounts, err := wallet.DeriveAccounts(wallet.DeriveAccountsOpts{
		Seed:    seed,
		Network: s.network,
	})
	if err != nil {
		s.fail(sinks, "derive accounts", err)
		return
	}

	w, walletSync := s.walletFactory.NewWallet(ctx, accounts, s.network)

	s.lock.Lock()
	s.wallet = w
	s.lock.Unlock()

	s.forwardSync(w, walletSync, sinks)
}

// forwardSync waits for the completions of the network wallet sync and
// replies to the caller, reconstructing the history once available.
func (s *WalletService) forwardSync(
	w ports.NetworkWallet, walletSync *ports.WalletSync, sinks *syncSinks,
) {
	if err := <-walletSync.HistoryDone; err != nil {
		log.WithError(err).Warn("failed to sync wallet history")
		sinks.replyHistory(HistoryReply{Err: err})
	} else {
		txs, failures := reconstructHistory(w, s.now())
		for txid, err := range failures {
			log.WithError(err).Warnf("failed to reconstruct tx %s", txid)
		}
		sinks.replyHistory(HistoryReply{Transactions: txs, Failures: failures})
	}

	if err := <-walletSync.UnspentsDone; err != nil {
		sinks.replyUnspents(UnspentsReply{Err: err})
	} else {
		sinks.replyUnspents(UnspentsReply{Unspents: w.Unspents()})
	}

	err := <-walletSync.BalanceDone
	observeSync(err)
	if err != nil {
		sinks.replyBalance(BalanceReply{Err: err})
		return
	}
	sinks.replyBalance(BalanceReply{Balance: w.Balance()})
	log.Debug("wallet synced")
}

func (s *WalletService) fail(sinks *syncSinks, op string, err error) {
	log.WithError(err).Warnf("%s failed", op)
	sinks.failAll(err)
}

// assignSeed replaces the seed of the session, drops the open wallet and
// publishes the wallet-init event. It returns the new wallet id.
func (s *WalletService) assignSeed(seed []byte) string {
	walletID := wallet.WalletID(seed)

	s.lock.Lock()
	s.session.AssignSeed(seed, walletID)
	s.wallet = nil
	s.lock.Unlock()

	s.publish(domain.WalletInitTopic, domain.WalletInitEvent{
		Seed: hex.EncodeToString(seed), ID: walletID,
	})
	return walletID
}

func (s *WalletService) deleteCredentials(
	ctx context.Context, credentials domain.Credentials,
) error {
	if err := s.repo.Delete(ctx, credentials); err != nil {
		return err
	}
	s.resetSession(false)
	return nil
}

func (s *WalletService) resetSession(hasCredentials bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.session.Reset(hasCredentials)
	s.wallet = nil
}

func (s *WalletService) hasCredentials(ctx context.Context) (bool, error) {
	if _, err := s.repo.Load(ctx); err != nil {
		if errors.Is(err, domain.ErrNoCredentials) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *WalletService) publish(topic string, event interface{}) {
	if err := s.pubsub.Publish(topic, event); err != nil {
		log.WithError(err).Warnf("failed to publish %s event", topic)
	}
}

// seedError turns an error of the seed generator into a validation error
// with the message shown to the user.
func seedError(err error) error {
	return domain.NewValidationError(
		"%s", strings.TrimPrefix(err.Error(), ports.UncaughtErrorPrefix),
	)
}

func wipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
