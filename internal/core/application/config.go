package application

import (
	"context"
	"fmt"
	"time"

	"github.com/hivewallet/hive-core/internal/core/domain"
	"github.com/hivewallet/hive-core/internal/core/ports"
	"github.com/hivewallet/hive-core/internal/infrastructure/auth"
	"github.com/hivewallet/hive-core/internal/infrastructure/chainwallet"
	"github.com/hivewallet/hive-core/internal/infrastructure/pubsub"
	"github.com/hivewallet/hive-core/internal/infrastructure/seedworker"
	dbbadger "github.com/hivewallet/hive-core/internal/infrastructure/storage/db/badger"
	dbinmemory "github.com/hivewallet/hive-core/internal/infrastructure/storage/db/inmemory"
	"github.com/hivewallet/hive-core/pkg/explorer"
	"github.com/hivewallet/hive-core/pkg/explorer/esplora"
	"github.com/hivewallet/hive-core/pkg/wallet"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

// Config holds the settings of the wallet core and lazily builds its
// services. Services already set are used as they are.
type Config struct {
	DBType   string
	DBConfig interface{}

	NetworkName            string
	AuthURL                string
	AuthTimeout            time.Duration
	ExplorerURL            string
	ExplorerRequestTimeout time.Duration
	ExplorerRateLimit      int
	GapLimit               int
	PubSubBufferSize       int

	Repository    domain.CredentialsRepository
	AuthSvc       ports.AuthService
	ExplorerSvc   explorer.Service
	WalletFactory ports.NetworkWalletFactory
	SeedGenerator ports.SeedGenerator
	PubSub        ports.PubSub

	network *wallet.Network
	wallet  *WalletService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok && c.Repository == nil {
		return fmt.Errorf("%w: %s", ErrUnknownDBType, c.DBType)
	}
	if _, err := c.networkParams(); err != nil {
		return err
	}
	if _, err := c.authService(); err != nil {
		return err
	}
	if _, err := c.walletFactory(); err != nil {
		return err
	}
	if _, err := c.repository(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Network() *wallet.Network {
	net, _ := c.networkParams()
	return net
}

func (c *Config) PubSubService() ports.PubSub {
	return c.pubsubService()
}

// WalletService returns the session manager, built at first call.
func (c *Config) WalletService(ctx context.Context) (*WalletService, error) {
	return c.walletService(ctx)
}

// Close releases the storage and removes all event subscriptions.
func (c *Config) Close() {
	if c.Repository != nil {
		c.Repository.Close()
	}
	if c.PubSub != nil {
		c.PubSub.Close()
	}
}

func (c *Config) networkParams() (*wallet.Network, error) {
	if c.network == nil {
		net, err := wallet.NetworkByName(c.NetworkName)
		if err != nil {
			return nil, err
		}
		c.network = net
	}
	return c.network, nil
}

func (c *Config) repository() (domain.CredentialsRepository, error) {
	if c.Repository == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			db, err := dbbadger.NewDbManager(datadir, dbbadger.NewLogger())
			if err != nil {
				return nil, err
			}
			c.Repository = dbbadger.NewCredentialsRepositoryImpl(db)
		case DBInMemory:
			c.Repository = dbinmemory.NewCredentialsRepositoryImpl()
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownDBType, c.DBType)
		}
	}
	return c.Repository, nil
}

func (c *Config) authService() (ports.AuthService, error) {
	if c.AuthSvc == nil {
		svc, err := auth.NewService(c.AuthURL, c.AuthTimeout)
		if err != nil {
			return nil, err
		}
		c.AuthSvc = svc
	}
	return c.AuthSvc, nil
}

func (c *Config) explorerService() (explorer.Service, error) {
	if c.ExplorerSvc == nil {
		svc, err := esplora.NewService(
			c.ExplorerURL, c.ExplorerRequestTimeout, c.ExplorerRateLimit,
		)
		if err != nil {
			return nil, err
		}
		c.ExplorerSvc = svc
	}
	return c.ExplorerSvc, nil
}

func (c *Config) walletFactory() (ports.NetworkWalletFactory, error) {
	if c.WalletFactory == nil {
		explorerSvc, err := c.explorerService()
		if err != nil {
			return nil, err
		}
		factory, err := chainwallet.NewFactory(explorerSvc, c.GapLimit)
		if err != nil {
			return nil, err
		}
		c.WalletFactory = factory
	}
	return c.WalletFactory, nil
}

func (c *Config) seedGenerator() ports.SeedGenerator {
	if c.SeedGenerator == nil {
		c.SeedGenerator = seedworker.NewService()
	}
	return c.SeedGenerator
}

func (c *Config) pubsubService() ports.PubSub {
	if c.PubSub == nil {
		c.PubSub = pubsub.NewService(c.PubSubBufferSize)
	}
	return c.PubSub
}

func (c *Config) walletService(ctx context.Context) (*WalletService, error) {
	if c.wallet == nil {
		net, err := c.networkParams()
		if err != nil {
			return nil, err
		}
		repo, err := c.repository()
		if err != nil {
			return nil, err
		}
		authSvc, err := c.authService()
		if err != nil {
			return nil, err
		}
		factory, err := c.walletFactory()
		if err != nil {
			return nil, err
		}

		svc, err := NewWalletService(ctx, WalletServiceOpts{
			Auth:          authSvc,
			Repository:    repo,
			SeedGenerator: c.seedGenerator(),
			WalletFactory: factory,
			PubSub:        c.pubsubService(),
			Network:       net,
		})
		if err != nil {
			return nil, err
		}
		c.wallet = svc
	}
	return c.wallet, nil
}
