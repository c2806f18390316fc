package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/hivewallet/hive-core/internal/core/application"
	"github.com/hivewallet/hive-core/pkg/wallet"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory where the credentials are stored
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// NetworkKey is the network of the wallet, one of bitcoin, testnet, regtest or litecoin
	NetworkKey = "NETWORK"
	// AuthURLKey is the base url of the pin auth service
	AuthURLKey = "AUTH_URL"
	// AuthTimeoutKey is the timeout of every request to the auth service
	AuthTimeoutKey = "AUTH_TIMEOUT"
	// ExplorerURLKey is the endpoint of the esplora REST API
	ExplorerURLKey = "EXPLORER_URL"
	// ExplorerRateLimitKey is the max number of requests per second to the explorer
	ExplorerRateLimitKey = "EXPLORER_RATE_LIMIT"
	// ExplorerTimeoutKey is the timeout of every request to the explorer
	ExplorerTimeoutKey = "EXPLORER_TIMEOUT"
	// GapLimitKey is the number of consecutive unused addresses after which
	// address discovery stops
	GapLimitKey = "GAP_LIMIT"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// EnableProfilerKey enables the dump of memory and prometheus stats
	EnableProfilerKey = "ENABLE_PROFILER"

	DbLocation       = "db"
	ProfilerLocation = "stats"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("hive", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("HIVE")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, int(log.InfoLevel))
	vip.SetDefault(NetworkKey, wallet.Bitcoin.Name)
	vip.SetDefault(AuthURLKey, "https://auth.hivewallet.com")
	vip.SetDefault(AuthTimeoutKey, 10*time.Second)
	vip.SetDefault(ExplorerURLKey, "https://blockstream.info/api")
	vip.SetDefault(ExplorerRateLimitKey, 10)
	vip.SetDefault(ExplorerTimeoutKey, 15*time.Second)
	vip.SetDefault(GapLimitKey, 20)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(EnableProfilerKey, false)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// AppConfig returns the config of the wallet core built from the current
// settings.
func AppConfig() *application.Config {
	dbType := GetString(DBTypeKey)
	var dbConfig interface{}
	if dbType == application.DBBadger {
		dbConfig = filepath.Join(GetDatadir(), DbLocation)
	}

	return &application.Config{
		DBType:                 dbType,
		DBConfig:               dbConfig,
		NetworkName:            GetString(NetworkKey),
		AuthURL:                GetString(AuthURLKey),
		AuthTimeout:            GetDuration(AuthTimeoutKey),
		ExplorerURL:            GetString(ExplorerURLKey),
		ExplorerRequestTimeout: GetDuration(ExplorerTimeoutKey),
		ExplorerRateLimit:      GetInt(ExplorerRateLimitKey),
		GapLimit:               GetInt(GapLimitKey),
	}
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, err := wallet.NetworkByName(GetString(NetworkKey)); err != nil {
		return err
	}

	if _, ok := application.SupportedDBType[GetString(DBTypeKey)]; !ok {
		return fmt.Errorf(
			"%w %s", application.ErrUnknownDBType, GetString(DBTypeKey),
		)
	}

	for _, key := range []string{AuthURLKey, ExplorerURLKey} {
		if _, err := url.ParseRequestURI(GetString(key)); err != nil {
			return fmt.Errorf("%s is not a valid url", key)
		}
	}

	if GetInt(GapLimitKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", GapLimitKey)
	}
	if GetInt(ExplorerRateLimitKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", ExplorerRateLimitKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if GetString(DBTypeKey) == application.DBBadger {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
			return err
		}
	}

	if GetBool(EnableProfilerKey) {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
