package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/vipstarcoin/vipswallet/pkg/network"
	"github.com/vipstarcoin/vipswallet/pkg/wallet"

	"github.com/spf13/viper"
)

const (
	// NetworkKey is the name of the network the wallet runs on (mainnet,
	// testnet or regtest)
	NetworkKey = "NETWORK"
	// DatadirKey is the local data directory to store the wallet snapshot
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// ApiEndpointsKey is the comma separated list of insight base urls,
	// defaults to those of the network
	ApiEndpointsKey = "API_ENDPOINTS"
	// ApiTimeoutKey is the timeout in milliseconds of every single request to
	// the chain provider
	ApiTimeoutKey = "API_TIMEOUT"
	// ApiMaxRetriesKey is the number of retries against the same endpoint
	// before rotating to the next one
	ApiMaxRetriesKey = "API_MAX_RETRIES"
	// ApiRateLimitKey is the max number of requests per second sent to the
	// chain provider, 0 means unlimited
	ApiRateLimitKey = "API_RATE_LIMIT"
	// GapLimitKey is the number of consecutive unused addresses that stop the
	// discovery of an account
	GapLimitKey = "GAP_LIMIT"
	// MaxDiscoveryWindowsKey bounds the number of windows scanned while
	// discovering an account
	MaxDiscoveryWindowsKey = "MAX_DISCOVERY_WINDOWS"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// EncryptionSchemeKey is the scheme used to encrypt new secrets (legacy
	// or authenticated)
	EncryptionSchemeKey = "ENCRYPTION_SCHEME"

	// DBJson stores the wallet as a plain JSON snapshot file
	DBJson = "json"
	// DBBadger stores the wallet in a badger database
	DBBadger = "badger"

	DbLocation = "db"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("vipswallet", false)

// InitConfig loads the config from the environment. The given overrides, if
// any, take precedence over env vars and defaults.
func InitConfig(overrides map[string]interface{}) error {
	vip = viper.New()
	vip.SetEnvPrefix("VIPS")
	vip.AutomaticEnv()

	vip.SetDefault(NetworkKey, network.MainnetName)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(ApiTimeoutKey, 3000)
	vip.SetDefault(ApiMaxRetriesKey, 3)
	vip.SetDefault(ApiRateLimitKey, 0)
	vip.SetDefault(GapLimitKey, network.GapLimit)
	vip.SetDefault(MaxDiscoveryWindowsKey, 1000)
	vip.SetDefault(DBTypeKey, DBJson)
	vip.SetDefault(EncryptionSchemeKey, wallet.SchemeLegacy.String())

	for key, value := range overrides {
		vip.Set(key, value)
	}

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

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetNetwork returns the params of the configured network.
func GetNetwork() *network.Params {
	net, _ := network.FromName(GetString(NetworkKey))
	return net
}

// GetScheme returns the configured encryption scheme.
func GetScheme() wallet.Scheme {
	scheme, _ := wallet.ParseScheme(GetString(EncryptionSchemeKey))
	return scheme
}

// GetApiTimeout returns the provider request timeout.
func GetApiTimeout() time.Duration {
	return time.Duration(GetInt(ApiTimeoutKey)) * time.Millisecond
}

// GetApiEndpoints returns the configured provider urls, empty means the
// network defaults.
func GetApiEndpoints() []string {
	return strings.FieldsFunc(GetString(ApiEndpointsKey), func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// GetDbDir returns the path of the directory holding the wallet db.
func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation, GetString(NetworkKey))
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, err := network.FromName(GetString(NetworkKey)); err != nil {
		return fmt.Errorf("%s: %s", NetworkKey, err)
	}

	if _, err := wallet.ParseScheme(GetString(EncryptionSchemeKey)); err != nil {
		return fmt.Errorf("%s: %s", EncryptionSchemeKey, err)
	}

	dbType := GetString(DBTypeKey)
	if dbType != DBJson && dbType != DBBadger {
		return fmt.Errorf("%s must be one of %s, %s", DBTypeKey, DBJson, DBBadger)
	}

	if GetInt(ApiTimeoutKey) <= 0 {
		return fmt.Errorf("%s must be greater than 0", ApiTimeoutKey)
	}
	if GetInt(ApiMaxRetriesKey) < 0 {
		return fmt.Errorf("%s must not be negative", ApiMaxRetriesKey)
	}
	if GetInt(ApiRateLimitKey) < 0 {
		return fmt.Errorf("%s must not be negative", ApiRateLimitKey)
	}
	if GetInt(GapLimitKey) <= 0 {
		return fmt.Errorf("%s must be greater than 0", GapLimitKey)
	}
	if GetInt(MaxDiscoveryWindowsKey) <= 0 {
		return fmt.Errorf("%s must be greater than 0", MaxDiscoveryWindowsKey)
	}

	return nil
}

func initDatadir() error {
	return makeDirectoryIfNotExists(GetDbDir())
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
