package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/tcfw/didvault/internal/utils/logging"
)

const (
	Cfg_verbose = "verbose"
)

var (
	defaults = map[string]interface{}{
		Cfg_verbose: false,
	}
)

func init() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

func GetConfig() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("didvault")
	viper.AddConfigPath("/etc/didvault/")
	viper.AddConfigPath("$HOME/.didvault")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("DIDVAULT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error
			logging.Entry().Debug("no config found")
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	return build()
}

func build() (*Config, error) {
	c := &Config{}

	var err error

	c.store, err = buildStoreConfig()
	if err != nil {
		return nil, errors.Wrap(err, "store config")
	}

	c.wallet = buildWalletConfig()

	if viper.GetBool(Cfg_verbose) {
		logging.SetLevel(logrus.DebugLevel)
		logging.Entry().WithField("level", "debug").Debug("setting log level")
	}

	return c, nil
}

type Config struct {
	store  *Store
	wallet *Wallet
}

func (c *Config) Store() *Store {
	return c.store
}

func (c *Config) Wallet() *Wallet {
	return c.wallet
}
