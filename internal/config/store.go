package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Store struct {
	Backend string
	Path    string
}

const (
	Cfg_store_backend = "store.backend"
	Cfg_store_path    = "store.path"
)

var (
	storeDefaults = map[string]interface{}{
		Cfg_store_backend: "file",
		Cfg_store_path:    "",
	}
)

func init() {
	for k, v := range storeDefaults {
		viper.SetDefault(k, v)
	}
}

func buildStoreConfig() (*Store, error) {
	c := &Store{
		Backend: viper.GetString(Cfg_store_backend),
		Path:    viper.GetString(Cfg_store_path),
	}

	switch c.Backend {
	case "file", "pebble":
	default:
		return nil, errors.Errorf("unknown backend %q", c.Backend)
	}

	if c.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "finding home dir")
		}

		c.Path = filepath.Join(home, ".didvault", "store.yaml")
		if c.Backend == "pebble" {
			c.Path = filepath.Join(home, ".didvault", "pebble")
		}
	}

	return c, nil
}
