package config

import (
	"github.com/spf13/viper"
)

// Wallet selects the wallet CLI commands operate on
type Wallet struct {
	ID   string
	Pass string
}

const (
	Cfg_wallet_id   = "wallet.id"
	Cfg_wallet_pass = "wallet.pass"
)

var (
	walletDefaults = map[string]interface{}{
		Cfg_wallet_id:   "",
		Cfg_wallet_pass: "",
	}
)

func init() {
	for k, v := range walletDefaults {
		viper.SetDefault(k, v)
	}
}

func buildWalletConfig() *Wallet {
	return &Wallet{
		ID:   viper.GetString(Cfg_wallet_id),
		Pass: viper.GetString(Cfg_wallet_pass),
	}
}
