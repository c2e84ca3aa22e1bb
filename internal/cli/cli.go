package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tcfw/didvault/internal/config"
)

var (
	rootCmd = &cobra.Command{
		Use:   "didvault",
		Short: "Manage encrypted key vaults and the DIDs they back",
	}
)

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase verbosity")
	rootCmd.PersistentFlags().StringP("wallet", "w", "", "wallet id to operate on")
	rootCmd.PersistentFlags().StringP("pass", "p", "", "wallet password")
	rootCmd.PersistentFlags().String("store-backend", "file", "wallet and document store backend (file|pebble)")
	rootCmd.PersistentFlags().String("store-path", "", "store location. blank defaults to ~/.didvault")

	viper.BindPFlag(config.Cfg_verbose, rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag(config.Cfg_wallet_id, rootCmd.PersistentFlags().Lookup("wallet"))
	viper.BindPFlag(config.Cfg_wallet_pass, rootCmd.PersistentFlags().Lookup("pass"))
	viper.BindPFlag(config.Cfg_store_backend, rootCmd.PersistentFlags().Lookup("store-backend"))
	viper.BindPFlag(config.Cfg_store_path, rootCmd.PersistentFlags().Lookup("store-path"))

	regCommands()
}

func Execute() error {
	return rootCmd.Execute()
}
