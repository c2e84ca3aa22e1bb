package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tcfw/didvault/internal/store"
	"github.com/tcfw/didvault/internal/utils/logging"
	"github.com/tcfw/didvault/pkg/vault"
)

var (
	walletCmd = &cobra.Command{
		Use:   "wallet",
		Short: "Wallet commands",
	}

	wallet_newCmd = &cobra.Command{
		Use:   "new [id]",
		Short: "Create an empty wallet",
		Args:  cobra.MaximumNArgs(1),
		Run:   runWalletNew,
	}

	wallet_passwdCmd = &cobra.Command{
		Use:   "passwd",
		Short: "Change a wallet's password",
		Run:   runWalletPasswd,
	}

	wallet_showCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the encrypted wallet",
		Run:   runWalletShow,
	}

	wallet_listCmd = &cobra.Command{
		Use:   "list",
		Short: "List stored wallets",
		Run:   runWalletList,
	}
)

func init() {
	wallet_passwdCmd.Flags().String("new-pass", "", "new wallet password")
	wallet_passwdCmd.MarkFlagRequired("new-pass")
}

func runWalletNew(cmd *cobra.Command, args []string) {
	ctx, cancel := cmdContext()
	defer cancel()

	s, err := newSession()
	if err != nil {
		logging.WithError(err).Error("starting")
		return
	}
	defer s.Close()

	id := s.cfg.Wallet().ID
	if len(args) == 1 {
		id = args[0]
	}
	if id == "" {
		logging.WithError(errNoWallet).Error("creating wallet")
		return
	}

	pass, err := s.pass()
	if err != nil {
		logging.WithError(err).Error("creating wallet")
		return
	}

	if _, err := s.store.GetWallet(ctx, id); err == nil {
		logging.WithField("wallet", id).Error("wallet already exists")
		return
	}

	p, err := vault.NewEmptyWallet(ctx, s.engine, id, pass)
	if err != nil {
		logging.WithError(err).Error("creating wallet")
		return
	}

	if err := store.SaveProvider(ctx, s.store, p, ""); err != nil {
		logging.WithError(err).Error("saving wallet")
		return
	}

	fmt.Fprintln(cmd.OutOrStdout(), p.ID())
}

func runWalletPasswd(cmd *cobra.Command, args []string) {
	ctx, cancel := cmdContext()
	defer cancel()

	s, err := newSession()
	if err != nil {
		logging.WithError(err).Error("starting")
		return
	}
	defer s.Close()

	pass, err := s.pass()
	if err != nil {
		logging.WithError(err).Error("changing password")
		return
	}

	newPass, _ := cmd.Flags().GetString("new-pass")

	p, err := s.provider(ctx)
	if err != nil {
		logging.WithError(err).Error("loading wallet")
		return
	}

	if err := p.ChangePass(ctx, pass, newPass); err != nil {
		logging.WithError(err).Error("changing password")
		return
	}

	if err := store.SaveProvider(ctx, s.store, p, ""); err != nil {
		logging.WithError(err).Error("saving wallet")
	}
}

func runWalletShow(cmd *cobra.Command, args []string) {
	ctx, cancel := cmdContext()
	defer cancel()

	s, err := newSession()
	if err != nil {
		logging.WithError(err).Error("starting")
		return
	}
	defer s.Close()

	p, err := s.provider(ctx)
	if err != nil {
		logging.WithError(err).Error("loading wallet")
		return
	}

	fmt.Fprintln(cmd.OutOrStdout(), p.EncryptedWallet())
}

func runWalletList(cmd *cobra.Command, args []string) {
	ctx, cancel := cmdContext()
	defer cancel()

	s, err := newSession()
	if err != nil {
		logging.WithError(err).Error("starting")
		return
	}
	defer s.Close()

	ids, err := s.store.ListWallets(ctx)
	if err != nil {
		logging.WithError(err).Error("listing wallets")
		return
	}

	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
}
