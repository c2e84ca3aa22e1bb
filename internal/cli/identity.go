package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tcfw/didvault/internal/store"
	"github.com/tcfw/didvault/internal/utils/logging"
	"github.com/tcfw/didvault/pkg/wallet"
)

var (
	identityCmd = &cobra.Command{
		Use:   "identity",
		Short: "Identity commands",
	}

	identity_createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a did:vault identity backed by the wallet. The wallet is renamed to the new DID",
		Run:   runIdentityCreate,
	}

	identity_showCmd = &cobra.Command{
		Use:   "show [did]",
		Short: "Resolve and print an identity. Defaults to the wallet's DID",
		Args:  cobra.MaximumNArgs(1),
		Run:   runIdentityShow,
	}
)

func runIdentityCreate(cmd *cobra.Command, args []string) {
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
		logging.WithError(err).Error("creating identity")
		return
	}

	p, err := s.provider(ctx)
	if err != nil {
		logging.WithError(err).Error("loading wallet")
		return
	}

	previousID := p.ID()

	w, err := wallet.CreateIdentityFromKeyProvider(ctx, p, pass, s.registrar())
	if err != nil {
		logging.WithError(err).Error("creating identity")
		return
	}

	if err := store.SaveProvider(ctx, s.store, p, previousID); err != nil {
		logging.WithError(err).Error("saving wallet")
		return
	}

	fmt.Fprintln(cmd.OutOrStdout(), w.DID())
}

func runIdentityShow(cmd *cobra.Command, args []string) {
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

	ident, err := s.resolver().Resolve(ctx, id)
	if err != nil {
		logging.WithError(err).Error("resolving identity")
		return
	}

	printJSON(cmd.OutOrStdout(), ident)
}
