package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tcfw/didvault/internal/store"
	"github.com/tcfw/didvault/internal/utils/logging"
	"github.com/tcfw/didvault/pkg/cryptography"
)

var (
	keyCmd = &cobra.Command{
		Use:   "key",
		Short: "Key commands",
	}

	key_newCmd = &cobra.Command{
		Use:   "new",
		Short: "Generate a key in the wallet",
		Run:   runKeyNew,
	}

	key_listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the public keys in the wallet",
		Run:   runKeyList,
	}
)

func init() {
	types := make([]string, 0, len(cryptography.KeyTypes))
	for _, kt := range cryptography.KeyTypes {
		types = append(types, kt.String())
	}

	key_newCmd.Flags().StringP("type", "t", cryptography.Ed25519VerificationKey2018.String(), "key type, one of "+strings.Join(types, ", "))
	key_newCmd.Flags().StringP("controller", "c", "", "controller reference for the key, e.g. did:example:abc#keys-1")
}

func runKeyNew(cmd *cobra.Command, args []string) {
	ctx, cancel := cmdContext()
	defer cancel()

	keyTypeStr, _ := cmd.Flags().GetString("type")
	controller, _ := cmd.Flags().GetString("controller")

	keyType, err := cryptography.ParseKeyType(keyTypeStr)
	if err != nil {
		logging.WithError(err).Error("failed to understand flag 'type'")
		return
	}

	s, err := newSession()
	if err != nil {
		logging.WithError(err).Error("starting")
		return
	}
	defer s.Close()

	pass, err := s.pass()
	if err != nil {
		logging.WithError(err).Error("creating key")
		return
	}

	p, err := s.provider(ctx)
	if err != nil {
		logging.WithError(err).Error("loading wallet")
		return
	}

	k, err := p.NewKeyPair(ctx, pass, keyType, controller)
	if err != nil {
		logging.WithError(err).Error("creating key")
		return
	}

	if err := store.SaveProvider(ctx, s.store, p, ""); err != nil {
		logging.WithError(err).Error("saving wallet")
		return
	}

	printJSON(cmd.OutOrStdout(), k)
}

func runKeyList(cmd *cobra.Command, args []string) {
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
		logging.WithError(err).Error("listing keys")
		return
	}

	p, err := s.provider(ctx)
	if err != nil {
		logging.WithError(err).Error("loading wallet")
		return
	}

	keys, err := p.PubKeys(ctx, pass)
	if err != nil {
		logging.WithError(err).Error("listing keys")
		return
	}

	printJSON(cmd.OutOrStdout(), keys)
}
