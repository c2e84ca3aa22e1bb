package cli

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tcfw/didvault/internal/utils/logging"
	"github.com/tcfw/didvault/pkg/wallet"
)

var (
	signCmd = &cobra.Command{
		Use:   "sign <message>",
		Short: "Sign a message as the wallet's identity. Prints the hex signature",
		Args:  cobra.ExactArgs(1),
		Run:   runSign,
	}

	verifyCmd = &cobra.Command{
		Use:   "verify <did> <message> <signature>",
		Short: "Verify a hex signature made by an identity's signing key",
		Args:  cobra.ExactArgs(3),
		Run:   runVerify,
	}
)

func runSign(cmd *cobra.Command, args []string) {
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
		logging.WithError(err).Error("signing")
		return
	}

	p, err := s.provider(ctx)
	if err != nil {
		logging.WithError(err).Error("loading wallet")
		return
	}

	w, err := wallet.AuthAsIdentityFromKeyProvider(ctx, p, pass, wallet.IdentityOrResolver{Resolver: s.resolver()})
	if err != nil {
		logging.WithError(err).Error("authenticating as identity")
		return
	}

	sig, err := w.Sign(ctx, []byte(args[0]), pass)
	if err != nil {
		logging.WithError(err).Error("signing")
		return
	}

	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sig))
}

func runVerify(cmd *cobra.Command, args []string) {
	ctx, cancel := cmdContext()
	defer cancel()

	sig, err := hex.DecodeString(args[2])
	if err != nil {
		logging.WithError(err).Error("decoding signature")
		return
	}

	s, err := newSession()
	if err != nil {
		logging.WithError(err).Error("starting")
		return
	}
	defer s.Close()

	ident, err := s.resolver().Resolve(ctx, args[0])
	if err != nil {
		logging.WithError(err).Error("resolving identity")
		return
	}

	doc := ident.Document()

	signer, err := doc.Signer()
	if err != nil {
		logging.WithError(err).Error("finding signing key")
		return
	}

	key, ok := doc.FindPublicKey(signer.KeyID)
	if !ok {
		logging.WithError(errors.New("signing key not in document")).Error("finding signing key")
		return
	}

	kt, err := key.KeyType()
	if err != nil {
		logging.WithError(err).Error("finding signing key")
		return
	}

	pk, err := key.PublicKey()
	if err != nil {
		logging.WithError(err).Error("decoding signing key")
		return
	}

	valid, err := s.crypto.VerifyStrict(ctx, pk, kt, []byte(args[1]), sig)
	if err != nil {
		logging.WithError(err).Error("verifying")
		return
	}

	if valid {
		fmt.Fprintln(cmd.OutOrStdout(), "valid")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "invalid")
	}
}
