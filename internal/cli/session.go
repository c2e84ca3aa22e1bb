package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/tcfw/didvault/internal/config"
	"github.com/tcfw/didvault/internal/store"
	"github.com/tcfw/didvault/pkg/did/local"
	"github.com/tcfw/didvault/pkg/did/resolver"
	"github.com/tcfw/didvault/pkg/vault"
	"github.com/tcfw/didvault/pkg/vault/software"
)

const (
	cmdTimeout = 1 * time.Minute
)

var (
	errNoWallet = errors.New("no wallet selected, use --wallet or DIDVAULT_WALLET_ID")
	errNoPass   = errors.New("no password given, use --pass or DIDVAULT_WALLET_PASS")
)

// session is everything a command needs, built from config
type session struct {
	cfg    *config.Config
	store  store.Store
	engine *software.Engine
	crypto *vault.CryptoProvider
}

func newSession() (*session, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}

	s, err := store.Open(cfg.Store().Backend, cfg.Store().Path)
	if err != nil {
		return nil, errors.Wrap(err, "opening store")
	}

	e, err := software.NewEngine()
	if err != nil {
		s.Close()
		return nil, errors.Wrap(err, "creating wallet engine")
	}

	return &session{
		cfg:    cfg,
		store:  s,
		engine: e,
		crypto: vault.NewCryptoProvider(software.NewCrypto()),
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

func (s *session) pass() (string, error) {
	p := s.cfg.Wallet().Pass
	if p == "" {
		return "", errNoPass
	}

	return p, nil
}

func (s *session) provider(ctx context.Context) (*vault.Provider, error) {
	id := s.cfg.Wallet().ID
	if id == "" {
		return nil, errNoWallet
	}

	return store.LoadProvider(ctx, s.store, s.engine, id, vault.WithSerializedWrites())
}

func (s *session) registrar() *local.Registrar {
	return local.NewRegistrar(s.store, s.crypto)
}

func (s *session) resolver() *resolver.Resolver {
	return resolver.New(local.NewResolver(s.store, s.crypto))
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cmdTimeout)
}

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
