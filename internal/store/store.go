package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tcfw/didvault/pkg/did/local"
	"github.com/tcfw/didvault/pkg/vault"
)

const (
	BackendFile   = "file"
	BackendPebble = "pebble"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrUnknownBackend = errors.New("unknown store backend")
)

// WalletRecord is an encrypted wallet in its canonical string form
type WalletRecord struct {
	ID              string `yaml:"id" msgpack:"id"`
	EncryptedWallet string `yaml:"data" msgpack:"w"`
}

// Store persists encrypted wallets and published DID documents
type Store interface {
	local.DocumentStore

	PutWallet(ctx context.Context, rec WalletRecord) error
	GetWallet(ctx context.Context, id string) (*WalletRecord, error)
	DeleteWallet(ctx context.Context, id string) error
	ListWallets(ctx context.Context) ([]string, error)

	Close() error
}

// Open opens the store for backend at path
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(path)
	case BackendPebble:
		return NewPebbleStore(path)
	default:
		return nil, errors.Wrap(ErrUnknownBackend, backend)
	}
}

// SaveProvider writes the provider's current wallet. If the wallet was renamed
// from previousID the old record is removed.
func SaveProvider(ctx context.Context, s Store, p *vault.Provider, previousID string) error {
	rec := WalletRecord{ID: p.ID(), EncryptedWallet: p.EncryptedWallet()}
	if err := s.PutWallet(ctx, rec); err != nil {
		return err
	}

	if previousID != "" && previousID != rec.ID {
		if err := s.DeleteWallet(ctx, previousID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	return nil
}

// LoadProvider opens a provider over the stored wallet id
func LoadProvider(ctx context.Context, s Store, engine vault.WalletEngine, id string, opts ...vault.Option) (*vault.Provider, error) {
	rec, err := s.GetWallet(ctx, id)
	if err != nil {
		return nil, err
	}

	return vault.LoadProvider(engine, rec.EncryptedWallet, rec.ID, opts...)
}
