package store

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tcfw/didvault/internal/utils/logging"
	"github.com/tcfw/didvault/pkg/did/w3cdid"
)

const (
	cacheSize = 1 << 20 * 8
)

type keyType byte

const (
	walletTPrefix keyType = iota + 1
	documentTPrefix
)

var _ Store = (*PebbleStore)(nil)

type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(path string) (*PebbleStore, error) {
	c := pebble.NewCache(cacheSize)
	defer c.Unref()

	db, err := pebble.Open(path, &pebble.Options{Cache: c})
	if err != nil {
		return nil, errors.Wrap(err, "opening pebble store")
	}

	return &PebbleStore{db: db}, nil
}

func typedKey(kType keyType, id string) []byte {
	k := make([]byte, 0, len(id)+1)
	k = append(k, byte(kType))
	return append(k, []byte(id)...)
}

func (s *PebbleStore) get(key []byte, id string) ([]byte, error) {
	d, done, err := s.db.Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, errors.Wrap(ErrNotFound, id)
		}
		return nil, errors.Wrap(err, "reading record")
	}
	defer done.Close()

	//d is only valid until done is closed
	out := make([]byte, len(d))
	copy(out, d)

	return out, nil
}

func (s *PebbleStore) PutWallet(_ context.Context, rec WalletRecord) error {
	b, err := msgpack.Marshal(&rec)
	if err != nil {
		return errors.Wrap(err, "marshalling wallet record")
	}

	if err := s.db.Set(typedKey(walletTPrefix, rec.ID), b, pebble.Sync); err != nil {
		return errors.Wrap(err, "writing wallet record")
	}

	logging.WithField("wallet", rec.ID).Debug("stored wallet")

	return nil
}

func (s *PebbleStore) GetWallet(_ context.Context, id string) (*WalletRecord, error) {
	b, err := s.get(typedKey(walletTPrefix, id), id)
	if err != nil {
		return nil, err
	}

	rec := &WalletRecord{}
	if err := msgpack.Unmarshal(b, rec); err != nil {
		return nil, errors.Wrap(err, "unmarshalling wallet record")
	}

	return rec, nil
}

func (s *PebbleStore) DeleteWallet(_ context.Context, id string) error {
	k := typedKey(walletTPrefix, id)

	if _, err := s.get(k, id); err != nil {
		return err
	}

	return s.db.Delete(k, pebble.Sync)
}

func (s *PebbleStore) ListWallets(_ context.Context) ([]string, error) {
	iter := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{byte(walletTPrefix)},
		UpperBound: []byte{byte(walletTPrefix) + 1},
	})
	defer iter.Close()

	ids := []string{}
	for iter.First(); iter.Valid(); iter.Next() {
		ids = append(ids, string(iter.Key()[1:]))
	}

	return ids, nil
}

func (s *PebbleStore) PutDocument(_ context.Context, doc *w3cdid.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshalling document")
	}

	return s.db.Set(typedKey(documentTPrefix, doc.ID), b, pebble.Sync)
}

func (s *PebbleStore) GetDocument(_ context.Context, did string) (*w3cdid.Document, error) {
	b, err := s.get(typedKey(documentTPrefix, did), did)
	if err != nil {
		return nil, err
	}

	doc := &w3cdid.Document{}
	if err := json.Unmarshal(b, doc); err != nil {
		return nil, errors.Wrap(err, "unmarshalling document")
	}

	return doc, nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}
