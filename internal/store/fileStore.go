package store

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tcfw/didvault/internal/utils/logging"
	"github.com/tcfw/didvault/pkg/did/w3cdid"
)

type fileData struct {
	Wallets   []WalletRecord `yaml:"wallets"`
	Documents []fileDocument `yaml:"documents"`
}

type fileDocument struct {
	DID  string `yaml:"did"`
	Data string `yaml:"data"`
}

var _ Store = (*FileStore)(nil)

// FileStore keeps everything in a single yaml file which is rewritten on
// every change
type FileStore struct {
	path string
	data fileData

	mu sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(err, "creating store dir")
	}

	f := &FileStore{path: path}
	if err := f.read(); err != nil {
		return nil, err
	}

	return f, nil
}

func (fs *FileStore) read() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := os.OpenFile(fs.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return errors.Wrap(err, "opening store file for read")
	}
	defer f.Close()

	d, err := ioutil.ReadAll(f)
	if err != nil {
		return errors.Wrap(err, "reading store file")
	}

	if err := yaml.Unmarshal(d, &fs.data); err != nil {
		return errors.Wrap(err, "unmarshalling store data")
	}

	return nil
}

func (fs *FileStore) write() error {
	//assumes locked fs.mu

	f, err := os.OpenFile(fs.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return errors.Wrap(err, "opening store file for write")
	}
	defer f.Close()

	d, err := yaml.Marshal(&fs.data)
	if err != nil {
		return errors.Wrap(err, "marshalling store data")
	}

	if err := f.Truncate(0); err != nil {
		return errors.Wrap(err, "truncating store file")
	}

	if _, err := f.Write(d); err != nil {
		return errors.Wrap(err, "writing store file")
	}

	logging.WithField("path", fs.path).Debug("wrote store file")

	return nil
}

func (fs *FileStore) PutWallet(_ context.Context, rec WalletRecord) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i := range fs.data.Wallets {
		if fs.data.Wallets[i].ID == rec.ID {
			fs.data.Wallets[i] = rec
			return fs.write()
		}
	}

	fs.data.Wallets = append(fs.data.Wallets, rec)

	return fs.write()
}

func (fs *FileStore) GetWallet(_ context.Context, id string) (*WalletRecord, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, w := range fs.data.Wallets {
		if w.ID == id {
			rec := w
			return &rec, nil
		}
	}

	return nil, errors.Wrap(ErrNotFound, id)
}

func (fs *FileStore) DeleteWallet(_ context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i, w := range fs.data.Wallets {
		if w.ID == id {
			fs.data.Wallets = append(fs.data.Wallets[:i], fs.data.Wallets[i+1:]...)
			return fs.write()
		}
	}

	return errors.Wrap(ErrNotFound, id)
}

func (fs *FileStore) ListWallets(_ context.Context) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ids := make([]string, 0, len(fs.data.Wallets))
	for _, w := range fs.data.Wallets {
		ids = append(ids, w.ID)
	}
	sort.Strings(ids)

	return ids, nil
}

func (fs *FileStore) PutDocument(_ context.Context, doc *w3cdid.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshalling document")
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fd := fileDocument{DID: doc.ID, Data: string(b)}

	for i := range fs.data.Documents {
		if fs.data.Documents[i].DID == doc.ID {
			fs.data.Documents[i] = fd
			return fs.write()
		}
	}

	fs.data.Documents = append(fs.data.Documents, fd)

	return fs.write()
}

func (fs *FileStore) GetDocument(_ context.Context, did string) (*w3cdid.Document, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, d := range fs.data.Documents {
		if d.DID != did {
			continue
		}

		doc := &w3cdid.Document{}
		if err := json.Unmarshal([]byte(d.Data), doc); err != nil {
			return nil, errors.Wrap(err, "unmarshalling document")
		}

		return doc, nil
	}

	return nil, errors.Wrap(ErrNotFound, did)
}

func (fs *FileStore) Close() error {
	return nil
}
