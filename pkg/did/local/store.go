package local

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/tcfw/didvault/pkg/did/w3cdid"
)

var (
	ErrNotFound = errors.New("document not found")
)

// DocumentStore persists published DID documents keyed by DID
type DocumentStore interface {
	PutDocument(ctx context.Context, doc *w3cdid.Document) error
	GetDocument(ctx context.Context, did string) (*w3cdid.Document, error)
}

// MemStore keeps documents in their JSON form in memory
type MemStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{docs: map[string][]byte{}}
}

func (m *MemStore) PutDocument(_ context.Context, doc *w3cdid.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshalling document")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[doc.ID] = b

	return nil
}

func (m *MemStore) GetDocument(_ context.Context, did string) (*w3cdid.Document, error) {
	m.mu.RLock()
	b, ok := m.docs[did]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.Wrap(ErrNotFound, did)
	}

	doc := &w3cdid.Document{}
	if err := json.Unmarshal(b, doc); err != nil {
		return nil, errors.Wrap(err, "unmarshalling document")
	}

	return doc, nil
}
